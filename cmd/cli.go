package cmd

import (
	"context"
	"fmt"
	"os"
	"woodzire_server/database"
	"woodzire_server/services"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/urfave/cli/v3"
)

// Run parses os.Args and executes the selected command. Without a
// subcommand the API server is started.
func Run(ctx context.Context, cfg *structs.Config, logger *gecho.Logger) error {
	root := &cli.Command{
		Name:  "woodzire",
		Usage: "Woodzire storefront API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, cfg, logger, false)
		},
		Commands: []*cli.Command{
			serveCommand(cfg, logger),
			{
				Name:  "migrate",
				Usage: "Create or update the database schema",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := connect(cfg, logger)
					if err != nil {
						return err
					}
					defer db.Close()

					if err := database.Migrate(ctx, db, logger); err != nil {
						return err
					}
					logger.Info("Migration complete")
					return nil
				},
			},
			productsCommand(cfg, logger),
			usersCommand(cfg, logger),
		},
	}

	return root.Run(ctx, os.Args)
}

func connect(cfg *structs.Config, logger *gecho.Logger) (*database.DB, error) {
	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// withServices opens the database, wires the services and releases both
// once fn returns.
func withServices(cfg *structs.Config, logger *gecho.Logger, fn func(sm *services.ServiceManager) error) error {
	db, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	sm := services.NewServiceManager(logger, cfg, db)
	defer sm.CacheService.Close()

	return fn(sm)
}
