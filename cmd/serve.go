package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"woodzire_server/api"
	"woodzire_server/database"
	"woodzire_server/services"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/urfave/cli/v3"
)

func serveCommand(cfg *structs.Config, logger *gecho.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "apply schema migrations before listening",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, cfg, logger, c.Bool("migrate"))
		},
	}
}

func serve(ctx context.Context, cfg *structs.Config, logger *gecho.Logger, migrate bool) error {
	if err := database.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := database.CloseInstance(); err != nil {
			logger.Error("Failed to close database", gecho.Field("error", err))
		}
	}()
	db := database.GetInstance()

	if migrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			return err
		}
	}

	sm := services.NewServiceManager(logger, cfg, db)
	defer sm.CacheService.Close()

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Received shutdown signal, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
