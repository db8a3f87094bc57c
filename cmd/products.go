package cmd

import (
	"context"
	"os"
	"woodzire_server/services"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/urfave/cli/v3"
)

func productsCommand(cfg *structs.Config, logger *gecho.Logger) *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "Bulk catalogue operations",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Write every product to a CSV file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "products.csv", Usage: "destination file"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					f, err := os.Create(c.String("out"))
					if err != nil {
						return err
					}
					defer f.Close()

					return withServices(cfg, logger, func(sm *services.ServiceManager) error {
						n, err := sm.ProductService.ExportCSV(ctx, f)
						if err != nil {
							return err
						}
						logger.Info("Products exported", gecho.Field("rows", n), gecho.Field("file", c.String("out")))
						return nil
					})
				},
			},
			{
				Name:  "import",
				Usage: "Create or update products from a CSV file, matched by slug",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Required: true, Usage: "CSV file to read"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					f, err := os.Open(c.String("file"))
					if err != nil {
						return err
					}
					defer f.Close()

					return withServices(cfg, logger, func(sm *services.ServiceManager) error {
						report, err := sm.ProductService.ImportCSV(ctx, f)
						if err != nil {
							return err
						}
						for _, rowErr := range report.Errors {
							logger.Warn("Row skipped", gecho.Field("line", rowErr.Line), gecho.Field("error", rowErr.Message))
						}
						logger.Info("Products imported",
							gecho.Field("created", report.Created),
							gecho.Field("updated", report.Updated),
							gecho.Field("failed", len(report.Errors)),
						)
						return nil
					})
				},
			},
		},
	}
}
