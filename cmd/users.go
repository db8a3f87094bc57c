package cmd

import (
	"context"
	"fmt"
	"woodzire_server/services"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/urfave/cli/v3"
)

func usersCommand(cfg *structs.Config, logger *gecho.Logger) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Account administration",
		Commands: []*cli.Command{
			{
				Name:  "grant-role",
				Usage: "Give an existing account a role, e.g. the first admin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "role", Value: string(tables.RoleAdmin)},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					role := tables.Role(c.String("role"))
					if !role.IsValid() {
						return fmt.Errorf("unknown role %q", role)
					}
					return withServices(cfg, logger, func(sm *services.ServiceManager) error {
						if err := sm.AuthService.GrantRoleByEmail(ctx, c.String("email"), role); err != nil {
							return err
						}
						logger.Info("Role granted", gecho.Field("email", c.String("email")), gecho.Field("role", role))
						return nil
					})
				},
			},
		},
	}
}
