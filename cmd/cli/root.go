package cli

import (
	"fmt"

	"go-appointment-booking/cmd/bootstrap"
	"go-appointment-booking/config"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree: serve, migrate and admin
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "appointment-booking",
		Short:         "Doctor appointment slot scheduling and booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(), newMigrateCommand(), newAdminCommand())
	return root
}

func newServeCommand() *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if migrateFirst {
				if err := runMigrations(cfg, func(m migrator) error { return m.Up() }); err != nil {
					return err
				}
			}

			app, err := bootstrap.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run()
		},
	}

	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}
