package main

import (
	"fmt"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|reset|version]",
		Short: "Apply or inspect database migrations",
		Args:  cobra.MaximumNArgs(1),
		ValidArgs: []string{
			sqlstore.MigrateUp,
			sqlstore.MigrateDown,
			sqlstore.MigrateStatus,
			sqlstore.MigrateReset,
			sqlstore.MigrateVersion,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := sqlstore.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverMemory {
				return fmt.Errorf("migrations need a sql database, driver is %q", cfg.Database.Driver)
			}

			ctx := cmd.Context()
			db, err := sqlstore.Open(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error("error closing database connection", "error", err)
				}
			}()

			return sqlstore.Migrate(ctx, db, cfg.Database.Driver, command, log)
		},
	}
}
