package main

import (
	"fmt"

	"github.com/RajaSunrise/toko/pkg/db"
	"github.com/RajaSunrise/toko/pkg/migrate"
	"github.com/spf13/cobra"
)

func migrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Run the embedded Postgres schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.DB.Driver != "" && cfg.DB.Driver != "postgres" {
				return fmt.Errorf("migrations target postgres, got DB_DRIVER=%s (use DB_AUTO_MIGRATE instead)", cfg.DB.Driver)
			}

			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close(conn)

			sqlDB, err := conn.DB()
			if err != nil {
				return fmt.Errorf("getting sql db handle: %w", err)
			}
			if err := migrate.Run(cmd.Context(), sqlDB, command); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s done\n", command)
			return nil
		},
	}
}
