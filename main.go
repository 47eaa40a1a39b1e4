package main

import (
	"fmt"
	"os"

	"github.com/RajaSunrise/toko/internal/config"
	"github.com/RajaSunrise/toko/pkg/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	rootCmd := &cobra.Command{
		Use:           "toko",
		Short:         "toko storefront: catalog, cart, checkout and Pagadito payments",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")

	load := func() (*config.Config, error) {
		return config.Load(envFile)
	}
	rootCmd.AddCommand(serveCmd(load))
	rootCmd.AddCommand(migrateCmd(load))
	rootCmd.AddCommand(adminCmd(load))
	return rootCmd
}

type configLoader func() (*config.Config, error)

// openDB connects to the configured store, creating the tables first when DB_AUTO_MIGRATE is set.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	conn, err := db.Open(db.Config{
		Driver:          cfg.DB.Driver,
		DSN:             cfg.DB.DSN,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(conn); err != nil {
			_ = db.Close(conn)
			return nil, err
		}
	}
	return conn, nil
}
