package main

import (
	"fmt"

	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/pkg/db"
	"github.com/spf13/cobra"
)

func adminCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage back-office access",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "grant <email>",
		Short: "Give a registered user access to /admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close(conn)

			authService := services.NewAuthService(repositories.NewGORMUserRepository(conn), cfg.JWT.Secret, cfg.JWT.TTL)
			user, err := authService.GrantAdmin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", user.Email, user.ID)
			return nil
		},
	})
	return cmd
}
