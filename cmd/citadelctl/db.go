package main

import (
	"fmt"

	"citadel/internal/database"
	"citadel/internal/model"
	"citadel/internal/repository"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newMigrateCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadCtlConfig()
			if err != nil {
				return err
			}
			pool, err := openPool(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()
			return database.RunMigrations(pool, log)
		},
	}
}

// newGrantRoleCmd bootstraps the first admin, which the HTTP API cannot do.
func newGrantRoleCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "grant-role <user-id> <user|admin>",
		Short: "Set a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, role := args[0], args[1]
			if role != model.RoleUser && role != model.RoleAdmin {
				return fmt.Errorf("role must be %q or %q", model.RoleUser, model.RoleAdmin)
			}
			cfg, err := loadCtlConfig()
			if err != nil {
				return err
			}
			pool, err := openPool(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			u, err := repository.NewUserRepo(pool).UpdateRole(cmd.Context(), userID, role)
			if err != nil {
				return fmt.Errorf("updating role for %s: %w", userID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.ID, u.Role)
			return nil
		},
	}
}

func newSessionsCmd(log zerolog.Logger) *cobra.Command {
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored login sessions",
	}
	sessions.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadCtlConfig()
			if err != nil {
				return err
			}
			pool, err := openPool(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := repository.NewSessionRepo(pool).DeleteExpiredSessions(cmd.Context())
			if err != nil {
				return err
			}
			log.Info().Int64("deleted", n).Msg("Pruned expired sessions")
			return nil
		},
	})
	return sessions
}
