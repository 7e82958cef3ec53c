package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"citadel/internal/util"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint an HS256 API token signed with JWT_KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := os.Getenv("JWT_KEY")
			if key == "" {
				return errors.New("JWT_KEY is not set")
			}
			token, err := util.IssueToken(args[0], email, key, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
