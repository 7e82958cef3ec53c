package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"citadel/internal/config"
	"citadel/internal/model"
	"citadel/internal/pgmq"
	"citadel/internal/pubsub"
	"citadel/internal/worker"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newEventsCmd(log zerolog.Logger) *cobra.Command {
	events := &cobra.Command{
		Use:   "events",
		Short: "Work with the pgmq domain event queue",
	}
	var idle time.Duration
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Consume events and print them as JSON lines",
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

			enc := json.NewEncoder(cmd.OutOrStdout())
			return worker.Run(cmd.Context(), log, pgmq.New(pool), cfg.EventsTopic, idle,
				func(_ context.Context, e model.Event) error {
					return enc.Encode(e)
				})
		},
	}
	tail.Flags().DurationVar(&idle, "idle", 2*time.Second, "wait between empty reads")
	events.AddCommand(tail, newEventsSetupCmd(log))
	return events
}

// newEventsSetupCmd creates the events topic (pubsub) or queue (pgmq) so the
// API can publish on first start.
func newEventsSetupCmd(log zerolog.Logger) *cobra.Command {
	var backend, projectID string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the events topic or queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadCtlConfig()
			if err != nil {
				return err
			}
			switch backend {
			case "pubsub":
				pub, err := pubsub.NewPublisher(cmd.Context(), &config.Config{GCPProjectID: projectID})
				if err != nil {
					return err
				}
				defer pub.Close()
				created, err := pub.EnsureTopic(cmd.Context(), cfg.EventsTopic)
				if err != nil {
					return err
				}
				log.Info().Str("topic", cfg.EventsTopic).Bool("created", created).Msg("Pub/Sub topic ready")
			case "pgmq":
				pool, err := openPool(cmd.Context(), cfg, log)
				if err != nil {
					return err
				}
				defer pool.Close()
				if err := pgmq.New(pool).CreateQueue(cmd.Context(), cfg.EventsTopic); err != nil {
					return err
				}
				log.Info().Str("queue", cfg.EventsTopic).Msg("pgmq queue ready")
			default:
				return fmt.Errorf("unknown backend %q, want pubsub or pgmq", backend)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", os.Getenv("EVENTS_BACKEND"), "pubsub or pgmq")
	cmd.Flags().StringVar(&projectID, "project", os.Getenv("GCP_PROJECT_ID"), "GCP project for pubsub")
	return cmd
}
