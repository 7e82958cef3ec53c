// Command citadelctl runs maintenance tasks against the Citadel database and
// prints a dashboard through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"citadel/internal/config"
	"citadel/internal/database"
	"citadel/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ctlConfig is the subset of server settings the database commands need.
type ctlConfig struct {
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns         int32  `envconfig:"DB_MAX_CONNS" default:"4"`
	JWTKey             string `envconfig:"JWT_KEY"`
	EventsTopic        string `envconfig:"EVENTS_TOPIC" default:"citadel-events"`
}

func loadCtlConfig() (*ctlConfig, error) {
	var cfg ctlConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func openPool(ctx context.Context, cfg *ctlConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	return database.Open(ctx, &config.Config{
		Environment:        cfg.Environment,
		DBConnectionString: cfg.DBConnectionString,
		DBMaxConns:         cfg.DBMaxConns,
	}, log)
}

func newRootCmd(log zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "citadelctl",
		Short:         "Citadel maintenance and dashboard CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(log),
		newGrantRoleCmd(log),
		newSessionsCmd(log),
		newTokenCmd(),
		newDashboardCmd(),
		newEventsCmd(log),
	)
	return root
}

func main() {
	log := logger.New()
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
