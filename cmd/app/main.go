package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citadel/internal/api/v1/router"
	"citadel/internal/config"
	"citadel/internal/database"
	"citadel/internal/logger"

	"github.com/joho/godotenv"
)

// @title Citadel API
// @version 1.0
// @description Personal knowledge and ritual tracker API
// @host localhost:8080
// @BasePath /api
// @Schemes http https

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// 2. Database and schema
	ctx := context.Background()
	pool, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to open database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, logger); err != nil {
		logger.Fatal().Msgf("Failed to run migrations: %v", err)
	}

	// 3. Build router
	r, cleanup, err := router.New(ctx, cfg, pool, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer cleanup()

	// 4. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Msgf("Listen: %s", err)
		}
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	logger.Info().Msg("Server shut down gracefully")
}
