// Package main implements the entry point for the fintrack API server,
// a personal bookkeeping backend that manages users, bank accounts, credit
// cards and their transactions.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/fintrack/fintrack-api/internal/config"
	"github.com/fintrack/fintrack-api/internal/platform/logger"
	"github.com/fintrack/fintrack-api/internal/platform/postgres"
	"github.com/fintrack/fintrack-api/migrations"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, wires the application together and serves until
// shutdown.
func run() error {
	// Load .env if present; real environment variables take precedence.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	ctx := context.Background()

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if err := postgres.Migrate(ctx, db, migrations.FS, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
