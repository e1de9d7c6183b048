package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fintrack/fintrack-api/internal/config"
	"github.com/fintrack/fintrack-api/internal/platform/postgres"
	"github.com/fintrack/fintrack-api/internal/service"
	"github.com/fintrack/fintrack-api/internal/service/auth"
	"github.com/fintrack/fintrack-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore        store.UserStore
	accountStore     store.AccountStore
	cardStore        store.CardStore
	transactionStore store.TransactionStore

	// Service interfaces
	tokenService       auth.TokenService
	passwordHasher     auth.PasswordHasher
	passwordVerifier   auth.PasswordVerifier
	userService        service.UserService
	accountService     service.AccountService
	cardService        service.CardService
	transactionService service.TransactionService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies that must be established before
// application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("token service initialized",
		slog.Int("token_lifetime_seconds", cfg.Auth.TokenLifetimeSeconds))

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordHasher = hasher
	app.passwordVerifier = hasher

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.accountStore = postgres.NewPostgresAccountStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.transactionStore = postgres.NewPostgresTransactionStore(db, logger)

	// Services
	app.userService, err = service.NewUserService(
		app.userStore,
		app.passwordHasher,
		app.passwordVerifier,
		db,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.accountService, err = service.NewAccountService(
		app.accountStore,
		app.transactionStore,
		db,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	app.cardService, err = service.NewCardService(
		app.cardStore,
		app.transactionStore,
		db,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.transactionService, err = service.NewTransactionService(
		app.transactionStore,
		app.accountStore,
		app.cardStore,
		db,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
