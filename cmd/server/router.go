package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fintrack/fintrack-api/internal/api"
	apiMiddleware "github.com/fintrack/fintrack-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userService,
		app.userStore,
		app.tokenService,
		app.passwordVerifier,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	accountHandler := api.NewAccountHandler(app.accountService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	transactionHandler := api.NewTransactionHandler(app.transactionService, app.logger)

	// Authentication endpoints (public)
	r.Post("/auth/registro", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/validar-token", authHandler.ValidateToken)
	r.Post("/auth/refresh", authHandler.RefreshToken)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/contas", func(r chi.Router) {
			r.Post("/", accountHandler.Create)
			r.Get("/", accountHandler.List)
			r.Get("/ativas", accountHandler.ListActive)
			r.Get("/sem-transacoes", accountHandler.ListWithoutTransactions)
			r.Get("/tipo/{tipo}", accountHandler.ListByType)
			r.Get("/instituicao", accountHandler.SearchByInstitution)
			r.Get("/buscar", accountHandler.SearchByName)
			r.Get("/saldo-total", accountHandler.TotalBalance)
			r.Get("/contar", accountHandler.Count)
			r.Get("/{id}", accountHandler.Get)
			r.Put("/{id}", accountHandler.Update)
			r.Delete("/{id}", accountHandler.Delete)
			r.Get("/{id}/saldo", accountHandler.CurrentBalance)
		})

		r.Route("/cartoes", func(r chi.Router) {
			r.Post("/", cardHandler.Create)
			r.Get("/", cardHandler.List)
			r.Get("/bandeira", cardHandler.SearchByBrand)
			r.Get("/buscar", cardHandler.SearchByName)
			r.Get("/dia-fechamento", cardHandler.ListByClosingDay)
			r.Get("/dia-vencimento", cardHandler.ListByDueDay)
			r.Get("/limite-total", cardHandler.TotalLimit)
			r.Get("/contar", cardHandler.Count)
			r.Get("/{id}", cardHandler.Get)
			r.Put("/{id}", cardHandler.Update)
			r.Delete("/{id}", cardHandler.Delete)
			r.Get("/{id}/limite-utilizado", cardHandler.UtilizedLimit)
			r.Get("/{id}/limite-disponivel", cardHandler.AvailableLimit)
		})

		r.Route("/transacoes", func(r chi.Router) {
			r.Post("/", transactionHandler.Create)
			r.Get("/", transactionHandler.List)
			r.Get("/conta/{contaId}", transactionHandler.ListByAccount)
			r.Get("/cartao/{cartaoId}", transactionHandler.ListByCard)
			r.Get("/tipo/{tipo}", transactionHandler.ListByType)
			r.Get("/periodo", transactionHandler.ListByPeriod)
			r.Get("/recorrentes", transactionHandler.ListRecurring)
			r.Get("/buscar", transactionHandler.SearchByDescription)
			r.Get("/total-receitas", transactionHandler.TotalIncome)
			r.Get("/total-despesas", transactionHandler.TotalExpense)
			r.Get("/resumo-financeiro", transactionHandler.Summary)
			r.Get("/contar", transactionHandler.Count)
			r.Get("/{id}", transactionHandler.Get)
			r.Put("/{id}", transactionHandler.Update)
			r.Delete("/{id}", transactionHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
