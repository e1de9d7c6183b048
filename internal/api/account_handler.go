package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fintrack/fintrack-api/internal/api/shared"
	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/service"
)

// AccountHandler handles the /contas endpoints.
type AccountHandler struct {
	accountService service.AccountService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewAccountHandler creates a new AccountHandler with the given dependencies.
func NewAccountHandler(accountService service.AccountService, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{
		accountService: accountService,
		validator:      validator.New(),
		logger:         logger.With(slog.String("component", "account_handler")),
	}
}

// decodeAccountRequest decodes and validates the account payload, writing an
// error response on failure.
func (h *AccountHandler) decodeAccountRequest(w http.ResponseWriter, r *http.Request) (*AccountRequest, bool) {
	var req AccountRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return nil, false
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return nil, false
	}

	return &req, true
}

// Create handles POST /contas.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeAccountRequest(w, r)
	if !ok {
		return
	}

	account, err := h.accountService.Create(
		r.Context(),
		userID,
		req.Name,
		domain.AccountType(req.Type),
		req.InitialBalance,
		req.Institution,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, account)
}

// List handles GET /contas.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountService.List(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accounts)
}

// Get handles GET /contas/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	account, err := h.accountService.Get(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, account)
}

// Update handles PUT /contas/{id}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	req, ok := h.decodeAccountRequest(w, r)
	if !ok {
		return
	}

	account, err := h.accountService.Update(
		r.Context(),
		id,
		userID,
		req.Name,
		domain.AccountType(req.Type),
		req.InitialBalance,
		req.Institution,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, account)
}

// Delete handles DELETE /contas/{id}.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.accountService.Delete(r.Context(), id, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "account deleted successfully"})
}

// ListByType handles GET /contas/tipo/{tipo}.
func (h *AccountHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	accountType := domain.AccountType(chi.URLParam(r, "tipo"))
	if !accountType.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid account type")
		return
	}

	accounts, err := h.accountService.ListByType(r.Context(), accountType, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accounts)
}

// SearchByInstitution handles GET /contas/instituicao?instituicao=.
func (h *AccountHandler) SearchByInstitution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	institution := r.URL.Query().Get("instituicao")
	if institution == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing instituicao parameter")
		return
	}

	accounts, err := h.accountService.SearchByInstitution(r.Context(), institution, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accounts)
}

// SearchByName handles GET /contas/buscar?nome=.
func (h *AccountHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("nome")
	if name == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing nome parameter")
		return
	}

	accounts, err := h.accountService.SearchByName(r.Context(), name, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accounts)
}

// ListActive handles GET /contas/ativas.
func (h *AccountHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListActive(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accounts)
}

// ListWithoutTransactions handles GET /contas/sem-transacoes.
func (h *AccountHandler) ListWithoutTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListWithoutTransactions(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accounts)
}

// CurrentBalance handles GET /contas/{id}/saldo.
func (h *AccountHandler) CurrentBalance(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	balance, err := h.accountService.CurrentBalance(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: balance})
}

// TotalBalance handles GET /contas/saldo-total.
func (h *AccountHandler) TotalBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	total, err := h.accountService.TotalBalance(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: total})
}

// Count handles GET /contas/contar.
func (h *AccountHandler) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	count, err := h.accountService.Count(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: count})
}
