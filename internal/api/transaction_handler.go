package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fintrack/fintrack-api/internal/api/shared"
	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/service"
)

// TransactionHandler handles the /transacoes endpoints.
type TransactionHandler struct {
	txnService service.TransactionService
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler with the given dependencies.
func NewTransactionHandler(txnService service.TransactionService, logger *slog.Logger) *TransactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionHandler{
		txnService: txnService,
		validator:  validator.New(),
		logger:     logger.With(slog.String("component", "transaction_handler")),
	}
}

// decodeTransactionRequest decodes and validates the transaction payload,
// writing an error response on failure.
func (h *TransactionHandler) decodeTransactionRequest(
	w http.ResponseWriter,
	r *http.Request,
) (service.TransactionInput, bool) {
	var req TransactionRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return service.TransactionInput{}, false
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return service.TransactionInput{}, false
	}

	date, err := req.parseDate()
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid data: expected YYYY-MM-DD")
		return service.TransactionInput{}, false
	}

	return service.TransactionInput{
		Description: req.Description,
		Value:       req.Value,
		Date:        date,
		Type:        domain.TransactionType(req.Type),
		Recurring:   req.Recurring,
		AccountID:   req.AccountID,
		CardID:      req.CardID,
	}, true
}

// Create handles POST /transacoes.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeTransactionRequest(w, r)
	if !ok {
		return
	}

	txn, err := h.txnService.Create(r.Context(), userID, in)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, txn)
}

// List handles GET /transacoes.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	txns, err := h.txnService.List(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txns)
}

// Get handles GET /transacoes/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	txn, err := h.txnService.Get(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txn)
}

// Update handles PUT /transacoes/{id}.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	in, ok := h.decodeTransactionRequest(w, r)
	if !ok {
		return
	}

	txn, err := h.txnService.Update(r.Context(), id, userID, in)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txn)
}

// Delete handles DELETE /transacoes/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.txnService.Delete(r.Context(), id, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "transaction deleted successfully"})
}

// ListByAccount handles GET /transacoes/conta/{contaId}.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := requireUserAndPathID(w, r, "contaId")
	if !ok {
		return
	}

	txns, err := h.txnService.ListByAccount(r.Context(), accountID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txns)
}

// ListByCard handles GET /transacoes/cartao/{cartaoId}.
func (h *TransactionHandler) ListByCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathID(w, r, "cartaoId")
	if !ok {
		return
	}

	txns, err := h.txnService.ListByCard(r.Context(), cardID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txns)
}

// ListByType handles GET /transacoes/tipo/{tipo}.
func (h *TransactionHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	txnType := domain.TransactionType(chi.URLParam(r, "tipo"))
	if !txnType.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid transaction type")
		return
	}

	txns, err := h.txnService.ListByType(r.Context(), txnType, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txns)
}

// ListByPeriod handles GET /transacoes/periodo?inicio=&fim=.
func (h *TransactionHandler) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	from, to, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	txns, err := h.txnService.ListByPeriod(r.Context(), userID, from, to)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txns)
}

// ListRecurring handles GET /transacoes/recorrentes.
func (h *TransactionHandler) ListRecurring(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	txns, err := h.txnService.ListRecurring(r.Context(), userID, true)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txns)
}

// SearchByDescription handles GET /transacoes/buscar?descricao=.
func (h *TransactionHandler) SearchByDescription(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	description := r.URL.Query().Get("descricao")
	if description == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing descricao parameter")
		return
	}

	txns, err := h.txnService.SearchByDescription(r.Context(), description, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, txns)
}

// TotalIncome handles GET /transacoes/total-receitas.
func (h *TransactionHandler) TotalIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	total, err := h.txnService.TotalIncome(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: total})
}

// TotalExpense handles GET /transacoes/total-despesas.
func (h *TransactionHandler) TotalExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	total, err := h.txnService.TotalExpense(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: total})
}

// Summary handles GET /transacoes/resumo-financeiro.
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.txnService.Summary(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// Count handles GET /transacoes/contar.
func (h *TransactionHandler) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	count, err := h.txnService.Count(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: count})
}

// parsePeriod parses the inicio and fim query parameters as YYYY-MM-DD.
func (h *TransactionHandler) parsePeriod(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	fromRaw := r.URL.Query().Get("inicio")
	toRaw := r.URL.Query().Get("fim")
	if fromRaw == "" || toRaw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing inicio or fim parameter")
		return time.Time{}, time.Time{}, false
	}

	from, err := time.Parse(transactionDateLayout, fromRaw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid inicio: expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	to, err = time.Parse(transactionDateLayout, toRaw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid fim: expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	if to.Before(from) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "fim precedes inicio")
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}
