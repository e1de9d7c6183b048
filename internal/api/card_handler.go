package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fintrack/fintrack-api/internal/api/shared"
	"github.com/fintrack/fintrack-api/internal/service"
)

// CardHandler handles the /cartoes endpoints.
type CardHandler struct {
	cardService service.CardService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler with the given dependencies.
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		cardService: cardService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// decodeCardRequest decodes and validates the card payload, writing an error
// response on failure.
func (h *CardHandler) decodeCardRequest(w http.ResponseWriter, r *http.Request) (*CardRequest, bool) {
	var req CardRequest

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

// Create handles POST /cartoes.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeCardRequest(w, r)
	if !ok {
		return
	}

	card, err := h.cardService.Create(
		r.Context(),
		userID,
		req.Name,
		req.Brand,
		req.TotalLimit,
		req.ClosingDay,
		req.DueDay,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// List handles GET /cartoes.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cards, err := h.cardService.List(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// Get handles GET /cartoes/{id}.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	card, err := h.cardService.Get(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Update handles PUT /cartoes/{id}.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	req, ok := h.decodeCardRequest(w, r)
	if !ok {
		return
	}

	card, err := h.cardService.Update(
		r.Context(),
		id,
		userID,
		req.Name,
		req.Brand,
		req.TotalLimit,
		req.ClosingDay,
		req.DueDay,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Delete handles DELETE /cartoes/{id}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cardService.Delete(r.Context(), id, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "card deleted successfully"})
}

// SearchByBrand handles GET /cartoes/bandeira?bandeira=.
func (h *CardHandler) SearchByBrand(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	brand := r.URL.Query().Get("bandeira")
	if brand == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing bandeira parameter")
		return
	}

	cards, err := h.cardService.SearchByBrand(r.Context(), brand, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// SearchByName handles GET /cartoes/buscar?nome=.
func (h *CardHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("nome")
	if name == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing nome parameter")
		return
	}

	cards, err := h.cardService.SearchByName(r.Context(), name, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// ListByClosingDay handles GET /cartoes/dia-fechamento?dia=.
func (h *CardHandler) ListByClosingDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	day, ok := getDayQueryParam(r, "dia")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dia parameter")
		return
	}

	cards, err := h.cardService.ListByClosingDay(r.Context(), day, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// ListByDueDay handles GET /cartoes/dia-vencimento?dia=.
func (h *CardHandler) ListByDueDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	day, ok := getDayQueryParam(r, "dia")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dia parameter")
		return
	}

	cards, err := h.cardService.ListByDueDay(r.Context(), day, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// TotalLimit handles GET /cartoes/limite-total.
func (h *CardHandler) TotalLimit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	total, err := h.cardService.TotalLimit(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: total})
}

// UtilizedLimit handles GET /cartoes/{id}/limite-utilizado.
func (h *CardHandler) UtilizedLimit(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	utilized, err := h.cardService.UtilizedLimit(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: utilized})
}

// AvailableLimit handles GET /cartoes/{id}/limite-disponivel.
func (h *CardHandler) AvailableLimit(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	available, err := h.cardService.AvailableLimit(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AmountResponse{Amount: available})
}

// Count handles GET /cartoes/contar.
func (h *CardHandler) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	count, err := h.cardService.Count(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: count})
}
