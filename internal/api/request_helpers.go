package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/fintrack-api/internal/api/shared"
)

// getUserIDFromContext extracts the authenticated user's ID from the request
// context. The ID is placed there by the authentication middleware from the
// validated token claims; it is never read from the request itself.
func getUserIDFromContext(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// getPathID extracts a positive int64 path parameter.
func getPathID(r *http.Request, paramName string) (int64, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// requireUserID extracts the user ID from the context, writing a 401 when
// it is absent.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	return userID, true
}

// requireUserAndPathID extracts both the authenticated user ID and a path
// parameter, writing an error response if either is missing.
func requireUserAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (userID, pathID int64, ok bool) {
	userID, ok = requireUserID(w, r)
	if !ok {
		return 0, 0, false
	}

	pathID, ok = getPathID(r, paramName)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName+" parameter")
		return 0, 0, false
	}

	return userID, pathID, true
}

// getDayQueryParam parses a calendar-day query parameter (1 to 31).
func getDayQueryParam(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}

	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}
