package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/service"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps the service taxonomy onto HTTP statuses. Store
// failures are the only 5xx: there is no safe degraded path for losing the
// source of truth.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotParticipant):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		respondError(w, http.StatusServiceUnavailable, "message store unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
