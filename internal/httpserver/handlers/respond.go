package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pramara/internal/auth"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// respondAuthError maps the auth error taxonomy onto the HTTP boundary.
// Messages are short and machine-stable; store/internal error text never
// crosses.
func respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrInvalidTOTP):
		respondError(w, http.StatusUnauthorized, "invalid or missing TOTP")
	case errors.Is(err, auth.ErrSessionInvalid):
		respondError(w, http.StatusUnauthorized, "expired or invalid session")
	case errors.Is(err, auth.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, auth.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, auth.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, "password too short")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
