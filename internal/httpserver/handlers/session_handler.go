package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pramara/internal/auth"
)

// MySessions lists the caller's live sessions newest-first. A Super Admin
// may pass ?userId= to inspect another account. The token hash is never
// serialized.
func MySessions(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := auth.IdentityFromContext(r.Context())
		sessions, err := svc.ListSessions(r.Context(), ident, r.URL.Query().Get("userId"))
		if err != nil {
			lg.Errorw("list sessions failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to list sessions")
			return
		}
		respondJSON(w, sessions)
	}
}

func RevokeSession(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid session id")
			return
		}
		ident := auth.IdentityFromContext(r.Context())
		if err := svc.RevokeSession(r.Context(), ident, uint(id)); err != nil {
			respondAuthError(w, err)
			return
		}
		respondJSON(w, map[string]any{"ok": true})
	}
}

// RevokeAllSessions is "sign out everywhere": every session of the caller
// goes, the current one included.
func RevokeAllSessions(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RevokeAllSessions(r.Context(), auth.Subject(r.Context())); err != nil {
			lg.Errorw("revoke all sessions failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to revoke sessions")
			return
		}
		respondJSON(w, map[string]any{"ok": true})
	}
}
