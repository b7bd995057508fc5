package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pramara/internal/auth"
)

// Me reflects the identity the auth middleware just loaded, so a toggled
// MFA flag or changed role set shows up immediately.
func Me(lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := auth.IdentityFromContext(r.Context())
		u := ident.User

		perms := make([]string, 0, len(ident.Permissions))
		for code := range ident.Permissions {
			perms = append(perms, code)
		}

		respondJSON(w, map[string]any{
			"id":          u.ID,
			"email":       u.Email,
			"roles":       u.RoleNames(),
			"permissions": perms,
			"mfaEnabled":  u.MFASecret != nil,
		})
	}
}
