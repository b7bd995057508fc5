package auth

import (
	"net/http"
	"strings"
)

// JWTAuth verifies the bearer access token and loads the caller with the
// full role→permission graph on every request, so permission changes take
// effect within one access-token lifetime.
func JWTAuth(tokens *Tokens, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := tokens.VerifyAccess(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			user, err := users.FindByID(r.Context(), claims.Subject)
			if err != nil || user == nil || !user.IsActive {
				http.Error(w, "invalid user", http.StatusUnauthorized)
				return
			}
			ident := &Identity{User: user, Permissions: user.PermissionCodes()}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// RequirePermission gates a route on any-of the given permission codes.
// Super Admin passes unconditionally; an empty list only requires
// authentication.
func RequirePermission(codes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := IdentityFromContext(r.Context())
			if ident == nil || ident.User == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if ident.HasRole(RoleSuperAdmin) {
				next.ServeHTTP(w, r)
				return
			}
			if len(codes) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			for _, code := range codes {
				if ident.HasPermission(code) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}
