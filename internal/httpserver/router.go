package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pramara/internal/auth"
	"pramara/internal/config"
	"pramara/internal/httpserver/handlers"
	"pramara/internal/obs"
)

func NewRouter(db *gorm.DB, svc *auth.Service, tokens *auth.Tokens, users auth.UserStore, cfg config.Config, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Use(obs.Instrument)

	r.Group(func(public chi.Router) {
		public.With(RateLimit(cfg.LoginRateBurst, cfg.LoginRatePerSecond)).
			Post("/v1/auth/login", handlers.Login(svc, lg))
		public.Post("/v1/auth/refresh", handlers.Refresh(svc, lg))
		public.Post("/v1/auth/logout", handlers.Logout(svc, lg))
	})

	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(tokens, users))
		protected.Get("/v1/me", handlers.Me(lg))
		protected.Post("/v1/auth/mfa/setup", handlers.MFASetup(svc, lg))
		protected.Post("/v1/auth/mfa/verify", handlers.MFAVerify(svc, lg))
		protected.Post("/v1/auth/mfa/disable", handlers.MFADisable(svc, lg))
		protected.Post("/v1/auth/change-password", handlers.ChangePassword(svc, lg))
		protected.Get("/v1/sessions/me", handlers.MySessions(svc, lg))
		protected.Delete("/v1/sessions/{id}", handlers.RevokeSession(svc, lg))
		protected.Delete("/v1/sessions", handlers.RevokeAllSessions(svc, lg))
		protected.Get("/v1/logs", handlers.MyLogs(db, lg))

		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequirePermission(auth.PermUserManage))
			admin.Get("/v1/admin/users", handlers.ListUsers(db, lg))
			admin.Post("/v1/admin/users", handlers.CreateUser(db, lg))
			admin.Patch("/v1/admin/users/{id}", handlers.UpdateUser(db, lg))
			admin.Delete("/v1/admin/users/{id}", handlers.DeactivateUser(db, lg))
			admin.Put("/v1/admin/users/{id}/roles", handlers.AssignRoles(db, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Method(http.MethodGet, "/metrics", obs.Handler())
	return r
}
