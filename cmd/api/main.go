package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pramara/internal/audit"
	"pramara/internal/auth"
	"pramara/internal/config"
	"pramara/internal/httpserver"
	"pramara/internal/logger"
	"pramara/internal/models"
	"pramara/internal/obs"
	"pramara/internal/store"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		lg.Fatalw("DATABASE_URL is empty")
	}
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		lg.Fatalw("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(
		&models.Permission{}, &models.Role{}, &models.User{},
		&models.Session{}, &models.AuditLog{},
	); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	seedAuth(db, cfg, lg)

	obs.Init()

	users := store.NewUserStore(db)
	sessions := store.NewSessionStore(db)
	tokens := auth.NewTokens(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	totp := auth.TOTP{Issuer: cfg.MFAIssuer}
	sink := audit.NewRecorder(db, lg)
	svc := auth.NewService(users, sessions, tokens, totp, sink, lg)

	router := httpserver.NewRouter(db, svc, tokens, users, cfg, lg)

	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

// seedAuth makes the reference data and the bootstrap admin exist.
// Every step is idempotent so restarts are safe.
func seedAuth(db *gorm.DB, cfg config.Config, lg *zap.SugaredLogger) {
	for _, p := range auth.BuiltinPermissions {
		db.Exec(
			"INSERT INTO permissions(code, label) VALUES (?, ?) ON CONFLICT (code) DO UPDATE SET label = EXCLUDED.label",
			p.Code, p.Label,
		)
	}
	db.Exec("INSERT INTO roles(name) VALUES (?) ON CONFLICT DO NOTHING", auth.RoleSuperAdmin)

	var count int64
	db.Model(&models.User{}).Where("LOWER(email) = ?", cfg.BootstrapAdminEmail).Count(&count)
	if count > 0 {
		return
	}

	hash, err := auth.HashPassword(cfg.BootstrapAdminPassword)
	if err != nil {
		lg.Errorw("seed admin hash failed", "error", err)
		return
	}
	u := models.User{Email: cfg.BootstrapAdminEmail, PasswordHash: hash, IsActive: true}
	if err := db.Create(&u).Error; err != nil {
		lg.Errorw("seed admin failed", "error", err)
		return
	}
	var superAdmin models.Role
	if err := db.First(&superAdmin, "name = ?", auth.RoleSuperAdmin).Error; err == nil {
		_ = db.Model(&u).Association("Roles").Append(&superAdmin)
	}
	lg.Infow("seeded bootstrap admin", "email", cfg.BootstrapAdminEmail)
}
