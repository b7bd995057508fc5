package config

import (
	"os"
	"time"
)

type Config struct {
	HTTPPort      string
	DatabaseURL   string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	MFAIssuer     string

	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	LoginRateBurst     int
	LoginRatePerSecond int
}

func Load() Config {
	return Config{
		HTTPPort:      getenv("HTTP_PORT", "8080"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		AccessSecret:  getenv("JWT_ACCESS_SECRET", ""),
		RefreshSecret: getenv("JWT_REFRESH_SECRET", ""),
		AccessTTL:     getenvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:    getenvDuration("REFRESH_TOKEN_TTL", 14*24*time.Hour),
		MFAIssuer:     getenv("MFA_ISSUER", "Pramara PMS"),

		BootstrapAdminEmail:    getenv("BOOTSTRAP_ADMIN_EMAIL", "admin@pramara.local"),
		BootstrapAdminPassword: getenv("BOOTSTRAP_ADMIN_PASSWORD", "ChangeMe@123"),

		LoginRateBurst:     5,
		LoginRatePerSecond: 1,
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
