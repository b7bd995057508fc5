package auth

import (
	"context"
	"time"

	"pramara/internal/models"
)

// UserStore is the persistence surface the auth core needs for users.
// Implementations return (nil, nil) when no row matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID loads the user with Roles and their Permissions attached.
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// SetMFASecret persists or clears (nil) the TOTP shared secret.
	SetMFASecret(ctx context.Context, id string, secret *string) error
}

type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	FindByHash(ctx context.Context, hash string) (*models.Session, error)
	FindByID(ctx context.Context, id uint) (*models.Session, error)
	ListForUser(ctx context.Context, userID string) ([]models.Session, error)
	// DeleteByHash reports how many rows were removed; rotation relies on
	// this to detect a concurrent refresh of the same token.
	DeleteByHash(ctx context.Context, hash string) (int64, error)
	DeleteByID(ctx context.Context, id uint) error
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// AuditSink records security-relevant events. Implementations must never
// fail the primary operation; errors are logged and swallowed.
type AuditSink interface {
	Record(ctx context.Context, e AuditEvent)
}

type AuditEvent struct {
	ActorID   string
	Action    string
	Entity    string
	EntityID  string
	Meta      map[string]any
	IP        string
	UserAgent string
	At        time.Time
}
