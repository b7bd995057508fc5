package auth

import (
	"context"

	"pramara/internal/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the resolved caller, attached to the request context by
// JWTAuth. Permissions is the union across all of the user's roles,
// loaded fresh on every request.
type Identity struct {
	User        *models.User
	Permissions map[string]struct{}
}

func (id *Identity) HasRole(name string) bool {
	if id == nil || id.User == nil {
		return false
	}
	for _, r := range id.User.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (id *Identity) HasPermission(code string) bool {
	if id == nil {
		return false
	}
	_, ok := id.Permissions[code]
	return ok
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey).(*Identity); ok {
		return v
	}
	return nil
}

// Subject returns the caller's user id, or "" when unauthenticated.
func Subject(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil && id.User != nil {
		return id.User.ID
	}
	return ""
}
