package models

import "time"

type Permission struct {
	ID    int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code  string `gorm:"uniqueIndex;not null" json:"code"`
	Label string `gorm:"not null" json:"label"`
}

type Role struct {
	ID          int          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

type User struct {
	ID           string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	MFASecret    *string   `gorm:"column:mfa_secret" json:"-"`
	Roles        []Role    `gorm:"many2many:user_roles" json:"roles"`
	Sessions     []Session `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleNames flattens the loaded role set.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// PermissionCodes is the union of permission codes across all loaded roles.
// Requires Roles.Permissions to have been preloaded.
func (u *User) PermissionCodes() map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			set[p.Code] = struct{}{}
		}
	}
	return set
}

// Session is one row per live refresh token. Only a one-way hash of the
// token is stored; the raw refresh token never touches the database.
type Session struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           string    `gorm:"type:uuid;index;not null" json:"user_id"`
	RefreshTokenHash string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	UserAgent        string    `json:"user_agent"`
	IP               string    `json:"ip"`
	ExpiresAt        time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *string   `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Meta      JSONB     `gorm:"type:jsonb;default:'{}'::jsonb" json:"meta"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
