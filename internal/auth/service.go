package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pramara/internal/models"
)

const minPasswordLength = 8

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RequestMeta is the informational client context stored on sessions and
// audit events.
type RequestMeta struct {
	UserAgent string
	IP        string
}

// Service sequences the credential lifecycle: login, refresh-token
// rotation, logout, MFA enrollment, password changes, and session
// revocation. All state lives in the stores; the service itself is
// stateless and safe for concurrent use.
type Service struct {
	users    UserStore
	sessions SessionStore
	tokens   *Tokens
	totp     TOTP
	audit    AuditSink
	lg       *zap.SugaredLogger
}

func NewService(users UserStore, sessions SessionStore, tokens *Tokens, totp TOTP, audit AuditSink, lg *zap.SugaredLogger) *Service {
	return &Service{users: users, sessions: sessions, tokens: tokens, totp: totp, audit: audit, lg: lg}
}

// Login verifies email+password (and the TOTP code when the account has a
// secret enrolled), then issues a token pair and persists the session.
// A missing user, an inactive user and a wrong password all surface as
// ErrInvalidCredentials so the response never reveals whether the email
// exists.
func (s *Service) Login(ctx context.Context, email, password, totpCode string, meta RequestMeta) (TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, err
	}
	if user == nil || !user.IsActive {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if user.MFASecret != nil {
		if totpCode == "" || !VerifyCode(totpCode, *user.MFASecret) {
			return TokenPair{}, ErrInvalidTOTP
		}
	}

	pair, err := s.issueAndPersist(ctx, user.ID, meta)
	if err != nil {
		return TokenPair{}, err
	}
	s.audit.Record(ctx, AuditEvent{
		ActorID: user.ID, Action: "LOGIN", Entity: "USER", EntityID: user.ID,
		IP: meta.IP, UserAgent: meta.UserAgent,
	})
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is verified,
// its session row is removed, and a fresh pair with a new session is
// issued. Rotation is unconditional — every refresh token is single-use.
// When two callers race on the same token, the conditional delete lets
// exactly one of them win; the loser gets ErrSessionInvalid.
func (s *Service) Refresh(ctx context.Context, raw string, meta RequestMeta) (TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(raw)
	if err != nil {
		return TokenPair{}, ErrSessionInvalid
	}
	hash := HashToken(raw)

	sess, err := s.sessions.FindByHash(ctx, hash)
	if err != nil {
		return TokenPair{}, err
	}
	if sess == nil || time.Now().After(sess.ExpiresAt) {
		return TokenPair{}, ErrSessionInvalid
	}

	deleted, err := s.sessions.DeleteByHash(ctx, hash)
	if err != nil {
		return TokenPair{}, err
	}
	if deleted == 0 {
		return TokenPair{}, ErrSessionInvalid
	}

	return s.issueAndPersist(ctx, claims.Subject, meta)
}

// Logout revokes the session behind a refresh token. Deleting zero rows
// is success: retried logouts and already-rotated tokens are fine.
func (s *Service) Logout(ctx context.Context, raw string) error {
	_, err := s.sessions.DeleteByHash(ctx, HashToken(raw))
	return err
}

func (s *Service) issueAndPersist(ctx context.Context, userID string, meta RequestMeta) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(userID, uuid.NewString())
	if err != nil {
		return TokenPair{}, err
	}
	sess := &models.Session{
		UserID:           userID,
		RefreshTokenHash: HashToken(refresh),
		UserAgent:        meta.UserAgent,
		IP:               meta.IP,
		ExpiresAt:        time.Now().Add(s.tokens.RefreshTTL()),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ListSessions returns the caller's sessions newest-first. A Super Admin
// may pass targetUserID to inspect another account; for everyone else the
// parameter is ignored and they see their own.
func (s *Service) ListSessions(ctx context.Context, ident *Identity, targetUserID string) ([]models.Session, error) {
	userID := ident.User.ID
	if targetUserID != "" && ident.HasRole(RoleSuperAdmin) {
		userID = targetUserID
	}
	return s.sessions.ListForUser(ctx, userID)
}

// RevokeSession deletes one session by id, owner or Super Admin only.
func (s *Service) RevokeSession(ctx context.Context, ident *Identity, id uint) error {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNotFound
	}
	if sess.UserID != ident.User.ID && !ident.HasRole(RoleSuperAdmin) {
		return ErrForbidden
	}
	return s.sessions.DeleteByID(ctx, id)
}

// RevokeAllSessions signs the user out everywhere, current session
// included.
func (s *Service) RevokeAllSessions(ctx context.Context, userID string) error {
	_, err := s.sessions.DeleteAllForUser(ctx, userID)
	return err
}

// MFASetupResult is returned to the enrollment dialog. The secret is not
// persisted here; the client must echo it back through MFAConfirm with a
// working code first.
type MFASetupResult struct {
	OtpauthURL string `json:"otpauthUrl"`
	QRDataURL  string `json:"qrDataUrl"`
	Base32     string `json:"base32"`
}

func (s *Service) MFASetup(ctx context.Context, user *models.User) (MFASetupResult, error) {
	secret, err := s.totp.GenerateSecret(user.Email)
	if err != nil {
		return MFASetupResult{}, err
	}
	qr, err := QRDataURL(secret.OtpauthURL)
	if err != nil {
		return MFASetupResult{}, err
	}
	return MFASetupResult{OtpauthURL: secret.OtpauthURL, QRDataURL: qr, Base32: secret.Base32}, nil
}

// MFAConfirm enables MFA: the submitted code must validate against the
// not-yet-persisted secret, so a mistyped enrollment can never lock the
// account behind an unconfirmed secret.
func (s *Service) MFAConfirm(ctx context.Context, userID, base32, code string, meta RequestMeta) error {
	if !VerifyCode(code, base32) {
		return ErrInvalidTOTP
	}
	if err := s.users.SetMFASecret(ctx, userID, &base32); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEvent{
		ActorID: userID, Action: "MFA_ENABLE", Entity: "USER", EntityID: userID,
		IP: meta.IP, UserAgent: meta.UserAgent,
	})
	return nil
}

func (s *Service) MFADisable(ctx context.Context, userID string, meta RequestMeta) error {
	if err := s.users.SetMFASecret(ctx, userID, nil); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEvent{
		ActorID: userID, Action: "MFA_DISABLE", Entity: "USER", EntityID: userID,
		IP: meta.IP, UserAgent: meta.UserAgent,
	})
	return nil
}

// ChangePassword re-checks the current password before accepting the new
// one. Existing sessions stay valid.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string, meta RequestMeta) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := CheckPassword(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEvent{
		ActorID: userID, Action: "PASSWORD_CHANGE", Entity: "USER", EntityID: userID,
		IP: meta.IP, UserAgent: meta.UserAgent,
	})
	return nil
}
