package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pramara/internal/auth"
	"pramara/internal/mocks"
	"pramara/internal/models"
)

type fixture struct {
	svc      *auth.Service
	users    *mocks.UserStore
	sessions *mocks.SessionStore
	sink     *mocks.AuditSink
	tokens   *auth.Tokens
}

func newFixture(t *testing.T, users ...*models.User) *fixture {
	t.Helper()
	us := mocks.NewUserStore(users...)
	ss := mocks.NewSessionStore()
	sink := mocks.NewAuditSink()
	tokens := auth.NewTokens("access-secret", "refresh-secret", 15*time.Minute, 14*24*time.Hour)
	svc := auth.NewService(us, ss, tokens, auth.TOTP{Issuer: "test"}, sink, zap.NewNop().Sugar())
	return &fixture{svc: svc, users: us, sessions: ss, sink: sink, tokens: tokens}
}

func testUser(t *testing.T, id, email, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{ID: id, Email: email, PasswordHash: hash, IsActive: true}
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	f := newFixture(t, testUser(t, "u1", "a@x.com", "P@ssw0rd!"))

	pair, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{UserAgent: "go-test", IP: "10.0.0.1"})
	require.NoError(t, err)

	claims, err := f.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)

	rc, err := f.tokens.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", rc.Subject)
	assert.NotEmpty(t, rc.ID)

	// session row persisted under the token hash, with requester metadata
	sess, err := f.sessions.FindByHash(context.Background(), auth.HashToken(pair.RefreshToken))
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "go-test", sess.UserAgent)
	assert.Equal(t, "10.0.0.1", sess.IP)

	assert.Equal(t, []string{"LOGIN"}, f.sink.Actions())
}

// Unknown email, wrong password and a deactivated account must be
// indistinguishable to the caller.
func TestLoginFailuresAreUniform(t *testing.T) {
	inactive := testUser(t, "u2", "off@x.com", "P@ssw0rd!")
	inactive.IsActive = false
	f := newFixture(t, testUser(t, "u1", "a@x.com", "P@ssw0rd!"), inactive)

	_, err := f.svc.Login(context.Background(), "nobody@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "a@x.com", "wrong", "", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "off@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	assert.Empty(t, f.sink.Actions())
}

func TestLoginWithMFA(t *testing.T) {
	user := testUser(t, "u1", "a@x.com", "P@ssw0rd!")
	gen := auth.TOTP{Issuer: "test"}
	secret, err := gen.GenerateSecret(user.Email)
	require.NoError(t, err)
	user.MFASecret = &secret.Base32
	f := newFixture(t, user)

	// no code
	_, err = f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidTOTP)

	// wrong code
	_, err = f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "000000", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidTOTP)

	// current code
	code, err := totp.GenerateCode(secret.Base32, time.Now().UTC())
	require.NoError(t, err)
	pair, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", code, auth.RequestMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestRefreshRotationIsSingleUse(t *testing.T) {
	f := newFixture(t, testUser(t, "u1", "a@x.com", "P@ssw0rd!"))
	pair, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	require.NoError(t, err)

	next, err := f.svc.Refresh(context.Background(), pair.RefreshToken, auth.RequestMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// the rotated-out token is gone for good
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken, auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrSessionInvalid)

	// the replacement still works
	_, err = f.svc.Refresh(context.Background(), next.RefreshToken, auth.RequestMeta{})
	require.NoError(t, err)
}

func TestRefreshRejectsUnknownAndExpired(t *testing.T) {
	f := newFixture(t, testUser(t, "u1", "a@x.com", "P@ssw0rd!"))

	// garbage token fails on signature
	_, err := f.svc.Refresh(context.Background(), "garbage", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrSessionInvalid)

	// cryptographically valid token without a session row fails too
	orphan, err := f.tokens.IssueRefresh("u1", "jti-orphan")
	require.NoError(t, err)
	_, err = f.svc.Refresh(context.Background(), orphan, auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrSessionInvalid)

	// session row past its expiry is dead even though the signature holds
	pair, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	require.NoError(t, err)
	for _, row := range f.sessions.Rows {
		row.ExpiresAt = time.Now().Add(-time.Minute)
	}
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken, auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrSessionInvalid)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newFixture(t, testUser(t, "u1", "a@x.com", "P@ssw0rd!"))
	pair, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))
	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))

	// the session is gone, so refresh now fails
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken, auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrSessionInvalid)
}

func TestSessionRevocationOwnership(t *testing.T) {
	owner := testUser(t, "u1", "a@x.com", "P@ssw0rd!")
	other := testUser(t, "u2", "b@x.com", "P@ssw0rd!")
	admin := testUser(t, "u3", "root@x.com", "P@ssw0rd!")
	admin.Roles = []models.Role{{Name: auth.RoleSuperAdmin}}
	f := newFixture(t, owner, other, admin)

	_, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	require.NoError(t, err)
	sessions, err := f.sessions.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	id := sessions[0].ID

	// stranger: forbidden
	err = f.svc.RevokeSession(context.Background(), &auth.Identity{User: other}, id)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	// superuser: allowed
	err = f.svc.RevokeSession(context.Background(), &auth.Identity{User: admin}, id)
	require.NoError(t, err)

	// already gone
	err = f.svc.RevokeSession(context.Background(), &auth.Identity{User: owner}, id)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestRevokeAllSessions(t *testing.T) {
	f := newFixture(t, testUser(t, "u1", "a@x.com", "P@ssw0rd!"))
	for i := 0; i < 3; i++ {
		_, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
		require.NoError(t, err)
	}
	sessions, _ := f.sessions.ListForUser(context.Background(), "u1")
	require.Len(t, sessions, 3)

	require.NoError(t, f.svc.RevokeAllSessions(context.Background(), "u1"))
	sessions, _ = f.sessions.ListForUser(context.Background(), "u1")
	assert.Empty(t, sessions)
}

func TestListSessionsSuperAdminCanInspectOthers(t *testing.T) {
	user := testUser(t, "u1", "a@x.com", "P@ssw0rd!")
	admin := testUser(t, "u3", "root@x.com", "P@ssw0rd!")
	admin.Roles = []models.Role{{Name: auth.RoleSuperAdmin}}
	f := newFixture(t, user, admin)

	_, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	require.NoError(t, err)

	got, err := f.svc.ListSessions(context.Background(), &auth.Identity{User: admin}, "u1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// a regular caller asking for someone else silently gets their own
	got, err = f.svc.ListSessions(context.Background(), &auth.Identity{User: user}, "u3")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].UserID)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, testUser(t, "u1", "a@x.com", "P@ssw0rd!"))

	err := f.svc.ChangePassword(context.Background(), "u1", "P@ssw0rd!", "short", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	err = f.svc.ChangePassword(context.Background(), "u1", "wrong-old", "NewP@ssw0rd!", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	err = f.svc.ChangePassword(context.Background(), "u1", "P@ssw0rd!", "NewP@ssw0rd!", auth.RequestMeta{})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = f.svc.Login(context.Background(), "a@x.com", "NewP@ssw0rd!", "", auth.RequestMeta{})
	require.NoError(t, err)

	assert.Contains(t, f.sink.Actions(), "PASSWORD_CHANGE")
}

// Existing sessions survive a password change (observed source behavior).
func TestChangePasswordKeepsSessions(t *testing.T) {
	f := newFixture(t, testUser(t, "u1", "a@x.com", "P@ssw0rd!"))
	pair, err := f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, f.svc.ChangePassword(context.Background(), "u1", "P@ssw0rd!", "NewP@ssw0rd!", auth.RequestMeta{}))

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken, auth.RequestMeta{})
	require.NoError(t, err)
}

func TestMFAConfirmPersistsOnlyOnSuccess(t *testing.T) {
	user := testUser(t, "u1", "a@x.com", "P@ssw0rd!")
	f := newFixture(t, user)

	setup, err := f.svc.MFASetup(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Base32)
	assert.NotEmpty(t, setup.QRDataURL)
	assert.Nil(t, user.MFASecret, "setup alone must not enable MFA")

	err = f.svc.MFAConfirm(context.Background(), "u1", setup.Base32, "000000", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidTOTP)
	assert.Nil(t, user.MFASecret)

	code, err := totp.GenerateCode(setup.Base32, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.svc.MFAConfirm(context.Background(), "u1", setup.Base32, code, auth.RequestMeta{}))
	require.NotNil(t, user.MFASecret)
	assert.Equal(t, setup.Base32, *user.MFASecret)
	assert.Contains(t, f.sink.Actions(), "MFA_ENABLE")

	// and a login now requires the code
	_, err = f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	assert.ErrorIs(t, err, auth.ErrInvalidTOTP)

	require.NoError(t, f.svc.MFADisable(context.Background(), "u1", auth.RequestMeta{}))
	assert.Nil(t, user.MFASecret)
	_, err = f.svc.Login(context.Background(), "a@x.com", "P@ssw0rd!", "", auth.RequestMeta{})
	require.NoError(t, err)
}
