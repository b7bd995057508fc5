package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens issues and verifies the access/refresh pair. The two token kinds
// are signed with separate keys so an access token can never be replayed
// as a refresh token or vice versa.
type Tokens struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokens(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (t *Tokens) AccessTTL() time.Duration  { return t.accessTTL }
func (t *Tokens) RefreshTTL() time.Duration { return t.refreshTTL }

func (t *Tokens) IssueAccess(userID string) (string, error) {
	return sign(t.accessSecret, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(t.accessTTL)),
	})
}

// IssueRefresh carries a unique jti so every refresh token hashes to a
// distinct session row even for the same user.
func (t *Tokens) IssueRefresh(userID, jti string) (string, error) {
	return sign(t.refreshSecret, jwt.RegisteredClaims{
		Subject:   userID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(t.refreshTTL)),
	})
}

func (t *Tokens) VerifyAccess(raw string) (jwt.RegisteredClaims, error) {
	return verify(t.accessSecret, raw)
}

func (t *Tokens) VerifyRefresh(raw string) (jwt.RegisteredClaims, error) {
	return verify(t.refreshSecret, raw)
}

func sign(key []byte, claims jwt.RegisteredClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func verify(key []byte, raw string) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return jwt.RegisteredClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// HashToken is the deterministic one-way digest used to look refresh
// tokens up at rest. Raw tokens are never stored.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
