package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidTOTP        = errors.New("auth: invalid or missing TOTP")
	ErrSessionInvalid     = errors.New("auth: expired or invalid session")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrUnauthorized       = errors.New("auth: unauthorized")
	ErrForbidden          = errors.New("auth: forbidden")
	ErrNotFound           = errors.New("auth: not found")
	ErrWeakPassword       = errors.New("auth: password too short")
)
