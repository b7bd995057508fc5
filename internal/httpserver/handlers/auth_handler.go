package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"pramara/internal/auth"
	"pramara/internal/obs"
)

func requestMeta(r *http.Request) auth.RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return auth.RequestMeta{UserAgent: r.UserAgent(), IP: ip}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTP     string `json:"totp,omitempty"`
}

func Login(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed body")
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if _, err := mail.ParseAddress(req.Email); err != nil || req.Password == "" {
			respondError(w, http.StatusBadRequest, "email and password required")
			return
		}

		pair, err := svc.Login(r.Context(), req.Email, req.Password, req.TOTP, requestMeta(r))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials):
				obs.ObserveLogin("invalid_credentials")
			case errors.Is(err, auth.ErrInvalidTOTP):
				obs.ObserveLogin("invalid_totp")
			default:
				obs.ObserveLogin("error")
				lg.Errorw("login failed", "error", err)
			}
			respondAuthError(w, err)
			return
		}
		obs.ObserveLogin("ok")
		respondJSON(w, pair)
	}
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

func Refresh(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.RefreshToken) < 20 {
			respondError(w, http.StatusBadRequest, "refresh token required")
			return
		}
		pair, err := svc.Refresh(r.Context(), req.RefreshToken, requestMeta(r))
		if err != nil {
			if !errors.Is(err, auth.ErrSessionInvalid) {
				lg.Errorw("refresh failed", "error", err)
			}
			respondAuthError(w, err)
			return
		}
		respondJSON(w, pair)
	}
}

// Logout is idempotent: an unknown or already-rotated token still gets a
// 200 so retried logouts never error.
func Logout(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.RefreshToken) < 20 {
			respondError(w, http.StatusBadRequest, "refresh token required")
			return
		}
		if err := svc.Logout(r.Context(), req.RefreshToken); err != nil {
			lg.Warnw("logout failed", "error", err)
		}
		respondJSON(w, map[string]string{"message": "Logged out"})
	}
}

type changePasswordReq struct {
	Old string `json:"old"`
	Neu string `json:"neu"`
}

func ChangePassword(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Old == "" {
			respondError(w, http.StatusBadRequest, "malformed body")
			return
		}
		err := svc.ChangePassword(r.Context(), auth.Subject(r.Context()), req.Old, req.Neu, requestMeta(r))
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				respondError(w, http.StatusBadRequest, "incorrect current password")
				return
			}
			respondAuthError(w, err)
			return
		}
		respondJSON(w, map[string]any{"ok": true})
	}
}
