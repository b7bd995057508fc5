package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pramara/internal/auth"
)

func MFASetup(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := auth.IdentityFromContext(r.Context())
		out, err := svc.MFASetup(r.Context(), ident.User)
		if err != nil {
			lg.Errorw("mfa setup failed", "error", err)
			respondError(w, http.StatusBadRequest, "MFA setup failed")
			return
		}
		respondJSON(w, out)
	}
}

type mfaVerifyReq struct {
	Base32 string `json:"base32"`
	Token  string `json:"token"`
}

func MFAVerify(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req mfaVerifyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Base32 == "" || req.Token == "" {
			respondError(w, http.StatusBadRequest, "base32 and token required")
			return
		}
		err := svc.MFAConfirm(r.Context(), auth.Subject(r.Context()), req.Base32, req.Token, requestMeta(r))
		if err != nil {
			if errors.Is(err, auth.ErrInvalidTOTP) {
				respondError(w, http.StatusBadRequest, "invalid TOTP")
				return
			}
			lg.Errorw("mfa verify failed", "error", err)
			respondAuthError(w, err)
			return
		}
		respondJSON(w, map[string]string{"message": "MFA enabled"})
	}
}

func MFADisable(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.MFADisable(r.Context(), auth.Subject(r.Context()), requestMeta(r)); err != nil {
			lg.Errorw("mfa disable failed", "error", err)
			respondError(w, http.StatusBadRequest, "disable MFA failed")
			return
		}
		respondJSON(w, map[string]any{"ok": true})
	}
}
