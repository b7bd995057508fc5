package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pramara/internal/auth"
	"pramara/internal/models"
)

func ListUsers(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		if err := db.Preload("Roles").Order("created_at desc").Find(&users).Error; err != nil {
			lg.Errorw("list users failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to list users")
			return
		}
		respondJSON(w, users)
	}
}

func CreateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string   `json:"email"`
			Password string   `json:"password"`
			Roles    []string `json:"roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed body")
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "email and password required")
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "hash error")
			return
		}
		u := models.User{Email: req.Email, PasswordHash: hash, IsActive: true}
		if len(req.Roles) > 0 {
			var roles []models.Role
			if err := db.Where("name IN ?", req.Roles).Find(&roles).Error; err == nil {
				u.Roles = roles
			}
		}
		if err := db.Create(&u).Error; err != nil {
			respondError(w, http.StatusBadRequest, "create user failed")
			return
		}
		respondJSON(w, map[string]any{"id": u.ID, "email": u.Email})
	}
}

func UpdateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req struct {
			Email    *string `json:"email"`
			IsActive *bool   `json:"is_active"`
			Password *string `json:"password,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed body")
			return
		}
		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		if req.Email != nil {
			u.Email = strings.TrimSpace(strings.ToLower(*req.Email))
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "hash error")
				return
			}
			u.PasswordHash = hash
		}
		if err := db.Save(&u).Error; err != nil {
			lg.Errorw("update user failed", "error", err)
			respondError(w, http.StatusInternalServerError, "update failed")
			return
		}
		respondJSON(w, map[string]any{"updated": true})
	}
}

// DeactivateUser soft-deletes: the active flag flips off, sessions are
// revoked, the row stays.
func DeactivateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res := db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			lg.Errorw("deactivate user failed", "error", res.Error)
			respondError(w, http.StatusInternalServerError, "deactivate failed")
			return
		}
		if res.RowsAffected == 0 {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		_ = db.Delete(&models.Session{}, "user_id = ?", id).Error
		respondJSON(w, map[string]any{"ok": true})
	}
}

// AssignRoles replaces the user's role set with the named roles.
func AssignRoles(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var body struct {
			Roles []string `json:"roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "malformed body")
			return
		}
		var u models.User
		if err := db.Preload("Roles").First(&u, "id = ?", id).Error; err != nil {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		var roles []models.Role
		if len(body.Roles) > 0 {
			if err := db.Where("name IN ?", body.Roles).Find(&roles).Error; err != nil {
				respondError(w, http.StatusBadRequest, "unknown roles")
				return
			}
		}
		if err := db.Model(&u).Association("Roles").Replace(roles); err != nil {
			lg.Errorw("assign roles failed", "error", err)
			respondError(w, http.StatusInternalServerError, "assign failed")
			return
		}
		respondJSON(w, map[string]any{"ok": true})
	}
}
