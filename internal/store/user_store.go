package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"pramara/internal/models"
)

// GormUserStore implements auth.UserStore on top of GORM.
type GormUserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).
		Preload("Roles.Permissions").
		First(&u, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).
		Preload("Roles.Permissions").
		First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return s.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (s *GormUserStore) SetMFASecret(ctx context.Context, id string, secret *string) error {
	return s.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("mfa_secret", secret).Error
}
