package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pramara/internal/models"
)

// GormSessionStore implements auth.SessionStore. The refresh-token hash
// carries a unique index, so DeleteByHash removes at most one row and its
// RowsAffected result decides refresh-rotation races.
type GormSessionStore struct {
	DB *gorm.DB
}

func NewSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{DB: db}
}

func (s *GormSessionStore) Create(ctx context.Context, sess *models.Session) error {
	return s.DB.WithContext(ctx).Create(sess).Error
}

func (s *GormSessionStore) FindByHash(ctx context.Context, hash string) (*models.Session, error) {
	var sess models.Session
	err := s.DB.WithContext(ctx).First(&sess, "refresh_token_hash = ?", hash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *GormSessionStore) FindByID(ctx context.Context, id uint) (*models.Session, error) {
	var sess models.Session
	err := s.DB.WithContext(ctx).First(&sess, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *GormSessionStore) ListForUser(ctx context.Context, userID string) ([]models.Session, error) {
	var sessions []models.Session
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&sessions).Error
	return sessions, err
}

func (s *GormSessionStore) DeleteByHash(ctx context.Context, hash string) (int64, error) {
	res := s.DB.WithContext(ctx).Delete(&models.Session{}, "refresh_token_hash = ?", hash)
	return res.RowsAffected, res.Error
}

func (s *GormSessionStore) DeleteByID(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

func (s *GormSessionStore) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	res := s.DB.WithContext(ctx).Delete(&models.Session{}, "user_id = ?", userID)
	return res.RowsAffected, res.Error
}
