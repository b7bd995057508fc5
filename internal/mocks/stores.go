// Package mocks holds in-memory store implementations for tests.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pramara/internal/auth"
	"pramara/internal/models"
)

type UserStore struct {
	mu    sync.Mutex
	Users map[string]*models.User // keyed by id
}

func NewUserStore(users ...*models.User) *UserStore {
	s := &UserStore{Users: make(map[string]*models.User)}
	for _, u := range users {
		s.Users[u.ID] = u
	}
	return s
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Users[id], nil
}

func (s *UserStore) UpdatePasswordHash(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (s *UserStore) SetMFASecret(_ context.Context, id string, secret *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[id]; ok {
		u.MFASecret = secret
	}
	return nil
}

type SessionStore struct {
	mu     sync.Mutex
	nextID uint
	Rows   map[uint]*models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{Rows: make(map[uint]*models.Session)}
}

func (s *SessionStore) Create(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sess.ID = s.nextID
	cp := *sess
	s.Rows[sess.ID] = &cp
	return nil
}

func (s *SessionStore) FindByHash(_ context.Context, hash string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.Rows {
		if row.RefreshTokenHash == hash {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *SessionStore) FindByID(_ context.Context, id uint) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.Rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (s *SessionStore) ListForUser(_ context.Context, userID string) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Session
	for _, row := range s.Rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *SessionStore) DeleteByHash(_ context.Context, hash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, row := range s.Rows {
		if row.RefreshTokenHash == hash {
			delete(s.Rows, id)
			n++
		}
	}
	return n, nil
}

func (s *SessionStore) DeleteByID(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Rows, id)
	return nil
}

func (s *SessionStore) DeleteAllForUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, row := range s.Rows {
		if row.UserID == userID {
			delete(s.Rows, id)
			n++
		}
	}
	return n, nil
}

type AuditSink struct {
	mu     sync.Mutex
	Events []auth.AuditEvent
}

func NewAuditSink() *AuditSink { return &AuditSink{} }

func (s *AuditSink) Record(_ context.Context, e auth.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, e)
}

// Actions lists recorded action names in order.
func (s *AuditSink) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, e.Action)
	}
	return out
}
