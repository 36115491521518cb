package auth

import (
	"context"
	"sync"
	"time"
)

// InMemoryUsers implements UserStore with in-process concurrency safety.
// Used by handler tests and local development without a database.
type InMemoryUsers struct {
	mu      sync.RWMutex
	seq     int64
	byID    map[int64]*User
	byEmail map[string]int64
}

// NewInMemoryUsers creates an empty user store.
func NewInMemoryUsers() *InMemoryUsers {
	return &InMemoryUsers{
		byID:    make(map[int64]*User),
		byEmail: make(map[string]int64),
	}
}

func (s *InMemoryUsers) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return ErrAlreadyExists
	}
	s.seq++
	u.ID = s.seq
	u.CreatedAt = time.Now().UTC()
	stored := *u
	s.byID[u.ID] = &stored
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *InMemoryUsers) Find(ctx context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemoryUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

// Delete removes a user. Dive records owned by the user are cascaded by the
// relational store; the in-memory pair does not model the cascade.
func (s *InMemoryUsers) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.byID, id)
	return nil
}
