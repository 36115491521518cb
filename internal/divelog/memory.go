package divelog

import (
	"context"
	"sync"
)

var _ Store = (*InMemory)(nil)

// InMemory implements Store with in-process concurrency safety. Used by
// handler tests and local development without a database.
type InMemory struct {
	mu      sync.RWMutex
	seq     int64
	records map[int64]Record
}

// NewInMemory creates an empty record store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[int64]Record)}
}

func (s *InMemory) List(ctx context.Context, userID int64) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	// Ids are assigned from a monotonic sequence, so descending id is
	// creation order newest-first.
	for id := s.seq; id >= 1; id-- {
		rec, ok := s.records[id]
		if ok && rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *InMemory) Create(ctx context.Context, userID int64, fields Fields) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec := Record{ID: s.seq, UserID: userID, Fields: fields}
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *InMemory) Delete(ctx context.Context, userID, recordID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recordID]
	if !ok || rec.UserID != userID {
		return ErrNotFound
	}
	delete(s.records, recordID)
	return nil
}

// DeleteByUser removes every record owned by userID, mirroring the relational
// store's foreign-key cascade when an account is deleted.
func (s *InMemory) DeleteByUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.UserID == userID {
			delete(s.records, id)
		}
	}
	return nil
}
