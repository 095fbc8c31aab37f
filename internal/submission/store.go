package submission

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("submission not found")

type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
}

type memoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

func NewInMemoryStore() Store {
	return &memoryStore{recs: map[string]Record{}}
}

func (m *memoryStore) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ID] = rec
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *memoryStore) ListByUser(_ context.Context, userID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, rec := range m.recs {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}
