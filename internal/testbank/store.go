package testbank

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/scoremitra/scoremitra/internal/scoring"
)

var (
	ErrTestNotFound = errors.New("test not found")
	ErrKeysNotFound = errors.New("answer keys not found")
)

type Store interface {
	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error)
	// FindTest resolves a test by its canonical (exam date, shift) key.
	FindTest(ctx context.Context, examDate, shift string) (Test, error)
	ListTests(ctx context.Context) ([]Test, error)
	// PutKeys replaces the whole answer-key set for a test.
	PutKeys(ctx context.Context, testID string, keys []scoring.KeyEntry) error
	GetKeys(ctx context.Context, testID string) ([]scoring.KeyEntry, error)
}

type memoryStore struct {
	mu    sync.RWMutex
	tests map[string]Test
	keys  map[string][]scoring.KeyEntry
}

// NewInMemoryStore is used in tests and offline tooling.
func NewInMemoryStore() Store {
	return &memoryStore{
		tests: map[string]Test{},
		keys:  map[string][]scoring.KeyEntry{},
	}
}

func (m *memoryStore) PutTest(_ context.Context, t Test) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[t.ID] = t
	return nil
}

func (m *memoryStore) GetTest(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, ErrTestNotFound
	}
	return t, nil
}

func (m *memoryStore) FindTest(_ context.Context, examDate, shift string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tests {
		if t.ExamDate == examDate && t.Shift == shift {
			return t, nil
		}
	}
	return Test{}, ErrTestNotFound
}

func (m *memoryStore) ListTests(_ context.Context) ([]Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Test, 0, len(m.tests))
	for _, t := range m.tests {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExamDate != out[j].ExamDate {
			return out[i].ExamDate < out[j].ExamDate
		}
		return out[i].Shift < out[j].Shift
	})
	return out, nil
}

func (m *memoryStore) PutKeys(_ context.Context, testID string, keys []scoring.KeyEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tests[testID]; !ok {
		return ErrTestNotFound
	}
	cp := make([]scoring.KeyEntry, len(keys))
	copy(cp, keys)
	m.keys[testID] = cp
	return nil
}

func (m *memoryStore) GetKeys(_ context.Context, testID string) ([]scoring.KeyEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys, ok := m.keys[testID]
	if !ok {
		return nil, ErrKeysNotFound
	}
	out := make([]scoring.KeyEntry, len(keys))
	copy(out, keys)
	return out, nil
}
