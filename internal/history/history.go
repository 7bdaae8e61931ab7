package history

import (
	"context"
	"sync"

	"github.com/samber/do"
)

// Store keeps the most recent generated images per session, oldest first.
// Get reports nil for a session that has never generated anything.
type Store interface {
	Append(ctx context.Context, sessionID string, img []byte) error
	Get(ctx context.Context, sessionID string) ([][]byte, error)
}

type MemoryStore struct {
	mu    sync.RWMutex
	limit int
	items map[string][][]byte
}

func NewMemoryStore(i *do.Injector) (*MemoryStore, error) {
	limit := do.MustInvokeNamed[int](i, "history_limit")
	return &MemoryStore{limit: limit, items: make(map[string][][]byte)}, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, img []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.items[sessionID], img)
	if len(entries) > s.limit {
		trimmed := make([][]byte, s.limit)
		copy(trimmed, entries[len(entries)-s.limit:])
		entries = trimmed
	}
	s.items[sessionID] = entries
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.items[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([][]byte, len(entries))
	copy(out, entries)
	return out, nil
}
