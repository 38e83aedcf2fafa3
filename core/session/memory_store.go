package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store using in-process storage. Records are
// copied on the way in and out, so callers can never mutate stored state
// through a returned pointer.
type MemoryStore[Data any] struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session[Data]
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore[Data any]() *MemoryStore[Data] {
	return &MemoryStore[Data]{
		sessions: make(map[uuid.UUID]Session[Data]),
	}
}

// Get implements Store.
func (ms *MemoryStore[Data]) Get(ctx context.Context, id uuid.UUID) (*Session[Data], error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	sess, ok := ms.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Save implements Store.
func (ms *MemoryStore[Data]) Save(ctx context.Context, sess *Session[Data]) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[sess.ID] = *sess
	return nil
}

// Delete implements Store.
func (ms *MemoryStore[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.sessions, id)
	return nil
}

// All implements Store.
func (ms *MemoryStore[Data]) All(ctx context.Context) ([]Session[Data], error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]Session[Data], 0, len(ms.sessions))
	for _, sess := range ms.sessions {
		out = append(out, sess)
	}
	return out, nil
}

// Len returns the number of stored records.
func (ms *MemoryStore[Data]) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}
