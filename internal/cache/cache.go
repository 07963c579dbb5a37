package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kjstillabower/weathercom-service/internal/models"
)

// SnapshotStore mirrors the latest merged snapshot so a restarted process
// can serve data before its first successful refresh. Only ever holds one
// snapshot; Save replaces it wholesale.
type SnapshotStore interface {
	Load(ctx context.Context) (models.Snapshot, bool, error)
	Save(ctx context.Context, snap models.Snapshot, ttl time.Duration) error
}

// InMemoryStore implements SnapshotStore in process memory. Useful for tests
// and single-instance runs where warm restart does not matter.
type InMemoryStore struct {
	mu        sync.Mutex
	snap      models.Snapshot
	expiresAt time.Time
}

// NewInMemoryStore creates an empty in-memory snapshot store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Load returns the stored snapshot if present and not expired.
func (s *InMemoryStore) Load(ctx context.Context) (models.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil || time.Now().After(s.expiresAt) {
		s.snap = nil
		return nil, false, nil
	}
	return s.snap, true, nil
}

// Save replaces the stored snapshot.
func (s *InMemoryStore) Save(ctx context.Context, snap models.Snapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.expiresAt = time.Now().Add(ttl)
	return nil
}
