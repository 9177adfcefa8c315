package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"stayhaven/domain"
)

// Store persists search sessions keyed by a generated id. Get returns
// (nil, nil) for an unknown or expired id; callers degrade to the default
// listing view rather than erroring.
type Store interface {
	Save(ctx context.Context, session *domain.SearchSession) (string, error)
	Get(ctx context.Context, id string) (*domain.SearchSession, error)
}

type memoryEntry struct {
	session   domain.SearchSession
	expiresAt time.Time
}

// MemoryStore keeps sessions in process with lazy TTL expiry.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, session *domain.SearchSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	stored := *session
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	s.entries[id] = memoryEntry{session: stored, expiresAt: s.now().Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.SearchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, nil
	}
	session := entry.session
	return &session, nil
}
