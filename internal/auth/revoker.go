package auth

import (
	"context"
	"sync"
	"time"
)

// Revoker remembers signed-out token ids until they would have expired.
// The Redis client satisfies it in production.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevoker is a process-local Revoker.
type MemoryRevoker struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{expires: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.expires {
		if !exp.After(now) {
			delete(m.expires, id)
		}
	}
	if ttl > 0 {
		m.expires[tokenID] = now.Add(ttl)
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.expires[tokenID]
	return ok && exp.After(m.now()), nil
}
