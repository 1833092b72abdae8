package service

import (
	"sync"
	"time"
)

// RevocationStore remembers revoked token fingerprints until the underlying
// tokens would have expired anyway. Membership is checked before any
// signature work on Verify.
type RevocationStore interface {
	// Insert marks a fingerprint revoked until expiresAt.
	Insert(fingerprint string, expiresAt time.Time)

	// Contains reports whether the fingerprint is currently revoked.
	Contains(fingerprint string) bool

	// PruneExpired drops entries whose tokens have expired and returns how
	// many were removed.
	PruneExpired(now time.Time) int
}

// MemoryRevocationStore is the in-process RevocationStore. Revocations do
// not survive a restart, which is acceptable because tokens are short-lived
// and the signing secret can be rotated to invalidate everything at once.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *MemoryRevocationStore) Insert(fingerprint string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[fingerprint] = expiresAt
}

func (s *MemoryRevocationStore) Contains(fingerprint string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[fingerprint]
	return ok
}

func (s *MemoryRevocationStore) PruneExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for fp, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, fp)
			removed++
		}
	}
	return removed
}

// Len reports the current number of revoked fingerprints, for housekeeping
// logs.
func (s *MemoryRevocationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}
