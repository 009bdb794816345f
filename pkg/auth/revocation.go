package auth

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// RevocationStore remembers revoked token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocationStore keeps revoked ids in process. Revocations are lost
// on restart and not shared between replicas.
type MemoryRevocationStore struct {
	cache *cache.Cache
}

func NewMemoryRevocationStore(cleanupInterval time.Duration) *MemoryRevocationStore {
	return &MemoryRevocationStore{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.cache.Set(jti, struct{}{}, ttl)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}
