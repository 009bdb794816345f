package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/medtrack-api/pkg/circuitbreaker"
)

const revokedKeyPrefix = "medtrack:revoked:"

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// NewRedisClient parses the URL, applies overrides and checks connectivity.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisRevocationStore shares revoked token ids between replicas.
type RedisRevocationStore struct {
	client *redis.Client
	cb     *circuitbreaker.CircuitBreaker
}

func NewRedisRevocationStore(client *redis.Client, cb *circuitbreaker.CircuitBreaker) *RedisRevocationStore {
	if cb == nil {
		cb = circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "redis-revocation",
			MaxFailures: 5,
			Timeout:     5 * time.Second,
		})
	}
	return &RedisRevocationStore{client: client, cb: cb}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return s.cb.Execute(func() error {
		if err := s.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}
		return nil
	})
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	err := s.cb.Execute(func() error {
		var err error
		n, err = s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return n > 0, nil
}
