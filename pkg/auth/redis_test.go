package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medtrack-api/pkg/circuitbreaker"
)

func TestRedisRevocationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisRevocationStore(client, nil)

	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "abc", time.Minute))

	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Minute, mr.TTL(revokedKeyPrefix+"abc"))

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationStore_BackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{MaxFailures: 1, Timeout: time.Hour})
	store := NewRedisRevocationStore(client, cb)

	mr.Close()
	_, err = store.IsRevoked(ctx, "abc")
	assert.Error(t, err)
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	_, err = store.IsRevoked(ctx, "abc")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisConfig{URL: "not a url"})
	assert.Error(t, err)
}

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))
	revoked, _ := store.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)
}
