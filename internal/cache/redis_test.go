package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestBlacklistToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	err := BlacklistToken(ctx, rdb, "token-123", time.Hour)
	require.NoError(t, err)

	revoked, err := IsTokenBlacklisted(ctx, rdb, "token-123")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = IsTokenBlacklisted(ctx, rdb, "other-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Blacklist entries expire with the token
	mr.FastForward(2 * time.Hour)
	revoked, err = IsTokenBlacklisted(ctx, rdb, "token-123")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklistTokenNilClient(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, BlacklistToken(ctx, nil, "token-123", time.Hour))

	revoked, err := IsTokenBlacklisted(ctx, nil, "token-123")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklistTokenEmptyJTI(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	assert.NoError(t, BlacklistToken(ctx, rdb, "", time.Hour))

	revoked, err := IsTokenBlacklisted(ctx, rdb, "")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
