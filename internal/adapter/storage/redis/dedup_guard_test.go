package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupGuard_FirstSight(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	guard := NewDedupGuard(client)
	ctx := context.Background()

	first, err := guard.MarkIfFirst(ctx, "RKTQDM7W6S", time.Hour)
	require.NoError(t, err)
	assert.True(t, first, "first mark should succeed")
}

func TestDedupGuard_DuplicateBlocked(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	guard := NewDedupGuard(client)
	ctx := context.Background()

	first, err := guard.MarkIfFirst(ctx, "RKTQDM7W6S", time.Hour)
	require.NoError(t, err)
	require.True(t, first)

	second, err := guard.MarkIfFirst(ctx, "RKTQDM7W6S", time.Hour)
	require.NoError(t, err)
	assert.False(t, second, "second mark of the same id should report duplicate")
}

func TestDedupGuard_DifferentIDsIndependent(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	guard := NewDedupGuard(client)
	ctx := context.Background()

	first, err := guard.MarkIfFirst(ctx, "TX-A", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	other, err := guard.MarkIfFirst(ctx, "TX-B", time.Hour)
	require.NoError(t, err)
	assert.True(t, other, "a different transaction id gets its own mark")
}

func TestDedupGuard_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	guard := NewDedupGuard(client)
	ctx := context.Background()

	first, err := guard.MarkIfFirst(ctx, "RKTQDM7W6S", time.Second)
	require.NoError(t, err)
	require.True(t, first)

	s.FastForward(2 * time.Second)

	again, err := guard.MarkIfFirst(ctx, "RKTQDM7W6S", time.Second)
	require.NoError(t, err)
	assert.True(t, again, "mark should be accepted again after the ttl lapses")
}
