package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisGuard(t *testing.T, limit int, window time.Duration) (*RedisSlidingWindow, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	g := NewRedisSlidingWindow(client, limit, window, logrus.New())
	g.now = clock.Now
	return g, mr, clock
}

func TestRedisSlidingWindow_Admit(t *testing.T) {
	g, mr, clock := newRedisGuard(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := g.Admit(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		clock.Advance(15 * time.Second)
	}

	d, err := g.Admit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, 30*time.Second, d.RetryAfter)

	members, err := mr.ZMembers(defaultKeyPrefix + "10.0.0.1")
	require.NoError(t, err)
	assert.Len(t, members, 3)
	assert.True(t, mr.TTL(defaultKeyPrefix+"10.0.0.1") > 0)

	clock.Advance(2 * time.Minute)
	d, err = g.Admit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}

func TestRedisSlidingWindow_FailsOpen(t *testing.T) {
	g, mr, _ := newRedisGuard(t, 1, time.Minute)
	mr.Close()

	d, err := g.Admit(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.True(t, d.Allowed)
}
