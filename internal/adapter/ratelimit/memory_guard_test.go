package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemorySlidingWindow_Admit(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	g := NewMemorySlidingWindow(3, time.Minute)
	g.now = clock.Now
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := g.Admit(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "attempt %d", i+1)
		assert.Equal(t, 2-i, d.Remaining)
		clock.Advance(10 * time.Second)
	}

	d, err := g.Admit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 30*time.Second, d.RetryAfter)

	other, _ := g.Admit(ctx, "10.0.0.2")
	assert.True(t, other.Allowed)

	clock.Advance(2 * time.Minute)
	d, _ = g.Admit(ctx, "10.0.0.1")
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)
}

func TestMemorySlidingWindow_Prune(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	g := NewMemorySlidingWindow(0, 0)
	g.now = clock.Now

	_, _ = g.Admit(context.Background(), "a")
	clock.Advance(DefaultWindow + time.Second)
	g.Prune()

	assert.Empty(t, g.attempts)
	assert.Equal(t, DefaultLimit, g.limit)
}
