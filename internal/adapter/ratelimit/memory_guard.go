package ratelimit

import (
	"context"
	"sync"
	"time"

	"harambee_billing/internal/usecase/interfaces"
)

// MemorySlidingWindow is a per-process sliding-window log. Replicas do not
// share it; use RedisSlidingWindow when more than one instance serves traffic.
type MemorySlidingWindow struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string][]time.Time
	now      func() time.Time
}

var _ interfaces.IAdmissionGuard = (*MemorySlidingWindow)(nil)

func NewMemorySlidingWindow(limit int, window time.Duration) *MemorySlidingWindow {
	limit, window = normalize(limit, window)
	return &MemorySlidingWindow{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (g *MemorySlidingWindow) Admit(_ context.Context, key string) (interfaces.AdmissionDecision, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	windowStart := now.Add(-g.window)

	kept := g.attempts[key][:0]
	for _, at := range g.attempts[key] {
		if at.After(windowStart) {
			kept = append(kept, at)
		}
	}
	kept = append(kept, now)
	g.attempts[key] = kept

	return decide(g.limit, g.window, len(kept), kept[0], now), nil
}

// Prune drops keys with no attempt inside the window.
func (g *MemorySlidingWindow) Prune() {
	g.mu.Lock()
	defer g.mu.Unlock()

	windowStart := g.now().Add(-g.window)
	for key, attempts := range g.attempts {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(windowStart) {
			delete(g.attempts, key)
		}
	}
}
