package ratelimit

import (
	"time"

	"harambee_billing/internal/usecase/interfaces"
)

const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second
)

func normalize(limit int, window time.Duration) (int, time.Duration) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return limit, window
}

// decide turns the number of attempts inside the window (the current one
// included) into a decision. oldest is the earliest attempt still in the window.
func decide(limit int, window time.Duration, count int, oldest, now time.Time) interfaces.AdmissionDecision {
	resetAt := oldest.Add(window)
	if resetAt.Before(now) {
		resetAt = now.Add(window)
	}
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	d := interfaces.AdmissionDecision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if !d.Allowed {
		d.RetryAfter = resetAt.Sub(now)
		if d.RetryAfter < time.Second {
			d.RetryAfter = time.Second
		}
	}
	return d
}
