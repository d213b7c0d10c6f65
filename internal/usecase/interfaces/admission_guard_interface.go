package interfaces

//go:generate mockgen -source=admission_guard_interface.go -destination=mocks/admission_guard_interface_mock.go -package=mock_interfaces

import (
	"context"
	"time"
)

// AdmissionDecision is the outcome of one admission check.
type AdmissionDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// IAdmissionGuard rate limits payment initiation per client address.
//
// Implementations fail open: a backend outage yields Allowed=true.
type IAdmissionGuard interface {
	Admit(ctx context.Context, key string) (AdmissionDecision, error)
}
