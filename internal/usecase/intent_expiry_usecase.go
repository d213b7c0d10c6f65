package usecase

import (
	"context"
	"time"

	"harambee_billing/internal/usecase/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultIntentTimeout is how long an intent may wait for its callback before
// the sweep marks it EXPIRED. Gateways usually answer within 1-5 minutes.
const DefaultIntentTimeout = 5 * time.Minute

// IIntentExpiryUseCase retires intents whose callback never arrived.
//
// Expiry is soft: EXPIRED intents still accept a late callback, which settles
// them as COMPLETED or FAILED like a PENDING intent.
type IIntentExpiryUseCase interface {
	ExpireStale(ctx context.Context) (int64, error)
}

type IntentExpiryUseCase struct {
	repo    interfaces.ILedgerRepository
	timeout time.Duration
	now     func() time.Time
	log     logrus.FieldLogger
}

var _ IIntentExpiryUseCase = (*IntentExpiryUseCase)(nil)

func NewIntentExpiryUseCase(repo interfaces.ILedgerRepository, timeout time.Duration, log logrus.FieldLogger) *IntentExpiryUseCase {
	if timeout <= 0 {
		timeout = DefaultIntentTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &IntentExpiryUseCase{repo: repo, timeout: timeout, now: func() time.Time { return time.Now().UTC() }, log: log}
}

func (u *IntentExpiryUseCase) ExpireStale(ctx context.Context) (int64, error) {
	now := u.now()
	n, err := u.repo.ExpireStaleIntents(ctx, now.Add(-u.timeout), now)
	if err != nil {
		u.log.WithError(err).Error("[payment][expiry] sweep failed")
		return 0, persistenceError("expire intents", err)
	}
	if n > 0 {
		u.log.WithFields(logrus.Fields{"expired": n, "timeout": u.timeout}).Info("[payment][expiry] stale intents expired")
	}
	return n, nil
}
