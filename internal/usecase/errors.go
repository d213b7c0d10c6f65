package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCampaignID  = fmt.Errorf("%w: invalid campaign_id", ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidPhoneNumber = fmt.Errorf("%w: invalid phone_number", ErrValidation)
	ErrInvalidCorrelation = fmt.Errorf("%w: invalid correlation_id", ErrValidation)

	ErrCampaignNotFound = errors.New("campaign not found")
	ErrCampaignClosed   = errors.New("campaign not accepting donations")
	ErrIntentNotFound   = errors.New("payment intent not found")

	ErrRateLimited            = errors.New("too many payment attempts")
	ErrGateway                = errors.New("payment gateway error")
	ErrMalformedCallback      = errors.New("malformed gateway callback")
	ErrUnmatchedCallback      = errors.New("callback does not match any payment intent")
	ErrReconciliationMismatch = errors.New("confirmed amount differs from requested amount")
	ErrSettlementConflict     = errors.New("settlement conflicts with recorded ledger state")
	ErrPersistence            = errors.New("ledger persistence failure")
)

// RateLimitedError is returned by Initiate when the admission guard rejects the caller.
type RateLimitedError struct {
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: limit=%d retry_after=%s", ErrRateLimited, e.Limit, e.RetryAfter)
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// GatewayError is returned by Initiate when the payment could not be started at
// the gateway. Any intent created for the request is already FAILED; IntentID is
// empty when none was created.
type GatewayError struct {
	IntentID string
	Code     string
	Message  string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: intent_id=%s code=%s message=%s", ErrGateway, e.IntentID, e.Code, e.Message)
}

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

func (e *GatewayError) Unwrap() error { return e.Err }

// ReconciliationMismatchError flags a completed settlement whose confirmed amount
// differs from the requested one. The ledger already holds the confirmed amount.
type ReconciliationMismatchError struct {
	CorrelationID   string
	RequestedAmount int64
	ConfirmedAmount int64
}

func (e *ReconciliationMismatchError) Error() string {
	return fmt.Sprintf("%s: correlation_id=%s requested=%d confirmed=%d",
		ErrReconciliationMismatch, e.CorrelationID, e.RequestedAmount, e.ConfirmedAmount)
}

func (e *ReconciliationMismatchError) Is(target error) bool {
	return target == ErrReconciliationMismatch
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}
