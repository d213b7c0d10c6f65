package interfaces

//go:generate mockgen -source=ledger_repository_interface.go -destination=mocks/ledger_repository_interface_mock.go -package=mock_interfaces

import (
	"context"
	"errors"
	"time"

	"harambee_billing/internal/domain/entities"
)

// ErrIntentAlreadySettled is returned by state transitions whose compare-and-swap
// found the intent no longer settleable (another delivery won the race).
var ErrIntentAlreadySettled = errors.New("payment intent already settled")

// ErrLedgerConflict is wrapped by transition errors that no retry can clear:
// a receipt or correlation id already bound elsewhere, or a missing campaign.
var ErrLedgerConflict = errors.New("ledger conflict")

// ILedgerRepository abstracts the transactional store for campaigns, payment
// intents and donations.
//
// Lookups return a zero value and a nil error when nothing matches.
// Every intent transition is a compare-and-swap on the intent status; none of
// them relies on in-process locking.
type ILedgerRepository interface {
	GetCampaign(ctx context.Context, id string) (entities.Campaign, error)
	ListDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]entities.Donation, error)

	CreateIntent(ctx context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error)
	AssignCorrelation(ctx context.Context, intentID, correlationID, merchantRequestID string) error
	FailInitiation(ctx context.Context, intentID, code, message string, at time.Time) error
	GetIntentByCorrelationID(ctx context.Context, correlationID string) (entities.PaymentIntent, error)

	// CompleteIntent moves a settleable intent to COMPLETED, inserts its
	// Donation and increments the campaign's raised amount in one transaction.
	CompleteIntent(ctx context.Context, s entities.Settlement) (entities.Donation, error)
	// FailIntent moves a settleable intent to FAILED.
	FailIntent(ctx context.Context, f entities.Failure) error
	// ExpireStaleIntents moves PENDING intents created before cutoff to EXPIRED.
	ExpireStaleIntents(ctx context.Context, cutoff, at time.Time) (int64, error)

	Ping(ctx context.Context) error
}
