package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrCorrelationInUse = fmt.Errorf("%w: correlation id already assigned", interfaces.ErrLedgerConflict)
	ErrReceiptRecorded  = fmt.Errorf("%w: receipt already recorded", interfaces.ErrLedgerConflict)
	ErrCampaignMissing  = fmt.Errorf("%w: campaign does not exist", interfaces.ErrLedgerConflict)
	ErrIntentMissing    = errors.New("payment intent does not exist")
	ErrIntentExists     = errors.New("payment intent already exists")
	ErrIntentCorrelated = fmt.Errorf("%w: payment intent already correlated", interfaces.ErrLedgerConflict)
)

// LedgerMemoryRepository keeps the ledger in process memory.
//
// It is meant for a single local process (PAYMENT_GATEWAY_MOCK runs, tests):
// its mutex gives the same all-or-nothing settlement as the SQL backends but
// does not span replicas.
type LedgerMemoryRepository struct {
	mu            sync.Mutex
	campaigns     map[string]entities.Campaign
	intents       map[string]entities.PaymentIntent
	byCorrelation map[string]string
	donations     map[string]entities.Donation
	byIntent      map[string]string
	receipts      map[string]string
}

var _ interfaces.ILedgerRepository = (*LedgerMemoryRepository)(nil)

func NewLedgerMemoryRepository(seed ...entities.Campaign) *LedgerMemoryRepository {
	r := &LedgerMemoryRepository{
		campaigns:     make(map[string]entities.Campaign),
		intents:       make(map[string]entities.PaymentIntent),
		byCorrelation: make(map[string]string),
		donations:     make(map[string]entities.Donation),
		byIntent:      make(map[string]string),
		receipts:      make(map[string]string),
	}
	for _, c := range seed {
		r.PutCampaign(c)
	}
	return r
}

// PutCampaign stands in for the admin surface that owns campaign records.
func (r *LedgerMemoryRepository) PutCampaign(c entities.Campaign) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.Status == "" {
		c.Status = entities.CampaignStatusActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
		c.UpdatedAt = c.CreatedAt
	}
	r.campaigns[c.ID] = c
}

func (r *LedgerMemoryRepository) GetCampaign(_ context.Context, id string) (entities.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.campaigns[id], nil
}

func (r *LedgerMemoryRepository) ListDonationsByCampaign(_ context.Context, campaignID string, limit int) ([]entities.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entities.Donation, 0)
	for _, d := range r.donations {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *LedgerMemoryRepository) CreateIntent(_ context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.intents[intent.ID]; ok {
		return entities.PaymentIntent{}, ErrIntentExists
	}
	if _, ok := r.campaigns[intent.CampaignID]; !ok {
		return entities.PaymentIntent{}, ErrCampaignMissing
	}
	intent.CorrelationID = ""
	r.intents[intent.ID] = intent
	return intent, nil
}

func (r *LedgerMemoryRepository) AssignCorrelation(_ context.Context, intentID, correlationID, merchantRequestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	intent, ok := r.intents[intentID]
	if !ok {
		return ErrIntentMissing
	}
	if intent.CorrelationID != "" || intent.Status != entities.IntentStatusPending {
		return ErrIntentCorrelated
	}
	if _, taken := r.byCorrelation[correlationID]; taken {
		return ErrCorrelationInUse
	}
	intent.CorrelationID = correlationID
	intent.MerchantRequestID = merchantRequestID
	intent.UpdatedAt = time.Now().UTC()
	r.intents[intentID] = intent
	r.byCorrelation[correlationID] = intentID
	return nil
}

func (r *LedgerMemoryRepository) FailInitiation(_ context.Context, intentID, code, message string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	intent, ok := r.intents[intentID]
	if !ok {
		return ErrIntentMissing
	}
	if intent.Status != entities.IntentStatusPending {
		return interfaces.ErrIntentAlreadySettled
	}
	intent.Status = entities.IntentStatusFailed
	intent.FailureCode = code
	intent.FailureMessage = message
	intent.UpdatedAt = at
	intent.TerminalAt = &at
	r.intents[intentID] = intent
	return nil
}

func (r *LedgerMemoryRepository) GetIntentByCorrelationID(_ context.Context, correlationID string) (entities.PaymentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byCorrelation[correlationID]
	if !ok {
		return entities.PaymentIntent{}, nil
	}
	return r.intents[id], nil
}

// GetIntent is a lookup by primary key, used by tests and local tooling.
func (r *LedgerMemoryRepository) GetIntent(_ context.Context, id string) (entities.PaymentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intents[id], nil
}

func (r *LedgerMemoryRepository) CompleteIntent(_ context.Context, s entities.Settlement) (entities.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	intent, ok := r.intents[s.IntentID]
	if !ok {
		return entities.Donation{}, ErrIntentMissing
	}
	if !intent.Status.Settleable() {
		return entities.Donation{}, interfaces.ErrIntentAlreadySettled
	}
	if _, dup := r.byIntent[s.IntentID]; dup {
		return entities.Donation{}, interfaces.ErrIntentAlreadySettled
	}
	if _, dup := r.receipts[s.ReceiptRef]; dup {
		return entities.Donation{}, fmt.Errorf("%w: %s", ErrReceiptRecorded, s.ReceiptRef)
	}
	campaign, ok := r.campaigns[intent.CampaignID]
	if !ok {
		return entities.Donation{}, ErrCampaignMissing
	}

	at := s.SettledAt
	intent.Status = entities.IntentStatusCompleted
	intent.ConfirmedAmount = s.ConfirmedAmount
	intent.ReceiptRef = s.ReceiptRef
	intent.UpdatedAt = at
	intent.TerminalAt = &at

	donation := entities.Donation{
		ID:              uuid.NewString(),
		IntentID:        intent.ID,
		CampaignID:      intent.CampaignID,
		Amount:          s.ConfirmedAmount,
		ReceiptRef:      s.ReceiptRef,
		PhoneNumber:     s.PhoneNumber,
		TransactionDate: s.TransactionDate,
		CompletedAt:     at,
	}

	campaign.RaisedAmount += s.ConfirmedAmount
	campaign.UpdatedAt = at

	r.intents[intent.ID] = intent
	r.donations[donation.ID] = donation
	r.byIntent[intent.ID] = donation.ID
	r.receipts[s.ReceiptRef] = donation.ID
	r.campaigns[campaign.ID] = campaign
	return donation, nil
}

func (r *LedgerMemoryRepository) FailIntent(_ context.Context, f entities.Failure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byCorrelation[f.CorrelationID]
	if !ok {
		return ErrIntentMissing
	}
	intent := r.intents[id]
	if !intent.Status.Settleable() {
		return interfaces.ErrIntentAlreadySettled
	}
	at := f.FailedAt
	intent.Status = entities.IntentStatusFailed
	intent.FailureCode = f.Code
	intent.FailureMessage = f.Message
	intent.UpdatedAt = at
	intent.TerminalAt = &at
	r.intents[id] = intent
	return nil
}

func (r *LedgerMemoryRepository) ExpireStaleIntents(_ context.Context, cutoff, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, intent := range r.intents {
		if intent.Status == entities.IntentStatusPending && intent.CreatedAt.Before(cutoff) {
			intent.Status = entities.IntentStatusExpired
			intent.UpdatedAt = at
			r.intents[id] = intent
			n++
		}
	}
	return n, nil
}

func (r *LedgerMemoryRepository) Ping(context.Context) error { return nil }
