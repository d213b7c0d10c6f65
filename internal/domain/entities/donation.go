package entities

import "time"

// Donation is the immutable ledger row created when a PaymentIntent completes.
//
// Storage model:
//   - PK: id
//   - unique: intent_id (one donation per intent), receipt_ref
//   - index: campaign_id
type Donation struct {
	ID              string     `json:"id" db:"id"`
	IntentID        string     `json:"intent_id" db:"intent_id"`
	CampaignID      string     `json:"campaign_id" db:"campaign_id"`
	Amount          int64      `json:"amount" db:"amount"`
	ReceiptRef      string     `json:"receipt_ref" db:"receipt_ref"`
	PhoneNumber     string     `json:"phone_number,omitempty" db:"phone_number"`
	TransactionDate *time.Time `json:"transaction_date,omitempty" db:"transaction_date"`
	CompletedAt     time.Time  `json:"completed_at" db:"completed_at"`
}
