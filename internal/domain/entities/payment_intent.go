package entities

import "time"

// IntentStatus is the lifecycle state of a PaymentIntent.
//
// PENDING -> COMPLETED | FAILED is the normal path. The expiry sweep may move a
// stale PENDING intent to EXPIRED; EXPIRED is not final and a late gateway
// callback still settles it.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "PENDING"
	IntentStatusCompleted IntentStatus = "COMPLETED"
	IntentStatusFailed    IntentStatus = "FAILED"
	IntentStatusExpired   IntentStatus = "EXPIRED"
)

// Terminal reports whether no further transition is allowed.
func (s IntentStatus) Terminal() bool {
	return s == IntentStatusCompleted || s == IntentStatusFailed
}

// Settleable reports whether a gateway callback may still move the intent.
func (s IntentStatus) Settleable() bool {
	return s == IntentStatusPending || s == IntentStatusExpired
}

// PaymentIntent is a locally created record of an attempted, not yet settled payment.
//
// Storage model:
//   - PK: id
//   - unique: correlation_id (gateway CheckoutRequestID, set after initiation)
type PaymentIntent struct {
	ID                string       `json:"id" db:"id"`
	CampaignID        string       `json:"campaign_id" db:"campaign_id"`
	Amount            int64        `json:"amount" db:"amount"`
	PhoneNumber       string       `json:"phone_number" db:"phone_number"`
	ClientAddress     string       `json:"client_address,omitempty" db:"client_address"`
	CorrelationID     string       `json:"correlation_id,omitempty" db:"correlation_id"`
	MerchantRequestID string       `json:"merchant_request_id,omitempty" db:"merchant_request_id"`
	Status            IntentStatus `json:"status" db:"status"`
	ConfirmedAmount   int64        `json:"confirmed_amount,omitempty" db:"confirmed_amount"`
	ReceiptRef        string       `json:"receipt_ref,omitempty" db:"receipt_ref"`
	FailureCode       string       `json:"failure_code,omitempty" db:"failure_code"`
	FailureMessage    string       `json:"failure_message,omitempty" db:"failure_message"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" db:"updated_at"`
	TerminalAt        *time.Time   `json:"terminal_at,omitempty" db:"terminal_at"`
}

// Settlement carries everything the ledger needs to complete an intent atomically.
type Settlement struct {
	IntentID        string
	CorrelationID   string
	CampaignID      string
	ConfirmedAmount int64
	ReceiptRef      string
	PhoneNumber     string
	TransactionDate *time.Time
	SettledAt       time.Time
}

// Failure carries the gateway's reason for a failed payment.
type Failure struct {
	CorrelationID string
	Code          string
	Message       string
	FailedAt      time.Time
}
