package entities

import "time"

// CampaignStatus represents whether a campaign is accepting donations.
type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "ACTIVE"
	CampaignStatusPaused CampaignStatus = "PAUSED"
	CampaignStatusClosed CampaignStatus = "CLOSED"
)

// Campaign is a funding campaign donations are raised against.
//
// Monetary representation:
//   - TargetAmount and RaisedAmount are whole Kenyan shillings (the gateway's
//     smallest settlement unit).
//   - RaisedAmount is only ever changed by the settlement transaction.
type Campaign struct {
	ID           string         `json:"id" db:"id"`
	Title        string         `json:"title" db:"title"`
	TargetAmount int64          `json:"target_amount" db:"target_amount"`
	RaisedAmount int64          `json:"raised_amount" db:"raised_amount"`
	Status       CampaignStatus `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

func (c Campaign) AcceptingFunds() bool {
	return c.Status == CampaignStatusActive
}

// Progress returns the raised share of the target as a percentage clamped to [0, 100].
func (c Campaign) Progress() float64 {
	if c.TargetAmount <= 0 {
		return 0
	}
	p := float64(c.RaisedAmount) / float64(c.TargetAmount) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
