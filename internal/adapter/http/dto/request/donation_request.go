package request

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidDonationAmount = errors.New("amount must be a whole number of shillings")
)

// DonationInitiateRequest is the payload of POST /v1/donations.
//
// Amount is decoded as a JSON number so that 500 and 500.0 are both accepted;
// fractional shillings are rejected by ResolveAmount.
type DonationInitiateRequest struct {
	CampaignID  string  `json:"campaign_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	PhoneNumber string  `json:"phone_number" binding:"required"`
}

func (r DonationInitiateRequest) ResolveCampaignID() string {
	return strings.TrimSpace(r.CampaignID)
}

func (r DonationInitiateRequest) ResolveAmount() (int64, error) {
	if r.Amount <= 0 || r.Amount != math.Trunc(r.Amount) || r.Amount > math.MaxInt32 {
		return 0, ErrInvalidDonationAmount
	}
	return int64(r.Amount), nil
}
