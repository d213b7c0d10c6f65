package response

import (
	"math"
	"time"

	"harambee_billing/internal/domain/entities"
)

type CampaignResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	TargetAmount int64   `json:"target_amount"`
	RaisedAmount int64   `json:"raised_amount"`
	Progress     float64 `json:"progress"`
	Status       string  `json:"status"`
}

// FromCampaign reports progress as a percentage rounded to two decimals.
func FromCampaign(c entities.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:           c.ID,
		Title:        c.Title,
		TargetAmount: c.TargetAmount,
		RaisedAmount: c.RaisedAmount,
		Progress:     math.Round(c.Progress()*100) / 100,
		Status:       string(c.Status),
	}
}

type DonationResponse struct {
	ID              string     `json:"id"`
	Amount          int64      `json:"amount"`
	ReceiptRef      string     `json:"receipt_ref"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
	CompletedAt     time.Time  `json:"completed_at"`
}

type DonationListResponse struct {
	CampaignID string             `json:"campaign_id"`
	Donations  []DonationResponse `json:"donations"`
}

// FromDonations leaves donor phone numbers out of the public listing.
func FromDonations(campaignID string, donations []entities.Donation) DonationListResponse {
	out := DonationListResponse{CampaignID: campaignID, Donations: make([]DonationResponse, 0, len(donations))}
	for _, d := range donations {
		out.Donations = append(out.Donations, DonationResponse{
			ID:              d.ID,
			Amount:          d.Amount,
			ReceiptRef:      d.ReceiptRef,
			TransactionDate: d.TransactionDate,
			CompletedAt:     d.CompletedAt,
		})
	}
	return out
}
