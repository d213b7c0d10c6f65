package response

import (
	"harambee_billing/internal/usecase"
)

type DonationInitiateResponse struct {
	IntentID        string `json:"intent_id"`
	CorrelationID   string `json:"correlation_id"`
	Status          string `json:"status"`
	CustomerMessage string `json:"customer_message,omitempty"`
}

func FromInitiateResult(r usecase.InitiateResult) DonationInitiateResponse {
	return DonationInitiateResponse{
		IntentID:        r.IntentID,
		CorrelationID:   r.CorrelationID,
		Status:          string(r.Status),
		CustomerMessage: r.CustomerMessage,
	}
}
