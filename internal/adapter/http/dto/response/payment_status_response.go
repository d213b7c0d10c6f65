package response

import (
	"time"

	"harambee_billing/internal/usecase"
)

type PaymentStatusResponse struct {
	CorrelationID string     `json:"correlation_id"`
	IntentID      string     `json:"intent_id"`
	CampaignID    string     `json:"campaign_id"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	ReceiptRef    string     `json:"receipt_ref,omitempty"`
	FailureCode   string     `json:"failure_code,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func FromPaymentStatus(v usecase.PaymentStatusView) PaymentStatusResponse {
	return PaymentStatusResponse{
		CorrelationID: v.CorrelationID,
		IntentID:      v.IntentID,
		CampaignID:    v.CampaignID,
		Status:        string(v.Status),
		Amount:        v.Amount,
		ReceiptRef:    v.ReceiptRef,
		FailureCode:   v.FailureCode,
		FailureReason: v.FailureReason,
		CreatedAt:     v.CreatedAt,
		CompletedAt:   v.TerminalAt,
	}
}
