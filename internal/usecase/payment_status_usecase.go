package usecase

import (
	"context"
	"strings"
	"time"

	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase/interfaces"
)

// PaymentStatusView is what a polling client sees for one payment.
type PaymentStatusView struct {
	CorrelationID string
	IntentID      string
	CampaignID    string
	Status        entities.IntentStatus
	Amount        int64
	ReceiptRef    string
	FailureCode   string
	FailureReason string
	CreatedAt     time.Time
	TerminalAt    *time.Time
}

// IPaymentStatusUseCase is the read-only lookup used by clients polling for
// the outcome of an initiation.
type IPaymentStatusUseCase interface {
	GetStatus(ctx context.Context, correlationID string) (PaymentStatusView, error)
}

type PaymentStatusUseCase struct {
	repo interfaces.ILedgerRepository
}

var _ IPaymentStatusUseCase = (*PaymentStatusUseCase)(nil)

func NewPaymentStatusUseCase(repo interfaces.ILedgerRepository) *PaymentStatusUseCase {
	return &PaymentStatusUseCase{repo: repo}
}

func (u *PaymentStatusUseCase) GetStatus(ctx context.Context, correlationID string) (PaymentStatusView, error) {
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		return PaymentStatusView{}, ErrInvalidCorrelation
	}

	intent, err := u.repo.GetIntentByCorrelationID(ctx, correlationID)
	if err != nil {
		return PaymentStatusView{}, persistenceError("load intent", err)
	}
	if intent.ID == "" {
		return PaymentStatusView{}, ErrIntentNotFound
	}

	view := PaymentStatusView{
		CorrelationID: intent.CorrelationID,
		IntentID:      intent.ID,
		CampaignID:    intent.CampaignID,
		Status:        intent.Status,
		Amount:        intent.Amount,
		CreatedAt:     intent.CreatedAt,
		TerminalAt:    intent.TerminalAt,
	}
	switch intent.Status {
	case entities.IntentStatusCompleted:
		view.ReceiptRef = intent.ReceiptRef
		view.Amount = intent.ConfirmedAmount
	case entities.IntentStatusFailed:
		view.FailureCode = intent.FailureCode
		view.FailureReason = intent.FailureMessage
	}
	return view, nil
}
