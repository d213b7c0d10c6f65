package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"harambee_billing/internal/domain/entities"
	mock_interfaces "harambee_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestPaymentStatusUseCase_GetStatus(t *testing.T) {
	ctx := context.Background()
	done := time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC)

	t.Run("empty correlation id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := NewPaymentStatusUseCase(mock_interfaces.NewMockILedgerRepository(ctrl))

		if _, err := uc.GetStatus(ctx, " "); !errors.Is(err, ErrInvalidCorrelation) {
			t.Fatalf("expected ErrInvalidCorrelation, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewPaymentStatusUseCase(repo)

		repo.EXPECT().GetIntentByCorrelationID(gomock.Any(), "ws_CO_999").Return(entities.PaymentIntent{}, nil)

		if _, err := uc.GetStatus(ctx, "ws_CO_999"); !errors.Is(err, ErrIntentNotFound) {
			t.Fatalf("expected ErrIntentNotFound, got %v", err)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewPaymentStatusUseCase(repo)

		repo.EXPECT().GetIntentByCorrelationID(gomock.Any(), "ws_CO_123").Return(entities.PaymentIntent{}, errors.New("db down"))

		if _, err := uc.GetStatus(ctx, "ws_CO_123"); !errors.Is(err, ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
	})

	t.Run("completed shows receipt and confirmed amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewPaymentStatusUseCase(repo)

		repo.EXPECT().GetIntentByCorrelationID(gomock.Any(), "ws_CO_123").Return(entities.PaymentIntent{
			ID: "intent-1", CampaignID: "camp-1", CorrelationID: "ws_CO_123", Amount: 1000, ConfirmedAmount: 900,
			Status: entities.IntentStatusCompleted, ReceiptRef: "QHX1", TerminalAt: &done,
		}, nil)

		view, err := uc.GetStatus(ctx, "ws_CO_123")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if view.Status != entities.IntentStatusCompleted || view.ReceiptRef != "QHX1" || view.Amount != 900 {
			t.Fatalf("unexpected view: %+v", view)
		}
		if view.FailureCode != "" {
			t.Fatalf("expected no failure detail, got %s", view.FailureCode)
		}
	})

	t.Run("failed shows reason", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewPaymentStatusUseCase(repo)

		repo.EXPECT().GetIntentByCorrelationID(gomock.Any(), "ws_CO_124").Return(entities.PaymentIntent{
			ID: "intent-2", CorrelationID: "ws_CO_124", Amount: 1000, Status: entities.IntentStatusFailed,
			FailureCode: "1032", FailureMessage: "Request cancelled by user", TerminalAt: &done,
		}, nil)

		view, err := uc.GetStatus(ctx, "ws_CO_124")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if view.FailureCode != "1032" || view.FailureReason != "Request cancelled by user" || view.ReceiptRef != "" {
			t.Fatalf("unexpected view: %+v", view)
		}
	})
}
