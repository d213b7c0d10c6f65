package usecase

import (
	"context"
	"errors"
	"testing"

	"harambee_billing/internal/domain/entities"
	mock_interfaces "harambee_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestCampaignUseCase_GetCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := NewCampaignUseCase(mock_interfaces.NewMockILedgerRepository(ctrl))

		if _, err := uc.GetCampaign(ctx, ""); !errors.Is(err, ErrInvalidCampaignID) {
			t.Fatalf("expected ErrInvalidCampaignID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewCampaignUseCase(repo)

		repo.EXPECT().GetCampaign(gomock.Any(), "missing").Return(entities.Campaign{}, nil)

		if _, err := uc.GetCampaign(ctx, "missing"); !errors.Is(err, ErrCampaignNotFound) {
			t.Fatalf("expected ErrCampaignNotFound, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewCampaignUseCase(repo)

		repo.EXPECT().GetCampaign(gomock.Any(), "camp-1").Return(activeCampaign, nil)

		c, err := uc.GetCampaign(ctx, " camp-1 ")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if c.ID != "camp-1" {
			t.Fatalf("expected camp-1, got %s", c.ID)
		}
	})
}

func TestCampaignUseCase_ListDonations(t *testing.T) {
	ctx := context.Background()

	limits := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "default page size", requested: 0, want: DefaultDonationPageSize},
		{name: "explicit page size", requested: 25, want: 25},
		{name: "clamped page size", requested: 1000, want: MaxDonationPageSize},
	}
	for _, tt := range limits {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockILedgerRepository(ctrl)
			uc := NewCampaignUseCase(repo)

			repo.EXPECT().GetCampaign(gomock.Any(), "camp-1").Return(activeCampaign, nil)
			repo.EXPECT().ListDonationsByCampaign(gomock.Any(), "camp-1", tt.want).
				Return([]entities.Donation{{ID: "don-1", CampaignID: "camp-1", Amount: 1000}}, nil)

			got, err := uc.ListDonations(ctx, "camp-1", tt.requested)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 donation, got %d", len(got))
			}
		})
	}

	t.Run("unknown campaign", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockILedgerRepository(ctrl)
		uc := NewCampaignUseCase(repo)

		repo.EXPECT().GetCampaign(gomock.Any(), "missing").Return(entities.Campaign{}, nil)

		if _, err := uc.ListDonations(ctx, "missing", 10); !errors.Is(err, ErrCampaignNotFound) {
			t.Fatalf("expected ErrCampaignNotFound, got %v", err)
		}
	})
}
