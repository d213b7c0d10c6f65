package usecase

import (
	"context"
	"strings"

	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase/interfaces"
)

const (
	DefaultDonationPageSize = 10
	MaxDonationPageSize     = 100
)

// ICampaignUseCase exposes read-only campaign views. Campaigns are created and
// edited by the admin surface; raised amounts only move through settlement.
type ICampaignUseCase interface {
	GetCampaign(ctx context.Context, id string) (entities.Campaign, error)
	ListDonations(ctx context.Context, campaignID string, limit int) ([]entities.Donation, error)
}

type CampaignUseCase struct {
	repo interfaces.ILedgerRepository
}

var _ ICampaignUseCase = (*CampaignUseCase)(nil)

func NewCampaignUseCase(repo interfaces.ILedgerRepository) *CampaignUseCase {
	return &CampaignUseCase{repo: repo}
}

func (u *CampaignUseCase) GetCampaign(ctx context.Context, id string) (entities.Campaign, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Campaign{}, ErrInvalidCampaignID
	}
	c, err := u.repo.GetCampaign(ctx, id)
	if err != nil {
		return entities.Campaign{}, persistenceError("load campaign", err)
	}
	if c.ID == "" {
		return entities.Campaign{}, ErrCampaignNotFound
	}
	return c, nil
}

func (u *CampaignUseCase) ListDonations(ctx context.Context, campaignID string, limit int) ([]entities.Donation, error) {
	if _, err := u.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultDonationPageSize
	case limit > MaxDonationPageSize:
		limit = MaxDonationPageSize
	}
	donations, err := u.repo.ListDonationsByCampaign(ctx, strings.TrimSpace(campaignID), limit)
	if err != nil {
		return nil, persistenceError("list donations", err)
	}
	return donations, nil
}
