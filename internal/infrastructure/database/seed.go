package database

import "harambee_billing/internal/domain/entities"

// SampleCampaigns are the demo campaigns loaded by `seed` and by the memory backend.
func SampleCampaigns() []entities.Campaign {
	return []entities.Campaign{
		{ID: "proj_school_dev_001", Title: "Rural School Development", TargetAmount: 50000, Status: entities.CampaignStatusActive},
		{ID: "proj_health_center_001", Title: "Community Health Center", TargetAmount: 75000, Status: entities.CampaignStatusActive},
		{ID: "proj_farming_init_001", Title: "Sustainable Farming Initiative", TargetAmount: 25000, Status: entities.CampaignStatusActive},
	}
}
