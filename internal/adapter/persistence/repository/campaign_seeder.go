package repository

import (
	"context"
	"errors"
	"time"

	"harambee_billing/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CampaignSeeder inserts a campaign unless one with the same id exists. It
// stands in for the admin surface in local and staging environments; existing
// campaigns are never overwritten.
type CampaignSeeder interface {
	SeedCampaign(ctx context.Context, c entities.Campaign) (bool, error)
}

var (
	_ CampaignSeeder = (*LedgerPostgresRepository)(nil)
	_ CampaignSeeder = (*LedgerDynamoRepository)(nil)
	_ CampaignSeeder = (*LedgerMemoryRepository)(nil)
)

func seedDefaults(c entities.Campaign) entities.Campaign {
	if c.Status == "" {
		c.Status = entities.CampaignStatusActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	c.RaisedAmount = 0
	return c
}

func (r *LedgerPostgresRepository) SeedCampaign(ctx context.Context, c entities.Campaign) (bool, error) {
	c = seedDefaults(c)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (`+campaignColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, c.ID, c.Title, c.TargetAmount, c.RaisedAmount, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *LedgerDynamoRepository) SeedCampaign(ctx context.Context, c entities.Campaign) (bool, error) {
	c = seedDefaults(c)
	item, err := attributevalue.MarshalMap(campaignItem{
		ID:           c.ID,
		Title:        c.Title,
		TargetAmount: c.TargetAmount,
		RaisedAmount: c.RaisedAmount,
		Status:       string(c.Status),
		CreatedAt:    formatDynamoTime(c.CreatedAt),
		UpdatedAt:    formatDynamoTime(c.UpdatedAt),
	})
	if err != nil {
		return false, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.Campaigns),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	var exists *types.ConditionalCheckFailedException
	if errors.As(err, &exists) {
		return false, nil
	}
	return err == nil, err
}

func (r *LedgerMemoryRepository) SeedCampaign(_ context.Context, c entities.Campaign) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.campaigns[c.ID]; exists {
		return false, nil
	}
	r.campaigns[c.ID] = seedDefaults(c)
	return true, nil
}
