package repository

import (
	"context"
	"testing"

	"harambee_billing/internal/domain/entities"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedCampaign = entities.Campaign{ID: "proj_school_dev_001", Title: "Rural School Development", TargetAmount: 50000, RaisedAmount: 999}

type seedDynamo struct {
	DynamoDBAPI
	puts []*dynamodb.PutItemInput
	err  error
}

func (f *seedDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.err
}

func TestSeedCampaign_Postgres(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectExec(`INSERT INTO campaigns .* ON CONFLICT \(id\) DO NOTHING`).
		WithArgs("proj_school_dev_001", "Rural School Development", int64(50000), int64(0), "ACTIVE", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO campaigns`).WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.SeedCampaign(context.Background(), seedCampaign)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.SeedCampaign(context.Background(), seedCampaign)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCampaign_DynamoDB(t *testing.T) {
	fake := &seedDynamo{}
	repo := NewLedgerDynamoRepository(fake, LedgerTables{})

	created, err := repo.SeedCampaign(context.Background(), seedCampaign)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "attribute_not_exists(id)", aws.ToString(fake.puts[0].ConditionExpression))
	assert.Equal(t, &types.AttributeValueMemberN{Value: "0"}, fake.puts[0].Item["raised_amount"])

	fake.err = &types.ConditionalCheckFailedException{Message: aws.String("exists")}
	created, err = repo.SeedCampaign(context.Background(), seedCampaign)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedCampaign_Memory(t *testing.T) {
	repo := NewLedgerMemoryRepository()

	created, err := repo.SeedCampaign(context.Background(), seedCampaign)
	require.NoError(t, err)
	assert.True(t, created)

	created, _ = repo.SeedCampaign(context.Background(), seedCampaign)
	assert.False(t, created)

	c, _ := repo.GetCampaign(context.Background(), seedCampaign.ID)
	assert.Equal(t, int64(0), c.RaisedAmount)
	assert.True(t, c.AcceptingFunds())
}
