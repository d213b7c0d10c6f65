package repository

import (
	"context"
	"testing"
	"time"

	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo serves GetItem from fixed items and records writes.
type fakeDynamo struct {
	DynamoDBAPI

	items    map[string]map[string]types.AttributeValue
	txErr    error
	updates  []*dynamodb.UpdateItemInput
	updateFn func(*dynamodb.UpdateItemInput) error
	txInputs []*dynamodb.TransactWriteItemsInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	for _, v := range in.Key {
		key := aws.ToString(in.TableName) + "/" + v.(*types.AttributeValueMemberS).Value
		return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if f.updateFn != nil {
		return &dynamodb.UpdateItemOutput{}, f.updateFn(in)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.txInputs = append(f.txInputs, in)
	return &dynamodb.TransactWriteItemsOutput{}, f.txErr
}

func canceledAt(n, idx int) error {
	reasons := make([]types.CancellationReason, n)
	for i := range reasons {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
	}
	reasons[idx] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
	return &types.TransactionCanceledException{Message: aws.String("cancelled"), CancellationReasons: reasons}
}

func mustMarshal(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return av
}

func TestLedgerDynamoRepository_CompleteIntent(t *testing.T) {
	tests := []struct {
		name    string
		txErr   error
		wantErr error
	}{
		{name: "success", txErr: nil, wantErr: nil},
		{name: "intent no longer settleable", txErr: canceledAt(4, 0), wantErr: interfaces.ErrIntentAlreadySettled},
		{name: "donation already written", txErr: canceledAt(4, 1), wantErr: interfaces.ErrIntentAlreadySettled},
		{name: "receipt already recorded", txErr: canceledAt(4, 2), wantErr: ErrReceiptRecorded},
		{name: "campaign missing", txErr: canceledAt(4, 3), wantErr: ErrCampaignMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDynamo{txErr: tt.txErr}
			repo := NewLedgerDynamoRepository(fake, LedgerTables{})

			d, err := repo.CompleteIntent(context.Background(), testSettlement())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "intent-1", d.IntentID)

			require.Len(t, fake.txInputs, 1)
			items := fake.txInputs[0].TransactItems
			require.Len(t, items, 4)
			assert.Equal(t, "#status IN (:pending, :expired)", aws.ToString(items[0].Update.ConditionExpression))
			assert.Equal(t, defaultDonationsTableName, aws.ToString(items[1].Put.TableName))
			assert.Equal(t, defaultCorrelationsTableName, aws.ToString(items[2].Put.TableName))
			assert.Contains(t, aws.ToString(items[3].Update.UpdateExpression), "ADD raised_amount :amount")
		})
	}
}

func TestLedgerDynamoRepository_AssignCorrelation(t *testing.T) {
	fake := &fakeDynamo{txErr: canceledAt(2, 0)}
	repo := NewLedgerDynamoRepository(fake, LedgerTables{Correlations: "corr"})

	err := repo.AssignCorrelation(context.Background(), "intent-1", "ws_CO_123", "mr-1")
	assert.ErrorIs(t, err, ErrCorrelationInUse)
	assert.Equal(t, "corr", aws.ToString(fake.txInputs[0].TransactItems[0].Put.TableName))

	fake.txErr = canceledAt(2, 1)
	err = repo.AssignCorrelation(context.Background(), "intent-1", "ws_CO_123", "mr-1")
	assert.ErrorIs(t, err, ErrIntentCorrelated)
}

func TestLedgerDynamoRepository_GetIntentByCorrelationID(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 59, 0, 0, time.UTC)
	fake := &fakeDynamo{items: map[string]map[string]types.AttributeValue{
		defaultCorrelationsTableName + "/ws_CO_123": mustMarshal(t, correlationItem{CorrelationID: "ws_CO_123", IntentID: "intent-1"}),
		defaultIntentsTableName + "/intent-1": mustMarshal(t, toIntentItem(entities.PaymentIntent{
			ID: "intent-1", CampaignID: "camp-1", Amount: 1000, CorrelationID: "ws_CO_123",
			Status: entities.IntentStatusPending, CreatedAt: created, UpdatedAt: created,
		})),
	}}
	repo := NewLedgerDynamoRepository(fake, LedgerTables{})

	got, err := repo.GetIntentByCorrelationID(context.Background(), "ws_CO_123")
	require.NoError(t, err)
	assert.Equal(t, "intent-1", got.ID)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.Nil(t, got.TerminalAt)

	got, err = repo.GetIntentByCorrelationID(context.Background(), "ws_CO_999")
	require.NoError(t, err)
	assert.Empty(t, got.ID)
}

func TestLedgerDynamoRepository_FailTransitions(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("initiation failure only binds pending", func(t *testing.T) {
		fake := &fakeDynamo{}
		repo := NewLedgerDynamoRepository(fake, LedgerTables{})

		require.NoError(t, repo.FailInitiation(context.Background(), "intent-1", "GATEWAY_ERROR", "timeout", at))
		require.Len(t, fake.updates, 1)
		values := fake.updates[0].ExpressionAttributeValues
		assert.Contains(t, values, ":pending")
		assert.NotContains(t, values, ":expired")
	})

	t.Run("callback failure on settled intent", func(t *testing.T) {
		fake := &fakeDynamo{
			items: map[string]map[string]types.AttributeValue{
				defaultCorrelationsTableName + "/ws_CO_124": mustMarshal(t, correlationItem{CorrelationID: "ws_CO_124", IntentID: "intent-2"}),
			},
			updateFn: func(*dynamodb.UpdateItemInput) error {
				return &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
			},
		}
		repo := NewLedgerDynamoRepository(fake, LedgerTables{})

		err := repo.FailIntent(context.Background(), entities.Failure{CorrelationID: "ws_CO_124", Code: "1032", FailedAt: at})
		assert.ErrorIs(t, err, interfaces.ErrIntentAlreadySettled)
		assert.Equal(t, "#status IN (:pending, :expired)", aws.ToString(fake.updates[0].ConditionExpression))
	})

	t.Run("callback failure for unknown correlation", func(t *testing.T) {
		repo := NewLedgerDynamoRepository(&fakeDynamo{}, LedgerTables{})
		err := repo.FailIntent(context.Background(), entities.Failure{CorrelationID: "ws_CO_999", FailedAt: at})
		assert.ErrorIs(t, err, ErrIntentMissing)
	})
}

func TestDynamoTimeLayoutSortsLexicographically(t *testing.T) {
	a := formatDynamoTime(time.Date(2026, 3, 1, 10, 0, 0, 5, time.UTC))
	b := formatDynamoTime(time.Date(2026, 3, 1, 10, 0, 0, 500000000, time.UTC))
	assert.Less(t, a, b)
	assert.True(t, parseDynamoTime(b).Equal(time.Date(2026, 3, 1, 10, 0, 0, 500000000, time.UTC)))
}
