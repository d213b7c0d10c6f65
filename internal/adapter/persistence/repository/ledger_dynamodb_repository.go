package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const (
	defaultCampaignsTableName    = "campaigns"
	defaultIntentsTableName      = "payment_intents"
	defaultCorrelationsTableName = "payment_correlations"
	defaultDonationsTableName    = "donations"
	donationsCampaignIDIndex     = "campaign_id-index"

	receiptKeyPrefix = "receipt#"

	// Fixed width so timestamps compare lexicographically in filter expressions.
	dynamoTimeLayout = "2006-01-02T15:04:05.000000000Z"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the ledger.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// LedgerTables names the DynamoDB tables backing the ledger. Empty names
// fall back to the defaults.
type LedgerTables struct {
	Campaigns    string
	Intents      string
	Correlations string
	Donations    string
}

func (t LedgerTables) withDefaults() LedgerTables {
	return LedgerTables{
		Campaigns:    orDefault(t.Campaigns, defaultCampaignsTableName),
		Intents:      orDefault(t.Intents, defaultIntentsTableName),
		Correlations: orDefault(t.Correlations, defaultCorrelationsTableName),
		Donations:    orDefault(t.Donations, defaultDonationsTableName),
	}
}

type campaignItem struct {
	ID           string `dynamodbav:"id"`
	Title        string `dynamodbav:"title"`
	TargetAmount int64  `dynamodbav:"target_amount"`
	RaisedAmount int64  `dynamodbav:"raised_amount"`
	Status       string `dynamodbav:"status"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

type intentItem struct {
	ID                string `dynamodbav:"id"`
	CampaignID        string `dynamodbav:"campaign_id"`
	Amount            int64  `dynamodbav:"amount"`
	PhoneNumber       string `dynamodbav:"phone_number"`
	ClientAddress     string `dynamodbav:"client_address,omitempty"`
	CorrelationID     string `dynamodbav:"correlation_id,omitempty"`
	MerchantRequestID string `dynamodbav:"merchant_request_id,omitempty"`
	Status            string `dynamodbav:"status"`
	ConfirmedAmount   int64  `dynamodbav:"confirmed_amount,omitempty"`
	ReceiptRef        string `dynamodbav:"receipt_ref,omitempty"`
	FailureCode       string `dynamodbav:"failure_code,omitempty"`
	FailureMessage    string `dynamodbav:"failure_message,omitempty"`
	CreatedAt         string `dynamodbav:"created_at"`
	UpdatedAt         string `dynamodbav:"updated_at"`
	TerminalAt        string `dynamodbav:"terminal_at,omitempty"`
}

// correlationItem maps a gateway correlation id (or a receipt guard key) to its intent.
type correlationItem struct {
	CorrelationID string `dynamodbav:"correlation_id"`
	IntentID      string `dynamodbav:"intent_id"`
}

type donationItem struct {
	IntentID        string `dynamodbav:"intent_id"`
	ID              string `dynamodbav:"id"`
	CampaignID      string `dynamodbav:"campaign_id"`
	Amount          int64  `dynamodbav:"amount"`
	ReceiptRef      string `dynamodbav:"receipt_ref"`
	PhoneNumber     string `dynamodbav:"phone_number,omitempty"`
	TransactionDate string `dynamodbav:"transaction_date,omitempty"`
	CompletedAt     string `dynamodbav:"completed_at"`
}

// LedgerDynamoRepository persists the ledger in DynamoDB.
//
// Table requirements:
//   - campaigns: PK id (string)
//   - payment_intents: PK id (string)
//   - payment_correlations: PK correlation_id (string); also holds receipt guard keys
//   - donations: PK intent_id (string), GSI campaign_id-index (PK campaign_id, SK completed_at)
//
// Correlation ids live in their own table so that the lookup is a strongly
// consistent GetItem and uniqueness is a conditional put.
type LedgerDynamoRepository struct {
	ddb    DynamoDBAPI
	tables LedgerTables
}

var _ interfaces.ILedgerRepository = (*LedgerDynamoRepository)(nil)

func NewLedgerDynamoRepository(ddb DynamoDBAPI, tables LedgerTables) *LedgerDynamoRepository {
	return &LedgerDynamoRepository{ddb: ddb, tables: tables.withDefaults()}
}

func (r *LedgerDynamoRepository) GetCampaign(ctx context.Context, id string) (entities.Campaign, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tables.Campaigns),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Campaign{}, err
	}
	if len(out.Item) == 0 {
		return entities.Campaign{}, nil
	}

	var it campaignItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Campaign{}, err
	}
	return fromCampaignItem(it), nil
}

func (r *LedgerDynamoRepository) ListDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]entities.Donation, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tables.Donations),
		IndexName:              aws.String(donationsCampaignIDIndex),
		KeyConditionExpression: aws.String("campaign_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: campaignID},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}
	out, err := r.ddb.Query(ctx, in)
	if err != nil {
		return nil, err
	}

	items := make([]entities.Donation, 0, len(out.Items))
	for _, raw := range out.Items {
		var it donationItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromDonationItem(it))
	}
	return items, nil
}

func (r *LedgerDynamoRepository) CreateIntent(ctx context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error) {
	intent.CorrelationID = ""
	av, err := attributevalue.MarshalMap(toIntentItem(intent))
	if err != nil {
		return entities.PaymentIntent{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.Intents),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.PaymentIntent{}, ErrIntentExists
		}
		return entities.PaymentIntent{}, err
	}
	return intent, nil
}

func (r *LedgerDynamoRepository) AssignCorrelation(ctx context.Context, intentID, correlationID, merchantRequestID string) error {
	guard, err := attributevalue.MarshalMap(correlationItem{CorrelationID: correlationID, IntentID: intentID})
	if err != nil {
		return err
	}
	now := formatDynamoTime(time.Now())

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tables.Correlations),
				Item:                guard,
				ConditionExpression: aws.String("attribute_not_exists(correlation_id)"),
			}},
			{Update: &types.Update{
				TableName:           aws.String(r.tables.Intents),
				Key:                 stringKey("id", intentID),
				UpdateExpression:    aws.String("SET correlation_id = :cid, merchant_request_id = :mid, updated_at = :now"),
				ConditionExpression: aws.String("attribute_exists(id) AND #status = :pending AND attribute_not_exists(correlation_id)"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":cid":     &types.AttributeValueMemberS{Value: correlationID},
					":mid":     &types.AttributeValueMemberS{Value: merchantRequestID},
					":now":     &types.AttributeValueMemberS{Value: now},
					":pending": &types.AttributeValueMemberS{Value: string(entities.IntentStatusPending)},
				},
			}},
		},
	})
	return mapCancellation(err, ErrCorrelationInUse, ErrIntentCorrelated)
}

func (r *LedgerDynamoRepository) FailInitiation(ctx context.Context, intentID, code, message string, at time.Time) error {
	return r.markFailed(ctx, intentID, code, message, at, "#status = :pending", entities.IntentStatusPending)
}

func (r *LedgerDynamoRepository) GetIntentByCorrelationID(ctx context.Context, correlationID string) (entities.PaymentIntent, error) {
	intentID, err := r.intentIDFor(ctx, correlationID)
	if err != nil || intentID == "" {
		return entities.PaymentIntent{}, err
	}
	return r.getIntent(ctx, intentID)
}

func (r *LedgerDynamoRepository) CompleteIntent(ctx context.Context, s entities.Settlement) (entities.Donation, error) {
	donation := entities.Donation{
		ID:              uuid.NewString(),
		IntentID:        s.IntentID,
		CampaignID:      s.CampaignID,
		Amount:          s.ConfirmedAmount,
		ReceiptRef:      s.ReceiptRef,
		PhoneNumber:     s.PhoneNumber,
		TransactionDate: s.TransactionDate,
		CompletedAt:     s.SettledAt,
	}
	donationAV, err := attributevalue.MarshalMap(toDonationItem(donation))
	if err != nil {
		return entities.Donation{}, err
	}
	receiptAV, err := attributevalue.MarshalMap(correlationItem{CorrelationID: receiptKeyPrefix + s.ReceiptRef, IntentID: s.IntentID})
	if err != nil {
		return entities.Donation{}, err
	}
	at := formatDynamoTime(s.SettledAt)
	amount := &types.AttributeValueMemberN{Value: strconv.FormatInt(s.ConfirmedAmount, 10)}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:           aws.String(r.tables.Intents),
				Key:                 stringKey("id", s.IntentID),
				UpdateExpression:    aws.String("SET #status = :completed, confirmed_amount = :amount, receipt_ref = :receipt, terminal_at = :at, updated_at = :at"),
				ConditionExpression: aws.String("#status IN (:pending, :expired)"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":completed": &types.AttributeValueMemberS{Value: string(entities.IntentStatusCompleted)},
					":pending":   &types.AttributeValueMemberS{Value: string(entities.IntentStatusPending)},
					":expired":   &types.AttributeValueMemberS{Value: string(entities.IntentStatusExpired)},
					":amount":    amount,
					":receipt":   &types.AttributeValueMemberS{Value: s.ReceiptRef},
					":at":        &types.AttributeValueMemberS{Value: at},
				},
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tables.Donations),
				Item:                donationAV,
				ConditionExpression: aws.String("attribute_not_exists(intent_id)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tables.Correlations),
				Item:                receiptAV,
				ConditionExpression: aws.String("attribute_not_exists(correlation_id)"),
			}},
			{Update: &types.Update{
				TableName:           aws.String(r.tables.Campaigns),
				Key:                 stringKey("id", s.CampaignID),
				UpdateExpression:    aws.String("ADD raised_amount :amount SET updated_at = :at"),
				ConditionExpression: aws.String("attribute_exists(id)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":amount": amount,
					":at":     &types.AttributeValueMemberS{Value: at},
				},
			}},
		},
	})
	if err != nil {
		receiptErr := fmt.Errorf("%w: %s", ErrReceiptRecorded, s.ReceiptRef)
		return entities.Donation{}, mapCancellation(err,
			interfaces.ErrIntentAlreadySettled, interfaces.ErrIntentAlreadySettled, receiptErr, ErrCampaignMissing)
	}
	return donation, nil
}

func (r *LedgerDynamoRepository) FailIntent(ctx context.Context, f entities.Failure) error {
	intentID, err := r.intentIDFor(ctx, f.CorrelationID)
	if err != nil {
		return err
	}
	if intentID == "" {
		return ErrIntentMissing
	}
	return r.markFailed(ctx, intentID, f.Code, f.Message, f.FailedAt, "#status IN (:pending, :expired)",
		entities.IntentStatusPending, entities.IntentStatusExpired)
}

// ExpireStaleIntents scans for stale PENDING intents and moves each with its
// own conditional update, so a callback settling concurrently always wins.
func (r *LedgerDynamoRepository) ExpireStaleIntents(ctx context.Context, cutoff, at time.Time) (int64, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:            aws.String(r.tables.Intents),
		FilterExpression:     aws.String("#status = :pending AND created_at < :cutoff"),
		ProjectionExpression: aws.String("id"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(entities.IntentStatusPending)},
			":cutoff":  &types.AttributeValueMemberS{Value: formatDynamoTime(cutoff)},
		},
	})

	now := formatDynamoTime(at)
	var n int64
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return n, err
		}
		for _, raw := range page.Items {
			var it struct {
				ID string `dynamodbav:"id"`
			}
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return n, err
			}
			_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
				TableName:           aws.String(r.tables.Intents),
				Key:                 stringKey("id", it.ID),
				UpdateExpression:    aws.String("SET #status = :expired, updated_at = :now"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":expired": &types.AttributeValueMemberS{Value: string(entities.IntentStatusExpired)},
					":pending": &types.AttributeValueMemberS{Value: string(entities.IntentStatusPending)},
					":now":     &types.AttributeValueMemberS{Value: now},
				},
			})
			if isConditionalCheckFailed(err) {
				continue
			}
			if err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func (r *LedgerDynamoRepository) Ping(ctx context.Context) error {
	_, err := r.ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tables.Intents)})
	return err
}

// markFailed moves an intent to FAILED when condition holds. from lists the
// statuses the condition refers to as :pending / :expired.
func (r *LedgerDynamoRepository) markFailed(ctx context.Context, intentID, code, message string, at time.Time, condition string, from ...entities.IntentStatus) error {
	ts := formatDynamoTime(at)
	values := map[string]types.AttributeValue{
		":failed": &types.AttributeValueMemberS{Value: string(entities.IntentStatusFailed)},
		":code":   &types.AttributeValueMemberS{Value: code},
		":msg":    &types.AttributeValueMemberS{Value: message},
		":at":     &types.AttributeValueMemberS{Value: ts},
	}
	for _, st := range from {
		values[":"+strings.ToLower(string(st))] = &types.AttributeValueMemberS{Value: string(st)}
	}
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tables.Intents),
		Key:                 stringKey("id", intentID),
		UpdateExpression:    aws.String("SET #status = :failed, failure_code = :code, failure_message = :msg, terminal_at = :at, updated_at = :at"),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: values,
	})
	if isConditionalCheckFailed(err) {
		return interfaces.ErrIntentAlreadySettled
	}
	return err
}

func (r *LedgerDynamoRepository) intentIDFor(ctx context.Context, correlationID string) (string, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tables.Correlations),
		Key:            stringKey("correlation_id", correlationID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if len(out.Item) == 0 {
		return "", nil
	}
	var it correlationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return "", err
	}
	return it.IntentID, nil
}

func (r *LedgerDynamoRepository) getIntent(ctx context.Context, id string) (entities.PaymentIntent, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tables.Intents),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentIntent{}, nil
	}
	var it intentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentIntent{}, err
	}
	return fromIntentItem(it), nil
}

func stringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// mapCancellation translates a cancelled transaction into the error registered
// for the first item whose condition failed. byItem follows TransactItems order.
func mapCancellation(err error, byItem ...error) error {
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return err
	}
	for i, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) != "ConditionalCheckFailed" || i >= len(byItem) {
			continue
		}
		return byItem[i]
	}
	return err
}

func formatDynamoTime(t time.Time) string {
	return t.UTC().Format(dynamoTimeLayout)
}

func parseDynamoTime(s string) time.Time {
	t, _ := time.Parse(dynamoTimeLayout, s)
	return t
}

func parseDynamoTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseDynamoTime(s)
	return &t
}

func formatDynamoTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDynamoTime(*t)
}

func fromCampaignItem(it campaignItem) entities.Campaign {
	return entities.Campaign{
		ID:           it.ID,
		Title:        it.Title,
		TargetAmount: it.TargetAmount,
		RaisedAmount: it.RaisedAmount,
		Status:       entities.CampaignStatus(it.Status),
		CreatedAt:    parseDynamoTime(it.CreatedAt),
		UpdatedAt:    parseDynamoTime(it.UpdatedAt),
	}
}

func toIntentItem(p entities.PaymentIntent) intentItem {
	return intentItem{
		ID:                p.ID,
		CampaignID:        p.CampaignID,
		Amount:            p.Amount,
		PhoneNumber:       p.PhoneNumber,
		ClientAddress:     p.ClientAddress,
		CorrelationID:     p.CorrelationID,
		MerchantRequestID: p.MerchantRequestID,
		Status:            string(p.Status),
		ConfirmedAmount:   p.ConfirmedAmount,
		ReceiptRef:        p.ReceiptRef,
		FailureCode:       p.FailureCode,
		FailureMessage:    p.FailureMessage,
		CreatedAt:         formatDynamoTime(p.CreatedAt),
		UpdatedAt:         formatDynamoTime(p.UpdatedAt),
		TerminalAt:        formatDynamoTimePtr(p.TerminalAt),
	}
}

func fromIntentItem(it intentItem) entities.PaymentIntent {
	return entities.PaymentIntent{
		ID:                it.ID,
		CampaignID:        it.CampaignID,
		Amount:            it.Amount,
		PhoneNumber:       it.PhoneNumber,
		ClientAddress:     it.ClientAddress,
		CorrelationID:     it.CorrelationID,
		MerchantRequestID: it.MerchantRequestID,
		Status:            entities.IntentStatus(it.Status),
		ConfirmedAmount:   it.ConfirmedAmount,
		ReceiptRef:        it.ReceiptRef,
		FailureCode:       it.FailureCode,
		FailureMessage:    it.FailureMessage,
		CreatedAt:         parseDynamoTime(it.CreatedAt),
		UpdatedAt:         parseDynamoTime(it.UpdatedAt),
		TerminalAt:        parseDynamoTimePtr(it.TerminalAt),
	}
}

func toDonationItem(d entities.Donation) donationItem {
	return donationItem{
		IntentID:        d.IntentID,
		ID:              d.ID,
		CampaignID:      d.CampaignID,
		Amount:          d.Amount,
		ReceiptRef:      d.ReceiptRef,
		PhoneNumber:     d.PhoneNumber,
		TransactionDate: formatDynamoTimePtr(d.TransactionDate),
		CompletedAt:     formatDynamoTime(d.CompletedAt),
	}
}

func fromDonationItem(it donationItem) entities.Donation {
	return entities.Donation{
		ID:              it.ID,
		IntentID:        it.IntentID,
		CampaignID:      it.CampaignID,
		Amount:          it.Amount,
		ReceiptRef:      it.ReceiptRef,
		PhoneNumber:     it.PhoneNumber,
		TransactionDate: parseDynamoTimePtr(it.TransactionDate),
		CompletedAt:     parseDynamoTime(it.CompletedAt),
	}
}
