package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation = "23505"

	campaignColumns = `id, title, target_amount, raised_amount, status, created_at, updated_at`
	intentColumns   = `id, campaign_id, amount, phone_number, client_address,
		COALESCE(correlation_id, '') AS correlation_id, merchant_request_id, status,
		confirmed_amount, receipt_ref, failure_code, failure_message,
		created_at, updated_at, terminal_at`
	donationColumns = `id, intent_id, campaign_id, amount, receipt_ref, phone_number, transaction_date, completed_at`
)

// LedgerPostgresRepository persists the ledger in PostgreSQL.
//
// Intent transitions are optimistic compare-and-swap updates
// (UPDATE ... WHERE status IN (...)) checked through the affected-row count.
// Under READ COMMITTED a concurrent update of the same row waits for the first
// transaction and then re-evaluates the predicate, so only one delivery wins.
type LedgerPostgresRepository struct {
	db *sqlx.DB
}

var _ interfaces.ILedgerRepository = (*LedgerPostgresRepository)(nil)

func NewLedgerPostgresRepository(db *sqlx.DB) *LedgerPostgresRepository {
	return &LedgerPostgresRepository{db: db}
}

func (r *LedgerPostgresRepository) GetCampaign(ctx context.Context, id string) (entities.Campaign, error) {
	var c entities.Campaign
	err := r.db.GetContext(ctx, &c, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Campaign{}, nil
	}
	if err != nil {
		return entities.Campaign{}, err
	}
	return c, nil
}

func (r *LedgerPostgresRepository) ListDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]entities.Donation, error) {
	donations := make([]entities.Donation, 0)
	err := r.db.SelectContext(ctx, &donations, `
		SELECT `+donationColumns+`
		FROM donations
		WHERE campaign_id = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`, campaignID, limit)
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *LedgerPostgresRepository) CreateIntent(ctx context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_intents (id, campaign_id, amount, phone_number, client_address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, intent.ID, intent.CampaignID, intent.Amount, intent.PhoneNumber, intent.ClientAddress,
		string(intent.Status), intent.CreatedAt, intent.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.PaymentIntent{}, ErrIntentExists
		}
		return entities.PaymentIntent{}, err
	}
	intent.CorrelationID = ""
	return intent, nil
}

func (r *LedgerPostgresRepository) AssignCorrelation(ctx context.Context, intentID, correlationID, merchantRequestID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_intents
		SET correlation_id = $2, merchant_request_id = $3, updated_at = $4
		WHERE id = $1 AND status = 'PENDING' AND correlation_id IS NULL
	`, intentID, correlationID, merchantRequestID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrCorrelationInUse, correlationID)
		}
		return err
	}
	return expectOneRow(res, ErrIntentCorrelated)
}

func (r *LedgerPostgresRepository) FailInitiation(ctx context.Context, intentID, code, message string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_intents
		SET status = 'FAILED', failure_code = $2, failure_message = $3, terminal_at = $4, updated_at = $4
		WHERE id = $1 AND status = 'PENDING'
	`, intentID, code, message, at)
	if err != nil {
		return err
	}
	return expectOneRow(res, interfaces.ErrIntentAlreadySettled)
}

func (r *LedgerPostgresRepository) GetIntentByCorrelationID(ctx context.Context, correlationID string) (entities.PaymentIntent, error) {
	var intent entities.PaymentIntent
	err := r.db.GetContext(ctx, &intent, `SELECT `+intentColumns+` FROM payment_intents WHERE correlation_id = $1`, correlationID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.PaymentIntent{}, nil
	}
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	return intent, nil
}

func (r *LedgerPostgresRepository) CompleteIntent(ctx context.Context, s entities.Settlement) (donation entities.Donation, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entities.Donation{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE payment_intents
		SET status = 'COMPLETED', confirmed_amount = $2, receipt_ref = $3, terminal_at = $4, updated_at = $4
		WHERE id = $1 AND status IN ('PENDING', 'EXPIRED')
	`, s.IntentID, s.ConfirmedAmount, s.ReceiptRef, s.SettledAt)
	if err != nil {
		return entities.Donation{}, err
	}
	if err = expectOneRow(res, interfaces.ErrIntentAlreadySettled); err != nil {
		return entities.Donation{}, err
	}

	donation = entities.Donation{
		ID:              uuid.NewString(),
		IntentID:        s.IntentID,
		CampaignID:      s.CampaignID,
		Amount:          s.ConfirmedAmount,
		ReceiptRef:      s.ReceiptRef,
		PhoneNumber:     s.PhoneNumber,
		TransactionDate: s.TransactionDate,
		CompletedAt:     s.SettledAt,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO donations (`+donationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, donation.ID, donation.IntentID, donation.CampaignID, donation.Amount, donation.ReceiptRef,
		donation.PhoneNumber, donation.TransactionDate, donation.CompletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			err = fmt.Errorf("%w: %s", ErrReceiptRecorded, s.ReceiptRef)
		}
		return entities.Donation{}, err
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE campaigns
		SET raised_amount = raised_amount + $2, updated_at = $3
		WHERE id = $1
	`, s.CampaignID, s.ConfirmedAmount, s.SettledAt)
	if err != nil {
		return entities.Donation{}, err
	}
	if err = expectOneRow(res, ErrCampaignMissing); err != nil {
		return entities.Donation{}, err
	}

	if err = tx.Commit(); err != nil {
		return entities.Donation{}, err
	}
	return donation, nil
}

func (r *LedgerPostgresRepository) FailIntent(ctx context.Context, f entities.Failure) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_intents
		SET status = 'FAILED', failure_code = $2, failure_message = $3, terminal_at = $4, updated_at = $4
		WHERE correlation_id = $1 AND status IN ('PENDING', 'EXPIRED')
	`, f.CorrelationID, f.Code, f.Message, f.FailedAt)
	if err != nil {
		return err
	}
	return expectOneRow(res, interfaces.ErrIntentAlreadySettled)
}

func (r *LedgerPostgresRepository) ExpireStaleIntents(ctx context.Context, cutoff, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_intents
		SET status = 'EXPIRED', updated_at = $2
		WHERE status = 'PENDING' AND created_at < $1
	`, cutoff, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *LedgerPostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expectOneRow(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return none
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}
