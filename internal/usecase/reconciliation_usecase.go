package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase/interfaces"
	"harambee_billing/pkg"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMinAmount      int64 = 100
	DefaultMaxAmount      int64 = 1_000_000
	DefaultGatewayTimeout       = 15 * time.Second

	failureCodeGateway        = "GATEWAY_ERROR"
	failureCodeGatewayTimeout = "GATEWAY_TIMEOUT"
	failureCodeNotConfigured  = "GATEWAY_NOT_CONFIGURED"
	failureCodeCorrelation    = "CORRELATION_ERROR"
	unknownClientKey          = "unknown"
	maxFailureMessage         = 255
)

// IngestOutcome names how a callback was resolved.
type IngestOutcome string

const (
	OutcomeCompleted IngestOutcome = "completed"
	OutcomeFailed    IngestOutcome = "failed"
	OutcomeDuplicate IngestOutcome = "duplicate"
	OutcomeUnmatched IngestOutcome = "unmatched"
	OutcomeMalformed IngestOutcome = "malformed"
	OutcomeConflict  IngestOutcome = "conflict"
)

// InitiateCommand is the input of a donation payment initiation.
type InitiateCommand struct {
	CampaignID    string
	Amount        int64
	PhoneNumber   string
	ClientAddress string
}

type InitiateResult struct {
	IntentID        string
	CorrelationID   string
	Status          entities.IntentStatus
	CustomerMessage string
	Admission       interfaces.AdmissionDecision
}

type IngestResult struct {
	Outcome       IngestOutcome
	CorrelationID string
	IntentID      string
	Status        entities.IntentStatus
	DonationID    string
	Amount        int64
	Mismatch      bool
}

// IReconciliationUseCase is the only write path into payment intents,
// donations and campaign totals.
//
//   - Initiate: validate, admit, persist a PENDING intent, ask the gateway for a payment.
//   - Ingest: parse a raw gateway callback and Settle it.
//   - Settle: apply a parsed callback exactly once.
type IReconciliationUseCase interface {
	Initiate(ctx context.Context, cmd InitiateCommand) (InitiateResult, error)
	Ingest(ctx context.Context, raw []byte) (IngestResult, error)
	Settle(ctx context.Context, cb entities.CallbackResult) (IngestResult, error)
}

type ReconciliationOptions struct {
	MinAmount              int64
	MaxAmount              int64
	GatewayTimeout         time.Duration
	AccountReferencePrefix string
	Now                    func() time.Time
	NewID                  func() string
}

func (o ReconciliationOptions) withDefaults() ReconciliationOptions {
	if o.MinAmount <= 0 {
		o.MinAmount = DefaultMinAmount
	}
	if o.MaxAmount <= 0 {
		o.MaxAmount = DefaultMaxAmount
	}
	if o.GatewayTimeout <= 0 {
		o.GatewayTimeout = DefaultGatewayTimeout
	}
	if o.AccountReferencePrefix == "" {
		o.AccountReferencePrefix = "Campaign-"
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

type ReconciliationUseCase struct {
	repo    interfaces.ILedgerRepository
	gateway interfaces.IPaymentGateway
	guard   interfaces.IAdmissionGuard
	opts    ReconciliationOptions
	log     logrus.FieldLogger
}

var _ IReconciliationUseCase = (*ReconciliationUseCase)(nil)

func NewReconciliationUseCase(
	repo interfaces.ILedgerRepository,
	gateway interfaces.IPaymentGateway,
	guard interfaces.IAdmissionGuard,
	opts ReconciliationOptions,
	log logrus.FieldLogger,
) *ReconciliationUseCase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReconciliationUseCase{repo: repo, gateway: gateway, guard: guard, opts: opts.withDefaults(), log: log}
}

func (u *ReconciliationUseCase) Initiate(ctx context.Context, cmd InitiateCommand) (InitiateResult, error) {
	campaignID := strings.TrimSpace(cmd.CampaignID)
	log := u.log.WithFields(logrus.Fields{"campaign_id": campaignID, "amount": cmd.Amount, "client": cmd.ClientAddress})
	log.Debug("[payment][usecase] initiate start")

	if campaignID == "" {
		return InitiateResult{}, ErrInvalidCampaignID
	}
	if cmd.Amount < u.opts.MinAmount || cmd.Amount > u.opts.MaxAmount {
		return InitiateResult{}, fmt.Errorf("%w: must be between %d and %d", ErrInvalidAmount, u.opts.MinAmount, u.opts.MaxAmount)
	}
	phone, err := NormalizePhoneNumber(cmd.PhoneNumber)
	if err != nil {
		return InitiateResult{}, err
	}
	if u.gateway == nil {
		log.Error("[payment][usecase] gateway not configured")
		return InitiateResult{}, &GatewayError{Code: failureCodeNotConfigured, Message: "payment gateway not configured"}
	}
	if u.repo == nil {
		log.Error("[payment][usecase] ledger repository not configured")
		return InitiateResult{}, errors.New("ledger repository not configured")
	}

	campaign, err := u.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		log.WithError(err).Error("[payment][usecase] failed loading campaign")
		return InitiateResult{}, persistenceError("load campaign", err)
	}
	if campaign.ID == "" {
		return InitiateResult{}, ErrCampaignNotFound
	}
	if !campaign.AcceptingFunds() {
		log.WithField("status", campaign.Status).Info("[payment][usecase] campaign not accepting funds")
		return InitiateResult{}, ErrCampaignClosed
	}

	var admission interfaces.AdmissionDecision
	if u.guard != nil {
		admission, err = u.guard.Admit(ctx, admissionKey(cmd.ClientAddress))
		switch {
		case err != nil:
			log.WithError(err).Warn("[payment][usecase] admission guard unavailable; allowing request")
			admission = interfaces.AdmissionDecision{Allowed: true}
		case !admission.Allowed:
			log.WithField("retry_after", admission.RetryAfter).Warn("[payment][usecase] rate limit exceeded")
			return InitiateResult{Admission: admission}, &RateLimitedError{Limit: admission.Limit, RetryAfter: admission.RetryAfter}
		}
	}

	now := u.opts.Now()
	intent, err := u.repo.CreateIntent(ctx, entities.PaymentIntent{
		ID:            u.opts.NewID(),
		CampaignID:    campaign.ID,
		Amount:        cmd.Amount,
		PhoneNumber:   phone,
		ClientAddress: cmd.ClientAddress,
		Status:        entities.IntentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		log.WithError(err).Error("[payment][usecase] failed creating intent")
		return InitiateResult{}, persistenceError("create intent", err)
	}
	log = log.WithField("intent_id", intent.ID)

	// Once the gateway call is sent the charge may be in flight: the intent must
	// end with a correlation id or FAILED even if the caller goes away.
	detached := context.WithoutCancel(ctx)
	gwCtx, cancel := context.WithTimeout(detached, u.opts.GatewayTimeout)
	acceptance, gwErr := u.gateway.InitiatePayment(gwCtx, entities.PaymentRequest{
		IntentID:         intent.ID,
		Amount:           intent.Amount,
		PhoneNumber:      intent.PhoneNumber,
		AccountReference: u.opts.AccountReferencePrefix + campaign.ID,
		Description:      "Donation to " + campaign.Title,
	})
	cancel()
	if gwErr == nil && strings.TrimSpace(acceptance.CorrelationID) == "" {
		gwErr = &entities.GatewayRejection{Code: failureCodeGateway, Message: "gateway accepted request without a correlation id"}
	}

	if gwErr != nil {
		code, message := gatewayFailureDetail(gwErr)
		log.WithError(gwErr).WithField("failure_code", code).Warn("[payment][usecase] gateway initiation failed")
		if err := u.repo.FailInitiation(detached, intent.ID, code, message, u.opts.Now()); err != nil {
			log.WithError(err).Error("[payment][usecase] failed marking intent as failed")
			return InitiateResult{IntentID: intent.ID}, persistenceError("fail initiation", err)
		}
		return InitiateResult{IntentID: intent.ID, Status: entities.IntentStatusFailed, Admission: admission},
			&GatewayError{IntentID: intent.ID, Code: code, Message: message, Err: gwErr}
	}

	if err := u.repo.AssignCorrelation(detached, intent.ID, acceptance.CorrelationID, acceptance.MerchantRequestID); err != nil {
		return u.failUncorrelated(detached, log, intent.ID, acceptance, admission, err)
	}

	log.WithField("correlation_id", acceptance.CorrelationID).Info("[payment][usecase] initiate success")
	return InitiateResult{
		IntentID:        intent.ID,
		CorrelationID:   acceptance.CorrelationID,
		Status:          entities.IntentStatusPending,
		CustomerMessage: acceptance.CustomerMessage,
		Admission:       admission,
	}, nil
}

// failUncorrelated retires an intent whose gateway request was accepted but
// whose correlation id could not be stored. The gateway request is orphaned:
// its callback will arrive unmatched.
func (u *ReconciliationUseCase) failUncorrelated(
	ctx context.Context,
	log logrus.FieldLogger,
	intentID string,
	acceptance entities.GatewayAcceptance,
	admission interfaces.AdmissionDecision,
	cause error,
) (InitiateResult, error) {
	log = log.WithFields(logrus.Fields{
		"correlation_id":      acceptance.CorrelationID,
		"merchant_request_id": acceptance.MerchantRequestID,
	})
	log.WithError(cause).Error("[payment][usecase] failed storing correlation id; gateway request orphaned")

	message := pkg.Truncate(cause.Error(), maxFailureMessage)
	if err := u.repo.FailInitiation(ctx, intentID, failureCodeCorrelation, message, u.opts.Now()); err != nil {
		log.WithError(err).Error("[payment][usecase] failed marking uncorrelated intent as failed")
		return InitiateResult{IntentID: intentID}, persistenceError("assign correlation", cause)
	}

	result := InitiateResult{IntentID: intentID, Status: entities.IntentStatusFailed, Admission: admission}
	if errors.Is(cause, interfaces.ErrLedgerConflict) {
		return result, &GatewayError{IntentID: intentID, Code: failureCodeCorrelation, Message: message, Err: cause}
	}
	return result, persistenceError("assign correlation", cause)
}

func (u *ReconciliationUseCase) Ingest(ctx context.Context, raw []byte) (IngestResult, error) {
	cb, err := ParseCallback(raw)
	if err != nil {
		u.log.WithError(err).WithField("payload_len", len(raw)).Warn("[payment][callback] rejecting malformed callback")
		return IngestResult{Outcome: OutcomeMalformed}, err
	}
	return u.Settle(ctx, cb)
}

func (u *ReconciliationUseCase) Settle(ctx context.Context, cb entities.CallbackResult) (IngestResult, error) {
	// Settlement runs to completion or fails atomically.
	ctx = context.WithoutCancel(ctx)
	log := u.log.WithFields(logrus.Fields{"correlation_id": cb.CorrelationID, "result_code": cb.ResultCode})

	if strings.TrimSpace(cb.CorrelationID) == "" {
		return IngestResult{Outcome: OutcomeMalformed}, fmt.Errorf("%w: missing correlation id", ErrMalformedCallback)
	}
	if u.repo == nil {
		return IngestResult{}, errors.New("ledger repository not configured")
	}

	intent, err := u.repo.GetIntentByCorrelationID(ctx, cb.CorrelationID)
	if err != nil {
		log.WithError(err).Error("[payment][callback] failed loading intent")
		return IngestResult{}, persistenceError("load intent", err)
	}
	if intent.ID == "" {
		log.Warn("[payment][callback] unmatched callback; operator attention required")
		return IngestResult{Outcome: OutcomeUnmatched, CorrelationID: cb.CorrelationID},
			fmt.Errorf("%w: correlation_id=%s", ErrUnmatchedCallback, cb.CorrelationID)
	}
	log = log.WithField("intent_id", intent.ID)

	if intent.Status.Terminal() {
		log.WithField("status", intent.Status).Info("[payment][callback] duplicate delivery ignored")
		return duplicateResult(intent), nil
	}

	if cb.Succeeded() {
		return u.complete(ctx, log, intent, cb)
	}
	return u.fail(ctx, log, intent, cb)
}

func (u *ReconciliationUseCase) complete(ctx context.Context, log logrus.FieldLogger, intent entities.PaymentIntent, cb entities.CallbackResult) (IngestResult, error) {
	phone := intent.PhoneNumber
	if cb.PhoneNumber != "" {
		phone = cb.PhoneNumber
	}

	donation, err := u.repo.CompleteIntent(ctx, entities.Settlement{
		IntentID:        intent.ID,
		CorrelationID:   cb.CorrelationID,
		CampaignID:      intent.CampaignID,
		ConfirmedAmount: cb.Amount,
		ReceiptRef:      cb.ReceiptRef,
		PhoneNumber:     phone,
		TransactionDate: cb.TransactionDate,
		SettledAt:       u.opts.Now(),
	})
	if errors.Is(err, interfaces.ErrIntentAlreadySettled) {
		return u.lostRace(ctx, log, cb.CorrelationID)
	}
	if errors.Is(err, interfaces.ErrLedgerConflict) {
		log.WithError(err).WithField("receipt", cb.ReceiptRef).
			Error("[payment][callback] ledger refused settlement; operator attention required")
		return IngestResult{
			Outcome:       OutcomeConflict,
			CorrelationID: cb.CorrelationID,
			IntentID:      intent.ID,
			Status:        intent.Status,
		}, fmt.Errorf("%w: %v", ErrSettlementConflict, err)
	}
	if err != nil {
		log.WithError(err).Error("[payment][callback] settlement transaction failed")
		return IngestResult{}, persistenceError("complete intent", err)
	}

	result := IngestResult{
		Outcome:       OutcomeCompleted,
		CorrelationID: cb.CorrelationID,
		IntentID:      intent.ID,
		Status:        entities.IntentStatusCompleted,
		DonationID:    donation.ID,
		Amount:        donation.Amount,
	}
	log.WithFields(logrus.Fields{"donation_id": donation.ID, "amount": donation.Amount, "receipt": cb.ReceiptRef}).
		Info("[payment][callback] payment completed")

	if cb.Amount != intent.Amount {
		result.Mismatch = true
		log.WithFields(logrus.Fields{"requested": intent.Amount, "confirmed": cb.Amount}).
			Error("[payment][callback] confirmed amount differs from requested; flagged for audit")
		return result, &ReconciliationMismatchError{CorrelationID: cb.CorrelationID, RequestedAmount: intent.Amount, ConfirmedAmount: cb.Amount}
	}
	return result, nil
}

func (u *ReconciliationUseCase) fail(ctx context.Context, log logrus.FieldLogger, intent entities.PaymentIntent, cb entities.CallbackResult) (IngestResult, error) {
	err := u.repo.FailIntent(ctx, entities.Failure{
		CorrelationID: cb.CorrelationID,
		Code:          fmt.Sprintf("%d", cb.ResultCode),
		Message:       cb.ResultDesc,
		FailedAt:      u.opts.Now(),
	})
	if errors.Is(err, interfaces.ErrIntentAlreadySettled) {
		return u.lostRace(ctx, log, cb.CorrelationID)
	}
	if err != nil {
		log.WithError(err).Error("[payment][callback] failure transition failed")
		return IngestResult{}, persistenceError("fail intent", err)
	}

	log.WithField("reason", cb.ResultDesc).Info("[payment][callback] payment failed")
	return IngestResult{
		Outcome:       OutcomeFailed,
		CorrelationID: cb.CorrelationID,
		IntentID:      intent.ID,
		Status:        entities.IntentStatusFailed,
	}, nil
}

// lostRace reports the state committed by the concurrent delivery that won.
func (u *ReconciliationUseCase) lostRace(ctx context.Context, log logrus.FieldLogger, correlationID string) (IngestResult, error) {
	current, err := u.repo.GetIntentByCorrelationID(ctx, correlationID)
	if err != nil {
		return IngestResult{}, persistenceError("reload intent", err)
	}
	log.WithField("status", current.Status).Info("[payment][callback] concurrent delivery already settled intent")
	return duplicateResult(current), nil
}

func duplicateResult(intent entities.PaymentIntent) IngestResult {
	return IngestResult{
		Outcome:       OutcomeDuplicate,
		CorrelationID: intent.CorrelationID,
		IntentID:      intent.ID,
		Status:        intent.Status,
	}
}

func gatewayFailureDetail(err error) (code, message string) {
	var rejection *entities.GatewayRejection
	switch {
	case errors.As(err, &rejection):
		code, message = rejection.Code, rejection.Message
	case errors.Is(err, context.DeadlineExceeded):
		code, message = failureCodeGatewayTimeout, "gateway did not answer in time"
	default:
		code, message = failureCodeGateway, err.Error()
	}
	if code == "" {
		code = failureCodeGateway
	}
	return code, pkg.Truncate(message, maxFailureMessage)
}

func admissionKey(clientAddress string) string {
	if k := strings.TrimSpace(clientAddress); k != "" {
		return k
	}
	return unknownClientKey
}
