package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	request "harambee_billing/internal/adapter/http/dto/request"
	response "harambee_billing/internal/adapter/http/dto/response"
	"harambee_billing/internal/infrastructure/metrics"
	"harambee_billing/internal/usecase"
	"harambee_billing/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DonationHandler starts donation payments.
type DonationHandler struct {
	usecase usecase.IReconciliationUseCase
	log     logrus.FieldLogger
}

func NewDonationHandler(uc usecase.IReconciliationUseCase, log logrus.FieldLogger) *DonationHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DonationHandler{usecase: uc, log: log}
}

// InitiateDonation godoc
// @Summary      Start a donation payment
// @Description  Creates a payment intent and sends an STK push to the donor's phone.
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        body  body      request.DonationInitiateRequest  true  "Donation"
// @Success      202   {object}  response.DonationInitiateResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Failure      429   {object}  pkg.HTTPError
// @Failure      502   {object}  pkg.HTTPError
// @Router       /v1/donations [post]
func (h *DonationHandler) InitiateDonation(c *gin.Context) {
	var payload request.DonationInitiateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		metrics.RecordInitiation("invalid")
		c.JSON(errInvalidDonationPayload.HTTPStatus, errInvalidDonationPayload.ToHTTPError())
		return
	}
	amount, err := payload.ResolveAmount()
	if err != nil {
		metrics.RecordInitiation("invalid")
		appErr := mapPaymentError(usecase.ErrInvalidAmount)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	log := h.log.WithFields(logrus.Fields{"campaign_id": payload.ResolveCampaignID(), "client": c.ClientIP()})
	log.Debug("[payment][handler] initiate start")

	res, err := h.usecase.Initiate(c.Request.Context(), usecase.InitiateCommand{
		CampaignID:    payload.ResolveCampaignID(),
		Amount:        amount,
		PhoneNumber:   payload.PhoneNumber,
		ClientAddress: c.ClientIP(),
	})
	setRateLimitHeaders(c, res.Admission)
	if err != nil {
		var limited *usecase.RateLimitedError
		if errors.As(err, &limited) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(limited.RetryAfter.Seconds()))))
		}
		appErr := mapPaymentError(err)
		metrics.RecordInitiation(initiationResult(err))
		log.WithError(err).WithField("status", appErr.HTTPStatus).Info("[payment][handler] initiate rejected")
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	metrics.RecordInitiation("accepted")
	log.WithFields(logrus.Fields{"intent_id": res.IntentID, "correlation_id": res.CorrelationID}).
		Info("[payment][handler] initiate accepted")
	c.JSON(http.StatusAccepted, response.FromInitiateResult(res))
}

func setRateLimitHeaders(c *gin.Context, d interfaces.AdmissionDecision) {
	if d.Limit <= 0 {
		return
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	if !d.ResetAt.IsZero() {
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
	}
}

func initiationResult(err error) string {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return "invalid"
	case errors.Is(err, usecase.ErrCampaignNotFound), errors.Is(err, usecase.ErrCampaignClosed):
		return "rejected"
	case errors.Is(err, usecase.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, usecase.ErrGateway):
		return "gateway_error"
	default:
		return "error"
	}
}
