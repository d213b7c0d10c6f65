package handlers

import (
	"errors"
	"net/http"

	response "harambee_billing/internal/adapter/http/dto/response"
	"harambee_billing/internal/infrastructure/metrics"
	"harambee_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxCallbackBody = 64 << 10

// CallbackHandler is the gateway's webhook endpoint.
//
// Every delivery is acknowledged with ResultCode 0 unless a ledger write failed
// transiently, in which case the gateway is asked to redeliver. Ingest is
// idempotent, so redelivery is always safe. Settlement conflicts are permanent
// and are acknowledged, then logged for the operator.
type CallbackHandler struct {
	usecase usecase.IReconciliationUseCase
	log     logrus.FieldLogger
}

func NewCallbackHandler(uc usecase.IReconciliationUseCase, log logrus.FieldLogger) *CallbackHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CallbackHandler{usecase: uc, log: log}
}

// ReceiveCallback godoc
// @Summary  M-Pesa STK push callback
// @Tags     callbacks
// @Accept   json
// @Produce  json
// @Success  200  {object}  response.CallbackAck
// @Failure  403  {object}  pkg.HTTPError
// @Failure  500  {object}  response.CallbackAck
// @Router   /v1/mpesa/callback [post]
func (h *CallbackHandler) ReceiveCallback(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCallbackBody)
	raw, err := c.GetRawData()
	if err != nil {
		h.log.WithError(err).Warn("[payment][callback] unreadable callback body")
		metrics.RecordCallback(string(usecase.OutcomeMalformed))
		c.JSON(http.StatusOK, response.CallbackAccepted)
		return
	}

	res, err := h.usecase.Ingest(c.Request.Context(), raw)
	if errors.Is(err, usecase.ErrPersistence) {
		metrics.RecordCallback("error")
		h.log.WithError(err).Error("[payment][callback] ledger write failed; asking gateway to redeliver")
		c.JSON(http.StatusInternalServerError, response.CallbackRejected)
		return
	}
	if errors.Is(err, usecase.ErrSettlementConflict) {
		metrics.RecordCallback(string(usecase.OutcomeConflict))
		h.log.WithError(err).WithField("correlation_id", res.CorrelationID).
			Error("[payment][callback] settlement conflict acknowledged; operator attention required")
		c.JSON(http.StatusOK, response.CallbackAccepted)
		return
	}

	outcome := string(res.Outcome)
	if outcome == "" {
		outcome = "error"
	}
	metrics.RecordCallback(outcome)
	if res.Mismatch || errors.Is(err, usecase.ErrReconciliationMismatch) {
		metrics.RecordMismatch()
	}
	if err != nil {
		h.log.WithError(err).WithField("outcome", outcome).Warn("[payment][callback] callback acknowledged without settlement")
	}
	c.JSON(http.StatusOK, response.CallbackAccepted)
}
