package handlers

import (
	"net/http"

	response "harambee_billing/internal/adapter/http/dto/response"
	"harambee_billing/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PaymentStatusHandler struct {
	usecase usecase.IPaymentStatusUseCase
}

func NewPaymentStatusHandler(uc usecase.IPaymentStatusUseCase) *PaymentStatusHandler {
	return &PaymentStatusHandler{usecase: uc}
}

// GetPaymentStatus godoc
// @Summary  Payment status by gateway correlation id
// @Tags     payments
// @Produce  json
// @Param    correlation_id  path      string  true  "CheckoutRequestID"
// @Success  200             {object}  response.PaymentStatusResponse
// @Failure  404             {object}  pkg.HTTPError
// @Router   /v1/payments/{correlation_id}/status [get]
func (h *PaymentStatusHandler) GetPaymentStatus(c *gin.Context) {
	view, err := h.usecase.GetStatus(c.Request.Context(), c.Param("correlation_id"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentStatus(view))
}
