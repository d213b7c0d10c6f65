package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"harambee_billing/internal/adapter/http/handlers/mocks"
	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestPaymentStatusHandler_GetPaymentStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentStatusUseCase(ctrl)
		h := NewPaymentStatusHandler(uc)

		r := gin.New()
		r.GET("/v1/payments/:correlation_id/status", h.GetPaymentStatus)

		uc.EXPECT().GetStatus(gomock.Any(), "ws_CO_999").Return(usecase.PaymentStatusView{}, usecase.ErrIntentNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/ws_CO_999/status", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentStatusUseCase(ctrl)
		h := NewPaymentStatusHandler(uc)

		r := gin.New()
		r.GET("/v1/payments/:correlation_id/status", h.GetPaymentStatus)

		uc.EXPECT().GetStatus(gomock.Any(), "ws_CO_124").Return(usecase.PaymentStatusView{
			CorrelationID: "ws_CO_124", IntentID: "intent-2", Status: entities.IntentStatusFailed,
			FailureCode: "1032", FailureReason: "Request cancelled by user",
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/ws_CO_124/status", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "FAILED" || body["failure_code"] != "1032" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}
