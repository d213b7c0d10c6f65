package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"harambee_billing/internal/adapter/http/handlers/mocks"
	"harambee_billing/internal/infrastructure/metrics"
	"harambee_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/mock/gomock"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestCallbackHandler_ReceiveCallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const payload = `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_123","ResultCode":0}}}`
	const accepted = `{"ResultCode":0,"ResultDesc":"Accepted"}`

	acked := []struct {
		name string
		res  usecase.IngestResult
		err  error
	}{
		{name: "completed", res: usecase.IngestResult{Outcome: usecase.OutcomeCompleted}},
		{name: "duplicate", res: usecase.IngestResult{Outcome: usecase.OutcomeDuplicate}},
		{name: "unmatched", res: usecase.IngestResult{Outcome: usecase.OutcomeUnmatched}, err: fmt.Errorf("%w: ws_CO_999", usecase.ErrUnmatchedCallback)},
		{name: "malformed", res: usecase.IngestResult{Outcome: usecase.OutcomeMalformed}, err: usecase.ErrMalformedCallback},
		{name: "mismatch", res: usecase.IngestResult{Outcome: usecase.OutcomeCompleted, Mismatch: true},
			err: &usecase.ReconciliationMismatchError{CorrelationID: "ws_CO_123", RequestedAmount: 1000, ConfirmedAmount: 900}},
		{name: "receipt reused by another intent", res: usecase.IngestResult{Outcome: usecase.OutcomeConflict, CorrelationID: "ws_CO_B"},
			err: fmt.Errorf("%w: receipt already recorded: RCPT1", usecase.ErrSettlementConflict)},
	}
	for _, tt := range acked {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockIReconciliationUseCase(ctrl)
			h := NewCallbackHandler(uc, quietLogger())

			r := gin.New()
			r.POST("/v1/mpesa/callback", h.ReceiveCallback)

			uc.EXPECT().Ingest(gomock.Any(), []byte(payload)).Return(tt.res, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/v1/mpesa/callback", bytes.NewBufferString(payload))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if w.Body.String() != accepted {
				t.Fatalf("unexpected ack: %s", w.Body.String())
			}
		})
	}

	t.Run("persistence failure asks for redelivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIReconciliationUseCase(ctrl)
		h := NewCallbackHandler(uc, quietLogger())

		r := gin.New()
		r.POST("/v1/mpesa/callback", h.ReceiveCallback)

		uc.EXPECT().Ingest(gomock.Any(), gomock.Any()).
			Return(usecase.IngestResult{}, fmt.Errorf("%w: complete intent: deadlock", usecase.ErrPersistence))

		req := httptest.NewRequest(http.MethodPost, "/v1/mpesa/callback", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if w.Body.String() != `{"ResultCode":1,"ResultDesc":"Rejected"}` {
			t.Fatalf("unexpected ack: %s", w.Body.String())
		}
	})

	t.Run("settlement conflict is counted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIReconciliationUseCase(ctrl)
		h := NewCallbackHandler(uc, quietLogger())

		r := gin.New()
		r.POST("/v1/mpesa/callback", h.ReceiveCallback)

		uc.EXPECT().Ingest(gomock.Any(), gomock.Any()).
			Return(usecase.IngestResult{Outcome: usecase.OutcomeConflict}, fmt.Errorf("%w: campaign does not exist", usecase.ErrSettlementConflict))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/mpesa/callback", bytes.NewBufferString(payload)))

		scrape := httptest.NewRecorder()
		metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if !strings.Contains(scrape.Body.String(), `harambee_payments_callbacks_total{outcome="conflict"}`) {
			t.Fatalf("expected conflict outcome in metrics")
		}
	})
}
