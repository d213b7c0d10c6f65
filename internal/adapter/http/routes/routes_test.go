package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"harambee_billing/internal/adapter/http/handlers"
	"harambee_billing/internal/adapter/http/middleware"
	"harambee_billing/internal/adapter/persistence/repository"
	"harambee_billing/internal/adapter/ratelimit"
	"harambee_billing/internal/domain/entities"
	"harambee_billing/internal/infrastructure/payments"
	"harambee_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, limit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	repo := repository.NewLedgerMemoryRepository(entities.Campaign{
		ID: "camp-1", Title: "Clean Water", TargetAmount: 50000, Status: entities.CampaignStatusActive,
	})
	gateway, err := payments.NewMpesaGateway(payments.MpesaConfig{MockMode: true}, log)
	require.NoError(t, err)

	router, err := NewRouter(Dependencies{
		Reconciliation: usecase.NewReconciliationUseCase(repo, gateway, ratelimit.NewMemorySlidingWindow(limit, 0), usecase.ReconciliationOptions{}, log),
		PaymentStatus:  usecase.NewPaymentStatusUseCase(repo),
		Campaigns:      usecase.NewCampaignUseCase(repo),
		Health:         handlers.NewHealthHandler(gateway.Mode(), map[string]handlers.HealthCheck{"database": repo.Ping}),
		CallbackOrigin: middleware.CallbackOriginConfig{Token: "s3cret"},
		Log:            log,
	})
	require.NoError(t, err)
	return router
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.1:4000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDonationLifecycle(t *testing.T) {
	r := newTestRouter(t, 10)

	w := do(r, http.MethodPost, "/v1/donations", `{"campaign_id":"camp-1","amount":1000,"phone_number":"+254 712 345 678"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var initiated struct {
		CorrelationID string `json:"correlation_id"`
		Status        string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initiated))
	assert.Equal(t, "PENDING", initiated.Status)
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))

	statusPath := "/v1/payments/" + initiated.CorrelationID + "/status"
	w = do(r, http.MethodGet, statusPath, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)

	callback := fmt.Sprintf(`{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":%q,"ResultCode":0,
		"ResultDesc":"The service request is processed successfully.","CallbackMetadata":{"Item":[
		{"Name":"Amount","Value":1000},{"Name":"MpesaReceiptNumber","Value":"QHX1ABC"},
		{"Name":"TransactionDate","Value":20260301103000},{"Name":"PhoneNumber","Value":254712345678}]}}}}`, initiated.CorrelationID)

	w = do(r, http.MethodPost, "/v1/mpesa/callback", callback)
	assert.Equal(t, http.StatusForbidden, w.Code, "callback without token must be rejected")

	for i := 0; i < 2; i++ {
		w = do(r, http.MethodPost, "/v1/mpesa/callback?token=s3cret", callback)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Accepted"}`, w.Body.String())
	}

	w = do(r, http.MethodGet, statusPath, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"COMPLETED"`)
	assert.Contains(t, w.Body.String(), `"receipt_ref":"QHX1ABC"`)

	w = do(r, http.MethodGet, "/v1/campaigns/camp-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"raised_amount":1000`)
	assert.Contains(t, w.Body.String(), `"progress":2`)

	w = do(r, http.MethodGet, "/v1/campaigns/camp-1/donations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"receipt_ref":"QHX1ABC"`)
}

func TestUnmatchedCallbackIsAcknowledged(t *testing.T) {
	r := newTestRouter(t, 10)

	w := do(r, http.MethodPost, "/v1/mpesa/callback?token=s3cret",
		`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_999","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/v1/payments/ws_CO_999/status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInitiationRateLimit(t *testing.T) {
	r := newTestRouter(t, 2)
	body := `{"campaign_id":"camp-1","amount":500,"phone_number":"0712345678"}`

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusAccepted, do(r, http.MethodPost, "/v1/donations", body).Code)
	}
	w := do(r, http.MethodPost, "/v1/donations", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestOperationalRoutes(t *testing.T) {
	r := newTestRouter(t, 10)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/ping", "").Code)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"gateway":"mock"`)

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "harambee_http_requests_total")
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	assert.NoError(t, Run(ctx, http.NewServeMux(), "127.0.0.1:0", log))
}
