package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(callbacks.WithLabelValues("duplicate"))
	RecordCallback("duplicate")
	RecordCallback("duplicate")
	if got := testutil.ToFloat64(callbacks.WithLabelValues("duplicate")); got != before+2 {
		t.Fatalf("expected %v, got %v", before+2, got)
	}

	expiredBefore := testutil.ToFloat64(expired)
	RecordExpired(0)
	RecordExpired(3)
	if got := testutil.ToFloat64(expired); got != expiredBefore+3 {
		t.Fatalf("expected %v, got %v", expiredBefore+3, got)
	}
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/v1/payments/:correlation_id/status", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments/ws_CO_1/status", nil))

	got := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/v1/payments/:correlation_id/status", "404"))
	if got < 1 {
		t.Fatalf("expected request counted by route template, got %v", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "harambee_http_requests_total") {
		t.Fatalf("expected metrics exposition, got %d", w.Code)
	}
}
