package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", "json", &buf)
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", l.GetLevel())
	}
	l.WithField("intent_id", "i-1").Info("[payment][usecase] hello")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json line: %v", err)
	}
	if line["intent_id"] != "i-1" || line["msg"] != "[payment][usecase] hello" {
		t.Fatalf("unexpected line: %v", line)
	}

	if New("nonsense", "text", &buf).GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected fallback to info")
	}
}

func TestGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	l := New("info", "json", &buf)

	r := gin.New()
	r.Use(GinLogger(l))
	r.GET("/v1/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json line: %v", err)
	}
	if line["level"] != "warning" || line["path"] != "/v1/ping" || line["status"] != float64(http.StatusTeapot) {
		t.Fatalf("unexpected line: %v", line)
	}
}
