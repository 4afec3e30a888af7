package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestHealth_ReturnsOKWithUptime(t *testing.T) {
	e := echo.New()
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	h := NewHandler(started)
	h.now = func() time.Time { return started.Add(90 * time.Second) }

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body struct {
		Status    string  `json:"status"`
		Timestamp string  `json:"timestamp"`
		Uptime    float64 `json:"uptime"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	if body.Status != "OK" {
		t.Fatalf(`expected status "OK", got %q`, body.Status)
	}
	parsed, err := time.Parse(time.RFC3339Nano, body.Timestamp)
	if err != nil {
		t.Fatalf("timestamp not RFC3339Nano: %v (value=%q)", err, body.Timestamp)
	}
	if !parsed.Equal(started.Add(90 * time.Second)) {
		t.Fatalf("timestamp = %v", parsed)
	}
	if body.Uptime != 90 {
		t.Fatalf("uptime = %v, want 90", body.Uptime)
	}
}
