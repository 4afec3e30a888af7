package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.OTPIssue("sent")
	m.OTPIssue("sent")
	m.OTPIssue("rate_limited")
	m.Transition("PROCESSING", "ok")
	m.ObserveHTTP("GET", "/health", "200", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OTPIssued.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OTPIssued.WithLabelValues("rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("PROCESSING", "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
}

func TestRecorders_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OTPIssue("x")
		m.OTPVerify("x")
		m.PANVerify("x")
		m.Submission("x")
		m.Transition("x", "y")
		m.ObserveHTTP("GET", "/", "200", time.Second)
	})
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.Submission("created")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `udyam_submissions_total{result="created"} 1`)
}
