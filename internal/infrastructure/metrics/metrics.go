package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	OTPIssued        *prometheus.CounterVec
	OTPVerifications *prometheus.CounterVec
	PANVerifications *prometheus.CounterVec
	Submissions      *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		OTPIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udyam",
			Name:      "otp_issued_total",
			Help:      "OTP issue attempts by result.",
		}, []string{"result"}),
		OTPVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udyam",
			Name:      "otp_verifications_total",
			Help:      "OTP verification attempts by result.",
		}, []string{"result"}),
		PANVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udyam",
			Name:      "pan_verifications_total",
			Help:      "PAN verification attempts by result.",
		}, []string{"result"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udyam",
			Name:      "submissions_total",
			Help:      "Form submissions by result.",
		}, []string{"result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udyam",
			Name:      "status_transitions_total",
			Help:      "Scheduled status transitions by target status and result.",
		}, []string{"to", "result"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "udyam",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.Registry.MustRegister(
		m.OTPIssued, m.OTPVerifications, m.PANVerifications,
		m.Submissions, m.Transitions, m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// The recorders below are nil-safe so components can run without metrics.

func (m *Metrics) OTPIssue(result string) {
	if m == nil {
		return
	}
	m.OTPIssued.WithLabelValues(result).Inc()
}

func (m *Metrics) OTPVerify(result string) {
	if m == nil {
		return
	}
	m.OTPVerifications.WithLabelValues(result).Inc()
}

func (m *Metrics) PANVerify(result string) {
	if m == nil {
		return
	}
	m.PANVerifications.WithLabelValues(result).Inc()
}

func (m *Metrics) Submission(result string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) Transition(to, result string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to, result).Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
