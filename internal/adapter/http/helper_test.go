package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"udyam-verification/internal/adapter/ratelimit"
	domainotp "udyam-verification/internal/domain/otp"
	domainpan "udyam-verification/internal/domain/pan"
	domainsub "udyam-verification/internal/domain/submission"
	"udyam-verification/internal/domain/uow"
	"udyam-verification/internal/infrastructure/metrics"
	"udyam-verification/internal/scheduler"
	"udyam-verification/internal/testutil/auditmock"
	"udyam-verification/internal/testutil/otplogmock"
	"udyam-verification/internal/testutil/panmock"
	"udyam-verification/internal/testutil/submissionmock"
	"udyam-verification/internal/testutil/uowmock"
	"udyam-verification/internal/usecase/otp"
	"udyam-verification/internal/usecase/pan"
	"udyam-verification/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// inlineScheduler runs tasks synchronously; deferred ones are only counted.
type inlineScheduler struct {
	mu       sync.Mutex
	deferred []string
}

func (s *inlineScheduler) Schedule(name string, delay time.Duration, fn scheduler.Task) error {
	if delay > 0 {
		s.mu.Lock()
		s.deferred = append(s.deferred, name)
		s.mu.Unlock()
		return nil
	}
	fn(context.Background())
	return nil
}

type recordingSender struct {
	mu    sync.Mutex
	codes []string
}

func (r *recordingSender) Send(_ context.Context, _ string, code string) error {
	r.mu.Lock()
	r.codes = append(r.codes, code)
	r.mu.Unlock()
	return nil
}

func (r *recordingSender) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.codes) == 0 {
		return ""
	}
	return r.codes[len(r.codes)-1]
}

type testEnv struct {
	e       *echo.Echo
	sender  *recordingSender
	sched   *inlineScheduler
	otpLogs *otplogmock.Repo
	pans    *panmock.Repo
	subs    *submissionmock.Repo
	audits  *auditmock.Repo
	metrics *metrics.Metrics
}

// newTestEnv wires the router to mock repositories. Nothing has been
// verified yet: the gate lookups report no rows.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		sender: &recordingSender{},
		sched:  &inlineScheduler{},
		otpLogs: &otplogmock.Repo{
			FindVerifiedFn: func(context.Context, string, string, time.Time) (*domainotp.Log, error) {
				return nil, gorm.ErrRecordNotFound
			},
		},
		pans: &panmock.Repo{
			LatestVerifiedFn: func(context.Context, string, time.Time) (*domainpan.Verification, error) {
				return nil, gorm.ErrRecordNotFound
			},
			LatestFn: func(context.Context, string) (*domainpan.Verification, error) {
				return nil, gorm.ErrRecordNotFound
			},
		},
		subs: &submissionmock.Repo{
			FindActiveFn: func(context.Context, string, string) (*domainsub.FormSubmission, error) {
				return nil, gorm.ErrRecordNotFound
			},
		},
		audits:  &auditmock.Repo{},
		metrics: metrics.New(),
	}

	otpUC := otp.NewUsecase(otp.Deps{
		Limiter:   ratelimit.NewMemory(domainotp.RateLimit, domainotp.RateWindow),
		Logs:      env.otpLogs,
		Sender:    env.sender,
		Scheduler: env.sched,
		Metrics:   env.metrics,
	})
	panUC := pan.NewUsecase(pan.Deps{Repo: env.pans, Metrics: env.metrics})
	formUC := submission.NewUsecase(submission.Deps{
		Submissions:     env.subs,
		Audits:          env.audits,
		OtpLogs:         env.otpLogs,
		Pans:            env.pans,
		UoW:             uowmock.Passthrough(uow.Repos{Submissions: env.subs, Audits: env.audits}),
		Scheduler:       env.sched,
		ProcessingDelay: 5 * time.Second,
		ApprovalDelay:   30 * time.Second,
		Metrics:         env.metrics,
	})

	env.e = NewRouter(RouterDeps{
		OTP:         otpUC,
		PAN:         panUC,
		Forms:       formUC,
		Metrics:     env.metrics,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	return env
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v; raw=%s", err, string(env.Data))
	}
}
