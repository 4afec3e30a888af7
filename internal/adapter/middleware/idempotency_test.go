package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const testKey = "3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88"

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, ttl, nil))
	e.POST("/api/submit-form", handler)
	e.GET("/api/submit-form", handler)
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

// countingHandler answers 201 with a body that changes on every call.
func countingHandler(calls *int32) echo.HandlerFunc {
	return func(c echo.Context) error {
		n := atomic.AddInt32(calls, 1)
		return c.JSON(http.StatusCreated, map[string]any{"success": true, "call": n})
	}
}

func Test_BypassOnGET(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&calls))
	rec := doReq(t, e, http.MethodGet, "/api/submit-form", nil, map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("expected handler to run, code=%d calls=%d", rec.Code, calls)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("GET must not touch the store, keys=%v", mr.Keys())
	}
}

func Test_NoKeyPassesThrough(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&calls))

	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodPost, "/api/submit-form", mkJSONBody(t, map[string]int{"x": 1}), nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("want 201, got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("without a key every request runs the handler, calls=%d", calls)
	}
}

func Test_InvalidKeyRejected(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&calls))

	rec := doReq(t, e, http.MethodPost, "/api/submit-form", mkJSONBody(t, map[string]int{"x": 1}),
		map[string]string{HeaderIdempotencyKey: "NOT-VALID"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != false || body["message"] != "Invalid Idempotency-Key header" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if calls != 0 {
		t.Fatalf("handler must not run")
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))
	h := map[string]string{HeaderIdempotencyKey: testKey}

	rec1 := doReq(t, e, http.MethodPost, "/api/submit-form", mkJSONBody(t, map[string]any{"pan": "ABCDE1234F"}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	rec2 := doReq(t, e, http.MethodPost, "/api/submit-form", mkJSONBody(t, map[string]any{"pan": "ABCDE1234F"}), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get(HeaderReplayed) != "true" {
		t.Fatalf("replay must be flagged")
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}
	if ttl := mr.TTL(buildKey(http.MethodPost, "/api/submit-form", testKey)); ttl <= 0 || ttl > 2*time.Minute {
		t.Fatalf("final ttl = %v", ttl)
	}
}

func Test_ServerErrorIsNotRemembered(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false})
		}
		return c.JSON(http.StatusCreated, map[string]any{"success": true})
	})
	h := map[string]string{HeaderIdempotencyKey: testKey}

	if rec := doReq(t, e, http.MethodPost, "/api/submit-form", mkJSONBody(t, map[string]int{"x": 1}), h); rec.Code != http.StatusInternalServerError {
		t.Fatalf("first => want 500, got %d", rec.Code)
	}
	if rec := doReq(t, e, http.MethodPost, "/api/submit-form", mkJSONBody(t, map[string]int{"x": 1}), h); rec.Code != http.StatusCreated {
		t.Fatalf("retry => want 201, got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("retry after 5xx must run the handler, calls=%d", calls)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))

	body := []byte(`{"x":1}`)
	key := buildKey(http.MethodPost, "/api/submit-form", testKey)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash(body), CreatedAt: time.Now().UTC()}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/api/submit-form", bytes.NewReader(body), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if calls != 0 {
		t.Fatalf("handler must not run")
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))

	key := buildKey(http.MethodPost, "/api/submit-form", testKey)
	final := idempEntry{
		Code:       http.StatusCreated,
		Body:       []byte(`{"success":true}`),
		BodySHA256: bodyHash([]byte(`{"x":1}`)),
		CreatedAt:  time.Now().UTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/api/submit-form", bytes.NewReader([]byte(`{"x":2}`)), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same key => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed address: SetNX fails fast
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	var calls int32
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	rec := doReq(t, e, http.MethodPost, "/api/submit-form", bytes.NewReader([]byte(`{}`)), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
