package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"domisafe/internal/handlers"
	"domisafe/internal/models"
	"domisafe/utils"

	"go.uber.org/zap"
)

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (c *memoryCounter) IncrWithExpire(ctx context.Context, namespace, key string, window time.Duration) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	c.counts[namespace+":"+key]++
	return c.counts[namespace+":"+key], nil
}

func newTestApp(t *testing.T, limiter rateCounter, perMinute int) *application {
	t.Helper()
	tokens, err := utils.NewManager("test-secret")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	return &application{
		logger:             zap.NewNop().Sugar(),
		tokens:             tokens,
		limiter:            limiter,
		rateLimitPerMinute: perMinute,
	}
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	app := newTestApp(t, &memoryCounter{}, 2)
	h := app.rateLimit(okHandler)

	request := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := request("10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d: expected %d, got %d", i+1, http.StatusOK, code)
		}
	}
	if code := request("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Fatalf("expected %d, got %d", http.StatusTooManyRequests, code)
	}
	if code := request("10.0.0.2:5000"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}
}

func TestRateLimitCounterFailureLetsRequestsThrough(t *testing.T) {
	app := newTestApp(t, &memoryCounter{err: errors.New("redis down")}, 1)
	rr := httptest.NewRecorder()
	app.rateLimit(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employees", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := clientIP(req, true); got != "192.0.2.1" {
		t.Fatalf("expected remote host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req, false); got != "192.0.2.1" {
		t.Fatalf("expected forwarded header to be ignored, got %q", got)
	}
	if got := clientIP(req, true); got != "203.0.113.9" {
		t.Fatalf("expected forwarded client, got %q", got)
	}
}

func TestRateLimitIgnoresRotatedForwardedFor(t *testing.T) {
	app := newTestApp(t, &memoryCounter{}, 1)
	h := app.rateLimit(okHandler)

	codes := make([]int, 0, 2)
	for _, fwd := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req.Header.Set("X-Forwarded-For", fwd)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected [200 429], got %v", codes)
	}
}

func TestJWTMiddleware(t *testing.T) {
	app := newTestApp(t, nil, 0)

	var seen models.Claims
	h := app.JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = handlers.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}), models.RoleWorker)

	token := func(role, workerID string) string {
		tok, err := app.tokens.NewJWT("u1", role, workerID, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		return "Bearer " + tok
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"client role", token(models.RoleClient, ""), http.StatusForbidden},
		{"worker role", token(models.RoleWorker, "w1"), http.StatusOK},
		{"admin role", token(models.RoleAdmin, ""), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/employees/w1/availability", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
		})
	}

	if seen.Role != models.RoleAdmin {
		t.Fatalf("expected claims on context, got %+v", seen)
	}
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApp(t, nil, 0)
	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if rr.Header().Get("Connection") != "close" {
		t.Fatalf("expected Connection: close")
	}
}
