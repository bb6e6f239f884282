package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hydrationdev/hydration-os/pkg/enums"
)

type memoryLimiter struct {
	counts map[string]int64
	err    error
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{counts: map[string]int64{}}
}

func (m *memoryLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if m.err != nil {
		return false, 0, m.err
	}
	m.counts[scope]++
	return m.counts[scope] <= limit, m.counts[scope], nil
}

func TestRateLimitBlocksPerProfile(t *testing.T) {
	limiter := newMemoryLimiter()
	policy := NewRateLimitPolicy("write", time.Minute, 2, 100)
	handler := RateLimit(policy, limiter, nil)(okHandler())
	profile := testProfile(enums.ProfileRoleMember)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/x/rsvp", nil)
		req = req.WithContext(WithProfile(req.Context(), profile))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if i == 2 && rec.Header().Get("Retry-After") != "60" {
			t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
		}
	}

	want := []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("request %d: expected %d, got %d", i, want[i], codes[i])
		}
	}
	if _, ok := limiter.counts["write:profile:"+profile.ID.String()]; !ok {
		t.Fatalf("expected profile scope counter, got %v", limiter.counts)
	}
}

func TestRateLimitBlocksPerIP(t *testing.T) {
	limiter := newMemoryLimiter()
	handler := RateLimit(NewRateLimitPolicy("write", time.Minute, 0, 1), limiter, nil)(okHandler())

	for i, want := range []int{http.StatusNoContent, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}
	if limiter.counts["write:ip:203.0.113.9"] != 2 {
		t.Fatalf("expected forwarded ip to be counted, got %v", limiter.counts)
	}
}

func TestRateLimitLimiterFailure(t *testing.T) {
	limiter := newMemoryLimiter()
	limiter.err = errors.New("redis down")
	handler := RateLimit(NewRateLimitPolicy("write", time.Minute, 5, 5), limiter, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	limiter := newMemoryLimiter()
	handler := RateLimit(NewRateLimitPolicy("write", 0, 1, 1), limiter, nil)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	}
	if len(limiter.counts) != 0 {
		t.Fatalf("expected no counters, got %v", limiter.counts)
	}
}
