// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRateLimiterTake(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		ok, _ := rl.take("198.51.100.7", base)
		if !ok {
			t.Fatalf("request %d within limit should be allowed", i+1)
		}
	}

	ok, retry := rl.take("198.51.100.7", base.Add(10*time.Second))
	if ok {
		t.Error("request over limit should be denied")
	}
	if retry <= 0 || retry > time.Minute {
		t.Errorf("retry hint = %v, want within (0, 1m]", retry)
	}

	// A different client has its own bucket.
	if ok, _ := rl.take("198.51.100.8", base); !ok {
		t.Error("separate client should not share the bucket")
	}

	// The window rolls over and the counter starts fresh.
	if ok, _ := rl.take("198.51.100.7", base.Add(time.Minute)); !ok {
		t.Error("request after window reset should be allowed")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	newListing := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/products?limit=24", nil)
		req.RemoteAddr = "203.0.113.4:40312"
		return req
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newListing())
	if rr.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newListing())
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry a Retry-After header")
	}
	if !strings.Contains(rr.Body.String(), "rate limit exceeded") {
		t.Errorf("body = %q, want rate limit error", rr.Body.String())
	}
}

func TestRateLimiterSweep(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	defer rl.Stop()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl.take("stale-client", base)
	rl.take("fresh-client", base.Add(90*time.Second))

	rl.sweep(base.Add(2 * time.Minute))

	rl.mu.Lock()
	_, staleKept := rl.buckets["stale-client"]
	_, freshKept := rl.buckets["fresh-client"]
	rl.mu.Unlock()

	if staleKept {
		t.Error("expired bucket should have been swept")
	}
	if !freshKept {
		t.Error("bucket inside its window should survive the sweep")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "203.0.113.10", "", "10.0.0.5:8080", "203.0.113.10"},
		{"forwarded chain keeps first", "203.0.113.10, 10.0.0.1", "", "10.0.0.5:8080", "203.0.113.10"},
		{"real-ip fallback", "", "203.0.113.11", "10.0.0.5:8080", "203.0.113.11"},
		{"remote addr with port", "", "", "203.0.113.12:55111", "203.0.113.12"},
		{"remote addr ipv6", "", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"remote addr without port", "", "", "203.0.113.13", "203.0.113.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
