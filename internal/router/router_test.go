package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartcatalog/internal/handlers"
	"smartcatalog/internal/middleware"
)

// testDeps builds a router with empty handler groups. Routes that reach
// into the database are not exercised here; store-backed behavior is
// covered by the handler and store tests.
func testDeps() Deps {
	return Deps{
		Public:      handlers.NewPublic(nil, nil, nil, nil),
		API:         handlers.NewAPI(nil, nil),
		Admin:       handlers.NewAdmin(nil, nil, nil, nil),
		Print:       handlers.NewPrint(nil, nil, 0),
		Import:      handlers.NewImport(nil, nil),
		Sitemap:     handlers.NewSitemap(nil, nil, "http://localhost:8080"),
		RateLimiter: middleware.NewRateLimiter(100, time.Minute),
	}
}

func TestHealth(t *testing.T) {
	d := testDeps()
	defer d.RateLimiter.Stop()
	r := New(d)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health body = %q", rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	d := testDeps()
	defer d.RateLimiter.Stop()
	r := New(d)

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /no-such-route status = %d, want 404", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	d := testDeps()
	defer d.RateLimiter.Stop()
	r := New(d)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("X-Content-Type-Options") == "" {
		t.Error("security headers not applied to routes")
	}
}
