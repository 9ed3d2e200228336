package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"delivery-route-optimizer/internal/metrics"
)

func TestLoggingMiddlewareRecordsExplicitStatus(t *testing.T) {
	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	got := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/teapot", "418"))
	if got != 1 {
		t.Errorf("request counter = %v, want 1", got)
	}
}

func TestLoggingMiddlewareDefaultsSilentHandlerTo200(t *testing.T) {
	// A handler that writes neither header nor body.
	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/silent", nil))

	if got := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/silent", "200")); got != 1 {
		t.Errorf("counter for status 200 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/silent", "0")); got != 0 {
		t.Errorf("counter for status 0 = %v, want none", got)
	}
}
