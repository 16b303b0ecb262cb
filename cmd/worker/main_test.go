package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMetricsServerConfig(t *testing.T) {
	srv := newMetricsServer("3001")

	if srv.Addr != ":3001" {
		t.Errorf("addr = %q, want :3001", srv.Addr)
	}
	if srv.ReadHeaderTimeout <= 0 {
		t.Error("metrics server must set a read header timeout")
	}
}

func TestMetricsServerServesMetrics(t *testing.T) {
	srv := newMetricsServer("0")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/other", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /other = %d, want 404", rec.Code)
	}
}
