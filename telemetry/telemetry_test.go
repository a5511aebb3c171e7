package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/taobot/taobot/config"
)

func TestInit(t *testing.T) {
	// Nil tracing section disables tracing
	shutdown, err := Init(&config.Config{})
	if err != nil {
		t.Errorf("Init with empty config should not fail, got: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown failed: %v", err)
	}

	// Explicit none
	if _, err := Init(&config.Config{Tracing: &config.TracingConfig{Exporter: "none"}}); err != nil {
		t.Errorf("Init with none exporter should not fail, got: %v", err)
	}

	// stdout exporter
	shutdown, err = Init(&config.Config{
		Tracing: &config.TracingConfig{
			ServiceName: "test-service",
			Exporter:    "stdout",
		},
	})
	if err != nil {
		t.Errorf("Init with stdout config should not fail, got: %v", err)
	}
	_ = shutdown(context.Background())

	// OTLP exporter with an explicit endpoint; creation does not dial
	shutdown, err = Init(&config.Config{
		Tracing: &config.TracingConfig{
			ServiceName: "test-service-otlp",
			Exporter:    "otlp",
			Endpoint:    "http://localhost:4318",
		},
	})
	if err != nil {
		t.Errorf("Init with OTLP config should not fail, got: %v", err)
	}
	_ = shutdown

	// OTLP exporter without endpoint uses the default
	if _, err := Init(&config.Config{
		Tracing: &config.TracingConfig{Exporter: "otlp"},
	}); err != nil {
		t.Errorf("Init with OTLP config (default endpoint) should not fail, got: %v", err)
	}
}

func TestInitUnsupportedExporter(t *testing.T) {
	_, err := Init(&config.Config{Tracing: &config.TracingConfig{Exporter: "jaeger"}})
	if err == nil {
		t.Error("expected error for unsupported exporter")
	}
}

func TestWrapHandler(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("test response"))
	})

	wrappedHandler := WrapHandler("test-handler", testHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status code 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "test response" {
		t.Errorf("Expected 'test response', got %s", body)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("test-handler", "GET", "200")); got < 1 {
		t.Errorf("expected request counter to be incremented, got %v", got)
	}
}

func TestWrapHandlerWithDifferentMethods(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("method: " + r.Method))
	})

	wrappedHandler := WrapHandler("method-test", testHandler)

	methods := []string{"GET", "POST", "PUT", "DELETE", "PATCH"}
	for _, method := range methods {
		req := httptest.NewRequest(method, "/test", nil)
		rec := httptest.NewRecorder()

		wrappedHandler.ServeHTTP(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Errorf("Expected status code 202 for %s, got %d", method, rec.Code)
		}
		if body := rec.Body.String(); body != "method: "+method {
			t.Errorf("Expected 'method: %s', got %s", method, body)
		}
		if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("method-test", method, "202")); got != 1 {
			t.Errorf("expected one %s request recorded, got %v", method, got)
		}
	}
}

func TestResponseWriterWrapper(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("test content"))
	})

	wrappedHandler := WrapHandler("create-test", testHandler)

	req := httptest.NewRequest("POST", "/create", nil)
	rec := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status code 201, got %d", rec.Code)
	}
	if contentType := rec.Header().Get("Content-Type"); contentType != "text/plain" {
		t.Errorf("Expected Content-Type 'text/plain', got %s", contentType)
	}
	if body := rec.Body.String(); body != "test content" {
		t.Errorf("Expected 'test content', got %s", body)
	}
}

func TestRecordInit(t *testing.T) {
	okBefore := testutil.ToFloat64(appInitTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(appInitTotal.WithLabelValues("error"))

	RecordInit(nil)
	RecordInit(errors.New("boom"))

	if got := testutil.ToFloat64(appInitTotal.WithLabelValues("ok")); got != okBefore+1 {
		t.Errorf("expected ok counter %v, got %v", okBefore+1, got)
	}
	if got := testutil.ToFloat64(appInitTotal.WithLabelValues("error")); got != errBefore+1 {
		t.Errorf("expected error counter %v, got %v", errBefore+1, got)
	}
}

func TestMetricsHandler(t *testing.T) {
	RecordInit(nil)
	metricsHandler := MetricsHandler()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	metricsHandler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status code 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "taobot_app_initializations_total") {
		t.Error("Expected taobot metrics in response")
	}
}
