package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestHandleReadiness(t *testing.T) {
	t.Run("ready upstream answers 200", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/readiness" {
				t.Errorf("unexpected probe path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer metadata.Close()

		gw, _ := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/readiness", nil)
		rec := httptest.NewRecorder()
		gw.HandleReadiness(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if !gw.Tracker.Ready() {
			t.Error("expected tracker READY after successful probe")
		}
	})

	t.Run("failing upstream answers 500", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer metadata.Close()

		gw, _ := newTestGateway(metadata.URL, "", "", "")
		gw.Tracker.MarkReady()

		req := httptest.NewRequest(http.MethodGet, "/readiness", nil)
		rec := httptest.NewRecorder()
		gw.HandleReadiness(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
		if gw.Tracker.Ready() {
			t.Error("expected tracker NOT_READY after failed probe")
		}
	})

	t.Run("unreachable upstream answers 500", func(t *testing.T) {
		gw, _ := newTestGateway("", "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/readiness", nil)
		rec := httptest.NewRecorder()
		gw.HandleReadiness(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})

	t.Run("recovered upstream flips back to ready", func(t *testing.T) {
		var healthy atomic.Bool
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if healthy.Load() {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		}))
		defer metadata.Close()

		gw, _ := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/readiness", nil)
		rec := httptest.NewRecorder()
		gw.HandleReadiness(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500 while unhealthy, got %d", rec.Code)
		}

		healthy.Store(true)
		rec = httptest.NewRecorder()
		gw.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/readiness", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200 after recovery, got %d", rec.Code)
		}
	})
}

func TestHandleHealth(t *testing.T) {
	gw, _ := newTestGateway("", "", "", "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	gw.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status"`) {
		t.Errorf("expected status field in body, got %q", rec.Body.String())
	}
}
