package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unalkalkan/txt2epub/internal/storage"
)

func TestRunChecks(t *testing.T) {
	healthy := func(ctx context.Context) (Status, error) { return StatusHealthy, nil }
	degraded := func(ctx context.Context) (Status, error) { return StatusDegraded, nil }
	failing := func(ctx context.Context) (Status, error) { return StatusHealthy, errors.New("boom") }

	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   Status
	}{
		{"NoChecks", nil, StatusHealthy},
		{"AllHealthy", map[string]CheckFunc{"a": healthy, "b": healthy}, StatusHealthy},
		{"OneDegraded", map[string]CheckFunc{"a": healthy, "b": degraded}, StatusDegraded},
		{"ErrorIsUnhealthy", map[string]CheckFunc{"a": degraded, "b": failing}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler("test")
			for name, check := range tt.checks {
				h.Register(name, check)
			}

			resp := h.RunChecks(context.Background())
			if resp.Status != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, resp.Status)
			}
			if len(resp.Checks) != len(tt.checks) {
				t.Errorf("Expected %d results, got %d", len(tt.checks), len(resp.Checks))
			}
		})
	}
}

func TestStorageCheck(t *testing.T) {
	adapter, err := storage.NewLocalAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage adapter: %v", err)
	}

	status, err := StorageCheck(adapter)(context.Background())
	if err != nil || status != StatusHealthy {
		t.Errorf("Expected healthy storage, got %s (%v)", status, err)
	}
}

func TestHandlers(t *testing.T) {
	h := NewHandler("1.2.3")
	h.Register("storage", func(ctx context.Context) (Status, error) {
		return StatusUnhealthy, errors.New("unreachable")
	})

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		want     Status
	}{
		{"Liveness", h.LivenessHandler(), http.StatusOK, StatusHealthy},
		{"Readiness", h.ReadinessHandler(), http.StatusServiceUnavailable, StatusUnhealthy},
		{"Health", h.HealthHandler(), http.StatusOK, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("Expected status code %d, got %d", tt.wantCode, rec.Code)
			}
			var resp Response
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, resp.Status)
			}
			if resp.Version != "1.2.3" {
				t.Errorf("Expected version 1.2.3, got %s", resp.Version)
			}
		})
	}
}
