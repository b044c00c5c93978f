package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/config"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "diskichat-admin",
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		StoreDriver:        config.StoreMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		MetricsEnabled:     true,
		JobLiveInterval:    2 * time.Minute,
		MatchLocation:      time.UTC,
		InternalJobToken:   "job-token",
	}
}

func TestNew_MemoryStore(t *testing.T) {
	t.Parallel()

	a, err := New(t.Context(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(t.Context()) })

	if a.Services.Matches == nil || a.Services.Users == nil || a.Services.Jobs == nil || a.Services.LiveMatches == nil {
		t.Fatalf("expected core services to be wired: %+v", a.Services)
	}
	if a.Services.Importer != nil || a.Services.Teams != nil {
		t.Fatalf("expected provider-backed services to stay nil without api-football")
	}

	items, err := a.Services.Matches.List(t.Context())
	if err != nil || len(items) == 0 {
		t.Fatalf("expected seeded matches, got %d err=%v", len(items), err)
	}
}

func TestNewHTTPServer_ServesHealthAndMetrics(t *testing.T) {
	t.Parallel()

	a, err := New(t.Context(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(t.Context()) })

	srv, err := a.NewHTTPServer()
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}

	// The memory store authenticates everyone as the dev admin.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer anything")
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/users: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	a, err := New(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(t.Context()) })

	if _, err := a.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
