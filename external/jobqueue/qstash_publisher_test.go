package jobqueue

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/platform/resilience"
)

func TestQStashPublisher_Enqueue_SetsUpstashHeaders(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotHeaders http.Header
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		HTTPClient:       server.Client(),
		BaseURL:          server.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://admin.diskichat.app",
		Retries:          2,
		InternalJobToken: "job-token",
	}, nil)

	err := publisher.Enqueue(t.Context(), "v1/internal/jobs/sync-live", map[string]any{"dispatch_id": "d1"}, 90*time.Second, "sync-live-all-20260301T120000Z")
	if err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}

	if gotPath != "/v2/publish/https://admin.diskichat.app/v1/internal/jobs/sync-live" {
		t.Fatalf("unexpected publish path: %s", gotPath)
	}
	checks := map[string]string{
		"Authorization":                        "Bearer qstash-token",
		"Upstash-Delay":                        "90s",
		"Upstash-Retries":                      "2",
		"Upstash-Deduplication-Id":             "sync-live-all-20260301T120000Z",
		"Upstash-Forward-X-Internal-Job-Token": "job-token",
	}
	for key, want := range checks {
		if got := gotHeaders.Get(key); got != want {
			t.Fatalf("header %s: got=%q want=%q", key, got, want)
		}
	}
	if !strings.Contains(gotBody, `"dispatch_id":"d1"`) {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestQStashPublisher_Enqueue_RejectsBadTarget(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.upstash.io",
		TargetBaseURL: "ftp://example.com",
	}, nil)

	err := publisher.Enqueue(t.Context(), "/v1/internal/jobs/sync-live", nil, 0, "")
	if err == nil || !strings.Contains(err.Error(), "QSTASH_TARGET_BASE_URL") {
		t.Fatalf("expected target validation error, got %v", err)
	}
}

func TestQStashPublisher_ServerErrorTripsBreaker(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		TargetBaseURL:  "https://admin.diskichat.app",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
	}, nil)

	if err := publisher.Enqueue(t.Context(), "/jobs", nil, 0, ""); !isQStashCircuitFailure(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if err := publisher.Enqueue(t.Context(), "/jobs", nil, 0, ""); err == nil || !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected open breaker, got %v", err)
	}
}

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	if got := normalizeDelay(-time.Second); got != "0s" {
		t.Fatalf("unexpected delay: %s", got)
	}
	if got := normalizeDelay(1500 * time.Millisecond); got != "2s" {
		t.Fatalf("unexpected delay: %s", got)
	}
}
