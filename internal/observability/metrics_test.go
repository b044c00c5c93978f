package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSetupMetrics_Disabled(t *testing.T) {
	t.Parallel()

	m, handler, shutdown, err := SetupMetrics(false)
	if err != nil {
		t.Fatalf("setup metrics: %v", err)
	}
	if m != nil || handler != nil {
		t.Fatalf("expected nil recorder and handler when disabled")
	}
	// Nil recorder must be safe.
	m.RecordImport(t.Context(), "live", "imported")
	m.RecordProviderRequest(t.Context(), "apifootball", "/fixtures", "ok", time.Millisecond)
	if err := shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupMetrics_ExposesCounters(t *testing.T) {
	t.Parallel()

	m, handler, shutdown, err := SetupMetrics(true)
	if err != nil {
		t.Fatalf("setup metrics: %v", err)
	}
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	ctx := t.Context()
	m.RecordImport(ctx, "live", "imported")
	m.RecordModeration(ctx, "active", "banned")
	m.RecordBroadcast(ctx, "sent")
	m.RecordLiveReconcile(ctx, 2, 1)
	m.RecordProviderRequest(ctx, "apifootball", "/fixtures", "ok", 25*time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	for _, want := range []string{
		"diskichat_fixture_imports_total",
		"diskichat_user_moderations_total",
		"diskichat_broadcasts_total",
		"diskichat_live_matches_upserted_total",
		"diskichat_provider_requests_total",
		"go_goroutines",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %s in scrape output", want)
		}
	}
}
