package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

func newLiveHarness() (*importHarness, *LiveMatchService) {
	h := newImportHarness(FixtureImportConfig{})
	svc := NewLiveMatchService(h.matches, h.live, h.rooms, h.service, h.ledger, idgen.NewSequence("live-run"), nil, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return h, svc
}

func manualMatch(id string, status match.Lifecycle) match.Match {
	return match.Match{
		ID:        id,
		HomeTeam:  "Arema",
		AwayTeam:  "PSM Makassar",
		Status:    status,
		Date:      "2026-02-14",
		Time:      "15:30",
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func TestLiveMatchService_ReconcileAddsAndRemoves(t *testing.T) {
	t.Parallel()

	h, svc := newLiveHarness()
	ctx := t.Context()
	_, _ = h.matches.Upsert(ctx, manualMatch("live-1", match.LifecycleLive))
	_, _ = h.matches.Upsert(ctx, manualMatch("done-1", match.LifecycleFinished))
	_ = h.live.Upsert(ctx, manualMatch("done-1", match.LifecycleLive))
	_ = h.live.Upsert(ctx, manualMatch("orphan", match.LifecycleLive))

	result, err := svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if len(result.Upserted) != 1 || result.Upserted[0] != "live-1" {
		t.Fatalf("unexpected upserted: %v", result.Upserted)
	}
	if len(result.RoomsCreated) != 1 {
		t.Fatalf("expected banter room for live-1, got %v", result.RoomsCreated)
	}
	if len(result.Removed) != 2 {
		t.Fatalf("expected stale entries removed, got %v", result.Removed)
	}

	items, _ := svc.List(ctx)
	if len(items) != 1 || items[0].ID != "live-1" {
		t.Fatalf("unexpected live_matches after reconcile: %+v", items)
	}
}

func TestLiveMatchService_SyncLiveRetractsFinishedMatches(t *testing.T) {
	t.Parallel()

	h, svc := newLiveHarness()
	ctx := t.Context()
	h.source.setDetail(persijaPersib(40, "2H"))
	if _, err := h.service.ImportFixture(ctx, 40, nil); err != nil {
		t.Fatalf("seed live import: %v", err)
	}
	_, _ = h.matches.Upsert(ctx, manualMatch("manual-live", match.LifecycleLive))

	h.source.setDetail(persijaPersib(40, "FT"))
	result, err := svc.SyncLive(ctx, "test")
	if err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}
	if result.Refreshed != 1 || result.Failed != 0 {
		t.Fatalf("manual matches must not be refreshed from the source: %+v", result)
	}
	if exists, _ := h.live.Exists(ctx, "40"); exists {
		t.Fatalf("finished fixture should leave live_matches")
	}
	if exists, _ := h.live.Exists(ctx, "manual-live"); !exists {
		t.Fatalf("manual live match should be projected")
	}
	if _, ok, _ := h.ledger.GetByID(ctx, result.RunID); !ok {
		t.Fatalf("expected live sync run %q to be recorded", result.RunID)
	}
}

func TestLiveMatchService_SyncLiveRecordsProviderFailures(t *testing.T) {
	t.Parallel()

	h, svc := newLiveHarness()
	ctx := t.Context()
	h.source.setDetail(persijaPersib(41, "1H"))
	if _, err := h.service.ImportFixture(ctx, 41, nil); err != nil {
		t.Fatalf("seed live import: %v", err)
	}
	h.source.detailErrs[41] = errSourceDown

	result, err := svc.SyncLive(ctx, "test")
	if err != nil {
		t.Fatalf("SyncLive error: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected one failed refresh, got %+v", result)
	}
	if exists, _ := h.live.Exists(ctx, "41"); !exists {
		t.Fatalf("stored live state should stand when the provider fails")
	}
}
