package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
)

func TestFixtureImportService_LiveFixtureFansOut(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{})
	h.source.setDetail(persijaPersib(1035012, "HT"))

	result, err := h.service.ImportFixture(t.Context(), 1035012, nil)
	if err != nil {
		t.Fatalf("ImportFixture error: %v", err)
	}
	if result.MatchID != "1035012" || result.Lifecycle != match.LifecycleLive || !result.Created || !result.Live || !result.RoomCreated {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored, ok, _ := h.matches.GetByID(t.Context(), "1035012")
	if !ok {
		t.Fatalf("expected matches document")
	}
	if stored.APIMatchID != 1035012 || stored.HomeScore != 1 || len(stored.Events) != 1 {
		t.Fatalf("unexpected stored match: %+v", stored)
	}
	if exists, _ := h.live.Exists(t.Context(), "1035012"); !exists {
		t.Fatalf("expected live_matches document under the same key")
	}
	if exists, _ := h.rooms.Exists(t.Context(), "1035012"); !exists {
		t.Fatalf("expected banter room")
	}
}

func TestFixtureImportService_UpcomingAndFinishedWriteMatchesOnly(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"NS", "FT", "", "TBD"} {
		h := newImportHarness(FixtureImportConfig{})
		h.source.setDetail(persijaPersib(77, status))

		result, err := h.service.ImportFixture(t.Context(), 77, nil)
		if err != nil {
			t.Fatalf("status %q: ImportFixture error: %v", status, err)
		}
		if result.Live || result.RoomCreated || result.Retracted {
			t.Fatalf("status %q: unexpected fan-out %+v", status, result.FanOutResult)
		}
		if _, ok, _ := h.matches.GetByID(t.Context(), "77"); !ok {
			t.Fatalf("status %q: expected matches document", status)
		}
		if exists, _ := h.live.Exists(t.Context(), "77"); exists {
			t.Fatalf("status %q: unexpected live_matches document", status)
		}
		if exists, _ := h.rooms.Exists(t.Context(), "77"); exists {
			t.Fatalf("status %q: unexpected banter room", status)
		}
	}
}

func TestFixtureImportService_ReimportUpdatesSameDocument(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{})
	h.source.setDetail(persijaPersib(5, "1H"))
	if _, err := h.service.ImportFixture(t.Context(), 5, nil); err != nil {
		t.Fatalf("first import: %v", err)
	}
	firstCreatedAt := testNow

	updated := persijaPersib(5, "2H")
	updated.HomeGoals = intPtr(2)
	updated.AwayGoals = intPtr(2)
	h.source.setDetail(updated)
	h.service.now = func() time.Time { return testNow.Add(30 * time.Minute) }

	result, err := h.service.ImportFixture(t.Context(), 5, nil)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.Created {
		t.Fatalf("expected update, not create")
	}

	items, _ := h.matches.List(t.Context())
	if len(items) != 1 {
		t.Fatalf("expected a single document, got=%d", len(items))
	}
	if items[0].HomeScore != 2 || items[0].AwayScore != 2 {
		t.Fatalf("scores not updated: %+v", items[0])
	}
	if !items[0].CreatedAt.Equal(firstCreatedAt) {
		t.Fatalf("createdAt rewritten: got=%s want=%s", items[0].CreatedAt, firstCreatedAt)
	}
}

func TestFixtureImportService_ReimportKeepsLiveCopyInStepWithMatch(t *testing.T) {
	t.Parallel()

	h, matches := newMatchHarness()
	h.source.setDetail(persijaPersib(5, "1H"))
	if _, err := h.service.ImportFixture(t.Context(), 5, nil); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := matches.SetMatchOfTheDay(t.Context(), "5", true); err != nil {
		t.Fatalf("SetMatchOfTheDay error: %v", err)
	}

	updated := persijaPersib(5, "2H")
	updated.HomeGoals = intPtr(3)
	h.source.setDetail(updated)
	h.service.now = func() time.Time { return testNow.Add(45 * time.Minute) }
	if _, err := h.service.ImportFixture(t.Context(), 5, nil); err != nil {
		t.Fatalf("second import: %v", err)
	}

	stored, _, _ := h.matches.GetByID(t.Context(), "5")
	liveItems, _ := h.live.List(t.Context())
	if len(liveItems) != 1 {
		t.Fatalf("expected one live copy, got=%d", len(liveItems))
	}
	copied := liveItems[0]
	if !stored.IsMatchOfTheDay || !copied.IsMatchOfTheDay {
		t.Fatalf("match of the day lost: matches=%t live_matches=%t", stored.IsMatchOfTheDay, copied.IsMatchOfTheDay)
	}
	if !copied.CreatedAt.Equal(stored.CreatedAt) {
		t.Fatalf("live createdAt drifted: got=%s want=%s", copied.CreatedAt, stored.CreatedAt)
	}
	if copied.HomeScore != 3 || copied.HomeScore != stored.HomeScore {
		t.Fatalf("live score not refreshed: live=%d matches=%d", copied.HomeScore, stored.HomeScore)
	}
}

func TestFixtureImportService_FinishedReimportRetractsLiveCopy(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{})
	h.source.setDetail(persijaPersib(9, "2H"))
	if _, err := h.service.ImportFixture(t.Context(), 9, nil); err != nil {
		t.Fatalf("live import: %v", err)
	}

	h.source.setDetail(persijaPersib(9, "FT"))
	result, err := h.service.ImportFixture(t.Context(), 9, nil)
	if err != nil {
		t.Fatalf("finished import: %v", err)
	}
	if !result.Retracted || result.Lifecycle != match.LifecycleFinished {
		t.Fatalf("expected retraction, got %+v", result)
	}
	if exists, _ := h.live.Exists(t.Context(), "9"); exists {
		t.Fatalf("live copy should be gone")
	}
	if exists, _ := h.rooms.Exists(t.Context(), "9"); !exists {
		t.Fatalf("banter room must survive the match ending")
	}
}

func TestFixtureImportService_FallsBackToSummary(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{})
	h.source.detailErrs[11] = errSourceDown
	summary := persijaPersib(11, "NS")
	summary.HomeGoals = nil
	summary.AwayGoals = nil

	result, err := h.service.ImportFixture(t.Context(), 11, &summary)
	if err != nil {
		t.Fatalf("ImportFixture error: %v", err)
	}
	if !result.UsedSummary {
		t.Fatalf("expected summary fallback")
	}

	stored, _, _ := h.matches.GetByID(t.Context(), "11")
	if len(stored.Lineups) != 0 || len(stored.Events) != 0 {
		t.Fatalf("fallback must store empty lineups/events, got %+v", stored)
	}
	if stored.HomeScore != 0 || stored.AwayScore != 0 {
		t.Fatalf("null goals must read as 0, got %d-%d", stored.HomeScore, stored.AwayScore)
	}
}

func TestFixtureImportService_DetailFailureWithoutSummaryFails(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{})
	h.source.detailErrs[12] = errSourceDown

	if _, err := h.service.ImportFixture(t.Context(), 12, nil); !errors.Is(err, errSourceDown) {
		t.Fatalf("expected source error, got %v", err)
	}
	if _, err := h.service.ImportFixture(t.Context(), 13, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown fixture, got %v", err)
	}
	if items, _ := h.matches.List(t.Context()); len(items) != 0 {
		t.Fatalf("failed imports must not write, got %d documents", len(items))
	}
}

func TestFixtureImportService_FormatsKickoffInLocation(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{Location: time.FixedZone("WIB", 7*60*60)})
	fx := persijaPersib(21, "NS")
	fx.KickoffAt = time.Date(2026, time.February, 14, 19, 30, 0, 0, time.UTC)
	h.source.setDetail(fx)

	if _, err := h.service.ImportFixture(t.Context(), 21, nil); err != nil {
		t.Fatalf("ImportFixture error: %v", err)
	}
	stored, _, _ := h.matches.GetByID(t.Context(), "21")
	if stored.Date != "2026-02-15" || stored.Time != "02:30" {
		t.Fatalf("unexpected local date/time: %s %s", stored.Date, stored.Time)
	}
	if !stored.MatchDate.Equal(fx.KickoffAt) {
		t.Fatalf("matchDate must keep the instant, got %s", stored.MatchDate)
	}
}

func TestFixtureImportService_ImportBatchIsolatesFailures(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{MaxWorkers: 2})
	h.source.setDetail(persijaPersib(1, "NS"))
	h.source.detailErrs[2] = errSourceDown
	h.source.setDetail(persijaPersib(3, "LIVE"))

	result, err := h.service.ImportBatch(t.Context(), ImportBatchInput{FixtureIDs: []int64{1, 2, 3}})
	if err != nil {
		t.Fatalf("ImportBatch error: %v", err)
	}
	if result.Total != 3 || result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	for idx, want := range []int64{1, 2, 3} {
		if result.Items[idx].FixtureID != want {
			t.Fatalf("items out of input order at %d: %+v", idx, result.Items)
		}
	}
	if result.Items[1].Status != ledger.ItemFailed || result.Items[1].Message == "" {
		t.Fatalf("expected failed item with message, got %+v", result.Items[1])
	}
	if exists, _ := h.live.Exists(t.Context(), "3"); !exists {
		t.Fatalf("fixture after the failure must still import")
	}

	run, ok, _ := h.ledger.GetByID(t.Context(), result.RunID)
	if !ok {
		t.Fatalf("expected sync run %q in ledger", result.RunID)
	}
	if run.Kind != ledger.RunKindImport || run.Failed != 1 || len(run.Items) != 3 {
		t.Fatalf("unexpected sync run: %+v", run)
	}
}

func TestFixtureImportService_ImportBatchRejectsBadInput(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{})
	if _, err := h.service.ImportBatch(t.Context(), ImportBatchInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty batch, got %v", err)
	}
	if _, err := h.service.ImportBatch(t.Context(), ImportBatchInput{FixtureIDs: []int64{1, -4}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative id, got %v", err)
	}
}

func TestFixtureImportService_ListUpcomingMarksImported(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{DefaultSeason: 2025})
	h.source.upcoming = []ExternalFixture{persijaPersib(100, "NS"), persijaPersib(101, "1H")}
	h.source.setDetail(persijaPersib(100, "NS"))
	if _, err := h.service.ImportFixture(t.Context(), 100, nil); err != nil {
		t.Fatalf("seed import: %v", err)
	}

	rows, err := h.service.ListUpcoming(t.Context(), 274, 0)
	if err != nil {
		t.Fatalf("ListUpcoming error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: %d", len(rows))
	}
	if !rows[0].Imported || rows[1].Imported {
		t.Fatalf("unexpected imported flags: %+v", rows)
	}
	if rows[1].Lifecycle != match.LifecycleLive {
		t.Fatalf("expected normalized lifecycle, got %s", rows[1].Lifecycle)
	}
	if h.source.lastSeason != 2025 {
		t.Fatalf("expected default season to be forwarded, got %d", h.source.lastSeason)
	}

	if _, err := h.service.ListUpcoming(t.Context(), 274, 500); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized next, got %v", err)
	}
}

func TestFixtureImportService_SeedLiveForcesLifecycle(t *testing.T) {
	t.Parallel()

	h := newImportHarness(FixtureImportConfig{})
	h.source.upcoming = []ExternalFixture{persijaPersib(300, "NS")}
	h.source.setDetail(persijaPersib(300, "NS"))

	result, err := h.service.SeedLive(t.Context(), 274, true)
	if err != nil {
		t.Fatalf("SeedLive error: %v", err)
	}
	if result.Lifecycle != match.LifecycleLive || !result.Live {
		t.Fatalf("expected forced live import, got %+v", result)
	}
	if exists, _ := h.live.Exists(t.Context(), "300"); !exists {
		t.Fatalf("expected live copy for seeded match")
	}
}
