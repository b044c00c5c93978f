package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

func TestDedupKey_UsesQStashSafeFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.February, 25, 4, 25, 42, 0, time.UTC)
	got := dedupKey("sync-live", "idn:liga/1 2025", at, 5*time.Minute)

	if strings.Contains(got, ":") {
		t.Fatalf("dedup key must not contain colon, got=%q", got)
	}

	want := "sync-live-idn-liga-1-2025-20260225T042500Z"
	if got != want {
		t.Fatalf("unexpected dedup key: got=%q want=%q", got, want)
	}
}

func TestSanitizeDedupSegment_EmptyFallback(t *testing.T) {
	t.Parallel()

	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("unexpected sanitize fallback: got=%q want=%q", got, "unknown")
	}
}

func newOrchestratorHarness(queue JobQueue) (*importHarness, *JobOrchestratorService) {
	h, live := newLiveHarness()
	svc := NewJobOrchestratorService(h.matches, live, queue, h.ledger, JobOrchestratorConfig{LiveInterval: 2 * time.Minute}, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return h, svc
}

func TestJobOrchestratorService_RunSyncLiveChainsWhileLive(t *testing.T) {
	t.Parallel()

	queue := &fakeJobQueue{}
	h, svc := newOrchestratorHarness(queue)
	_, _ = h.matches.Upsert(t.Context(), manualMatch("live-1", match.LifecycleLive))

	result, err := svc.RunSyncLive(t.Context(), JobRunInput{DispatchID: "sync-live-all-20260214T115800Z"})
	if err != nil {
		t.Fatalf("RunSyncLive error: %v", err)
	}
	if result.LiveCount != 1 || result.QueuedCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(queue.calls) != 1 {
		t.Fatalf("expected one enqueue, got %d", len(queue.calls))
	}
	call := queue.calls[0]
	if call.path != JobPathSyncLive || call.delay != 2*time.Minute {
		t.Fatalf("unexpected enqueue: %+v", call)
	}
	if call.dedupID != "sync-live-all-20260214T120200Z" {
		t.Fatalf("unexpected dedup id: %q", call.dedupID)
	}

	incoming, ok := h.ledger.Dispatch("sync-live-all-20260214T115800Z")
	if !ok || incoming.Status != ledger.DispatchCompleted {
		t.Fatalf("expected incoming dispatch marked completed, got %+v", incoming)
	}
	sent, ok := h.ledger.Dispatch(call.dedupID)
	if !ok || sent.Status != ledger.DispatchSent {
		t.Fatalf("expected next dispatch recorded as sent, got %+v", sent)
	}
}

func TestJobOrchestratorService_WakesBeforeNextKickoff(t *testing.T) {
	t.Parallel()

	queue := &fakeJobQueue{}
	h, svc := newOrchestratorHarness(queue)
	upcoming := manualMatch("later", match.LifecycleUpcoming)
	upcoming.Date = "2026-02-14"
	upcoming.Time = "15:00"
	_, _ = h.matches.Upsert(t.Context(), upcoming)

	if _, err := svc.RunSyncLive(t.Context(), JobRunInput{}); err != nil {
		t.Fatalf("RunSyncLive error: %v", err)
	}
	if len(queue.calls) != 1 {
		t.Fatalf("expected one enqueue, got %d", len(queue.calls))
	}
	if want := 3*time.Hour - 15*time.Minute; queue.calls[0].delay != want {
		t.Fatalf("unexpected delay: got=%s want=%s", queue.calls[0].delay, want)
	}
}

func TestJobOrchestratorService_PausesWhenIdle(t *testing.T) {
	t.Parallel()

	queue := &fakeJobQueue{}
	_, svc := newOrchestratorHarness(queue)

	result, err := svc.RunSyncLive(t.Context(), JobRunInput{})
	if err != nil {
		t.Fatalf("RunSyncLive error: %v", err)
	}
	if result.QueuedCount != 0 || len(queue.calls) != 0 {
		t.Fatalf("expected no enqueue when nothing is live or upcoming, got %+v", queue.calls)
	}
}

func TestJobOrchestratorService_EnqueueFailureIsRecorded(t *testing.T) {
	t.Parallel()

	queue := &fakeJobQueue{err: errors.New("qstash unavailable")}
	h, svc := newOrchestratorHarness(queue)

	if _, err := svc.Bootstrap(t.Context()); err == nil {
		t.Fatalf("expected enqueue error")
	}
	event, ok := h.ledger.Dispatch("sync-live-all-20260214T120000Z")
	if !ok || event.Status != ledger.DispatchFailed || event.ErrorMessage == "" {
		t.Fatalf("expected failed dispatch event, got %+v", event)
	}
}

func TestJobOrchestratorService_RunReconcile(t *testing.T) {
	t.Parallel()

	queue := &fakeJobQueue{}
	h, svc := newOrchestratorHarness(queue)
	_ = h.live.Upsert(t.Context(), manualMatch("stale", match.LifecycleLive))

	result, err := svc.RunReconcile(t.Context(), JobRunInput{})
	if err != nil {
		t.Fatalf("RunReconcile error: %v", err)
	}
	if result.Reconcile == nil || len(result.Reconcile.Removed) != 1 {
		t.Fatalf("unexpected reconcile result: %+v", result.Reconcile)
	}
	if len(queue.calls) != 0 {
		t.Fatalf("reconcile must not chain jobs")
	}
}
