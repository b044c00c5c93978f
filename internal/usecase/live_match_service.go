package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

type ReconcileResult struct {
	Upserted     []string `json:"upserted"`
	RoomsCreated []string `json:"rooms_created"`
	Removed      []string `json:"removed"`
}

type LiveSyncResult struct {
	RunID     string          `json:"run_id"`
	Refreshed int             `json:"refreshed"`
	Failed    int             `json:"failed"`
	Reconcile ReconcileResult `json:"reconcile"`
}

type fixtureImporter interface {
	ImportFixture(ctx context.Context, fixtureID int64, summary *ExternalFixture) (ImportResult, error)
}

// LiveMatchService owns the live_matches collection as a projection of matches.
type LiveMatchService struct {
	matches  match.Repository
	live     match.LiveRepository
	fanOut   liveFanOut
	importer fixtureImporter
	runs     ledger.SyncRunRepository
	ids      idgen.Generator
	metrics  MetricsRecorder
	logger   *logging.Logger
	now      func() time.Time
}

func NewLiveMatchService(
	matches match.Repository,
	live match.LiveRepository,
	rooms banter.Repository,
	importer fixtureImporter,
	runs ledger.SyncRunRepository,
	ids idgen.Generator,
	metrics MetricsRecorder,
	logger *logging.Logger,
) *LiveMatchService {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LiveMatchService{
		matches:  matches,
		live:     live,
		fanOut:   liveFanOut{matches: matches, live: live, banter: rooms},
		importer: importer,
		runs:     runs,
		ids:      ids,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *LiveMatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveMatchService.List")
	defer span.End()

	items, err := s.live.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live matches: %w", err)
	}
	return items, nil
}

// Reconcile recomputes live_matches from matches. Live matches are copied and
// get a room; live entries whose match is gone or no longer live are removed.
func (s *LiveMatchService) Reconcile(ctx context.Context) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveMatchService.Reconcile")
	defer span.End()

	liveMatches, err := s.matches.ListByStatus(ctx, match.LifecycleLive)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list live matches from store: %w", err)
	}
	current, err := s.live.List(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list live_matches: %w", err)
	}

	result := ReconcileResult{
		Upserted:     make([]string, 0, len(liveMatches)),
		RoomsCreated: make([]string, 0),
		Removed:      make([]string, 0),
	}

	wanted := make(map[string]struct{}, len(liveMatches))
	for _, item := range liveMatches {
		wanted[item.ID] = struct{}{}
		fanOut, err := s.fanOut.apply(ctx, item)
		if err != nil {
			return result, err
		}
		result.Upserted = append(result.Upserted, item.ID)
		if fanOut.RoomCreated {
			result.RoomsCreated = append(result.RoomsCreated, item.ID)
		}
	}

	for _, item := range current {
		if _, ok := wanted[item.ID]; ok {
			continue
		}
		if err := s.live.Delete(ctx, item.ID); err != nil {
			return result, fmt.Errorf("remove stale live match id=%s: %w", item.ID, err)
		}
		result.Removed = append(result.Removed, item.ID)
	}

	s.metrics.RecordLiveReconcile(ctx, len(result.Upserted), len(result.Removed))
	if len(result.Removed) > 0 {
		s.logger.InfoContext(ctx, "removed stale live matches", "ids", result.Removed)
	}
	return result, nil
}

// SyncLive re-imports every provider-backed live match so finished ones
// retract themselves, then reconciles.
func (s *LiveMatchService) SyncLive(ctx context.Context, trigger string) (LiveSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveMatchService.SyncLive")
	defer span.End()

	liveMatches, err := s.matches.ListByStatus(ctx, match.LifecycleLive)
	if err != nil {
		return LiveSyncResult{}, fmt.Errorf("list live matches from store: %w", err)
	}

	run := ledger.SyncRun{
		Kind:      ledger.RunKindLive,
		Trigger:   triggerOrDefault(trigger),
		StartedAt: s.now().UTC(),
	}
	for _, item := range liveMatches {
		if !item.ProviderBacked() || s.importer == nil {
			continue
		}
		if _, err := s.importer.ImportFixture(ctx, item.APIMatchID, nil); err != nil {
			s.logger.WarnContext(ctx, "refresh live match failed", "match_id", item.ID, "api_match_id", item.APIMatchID, "error", err)
			run.Add(ledger.SyncItem{Ref: item.ID, Status: ledger.ItemFailed, Message: err.Error()})
			continue
		}
		run.Add(ledger.SyncItem{Ref: item.ID, Status: ledger.ItemSucceeded})
	}

	reconciled, err := s.Reconcile(ctx)
	if err != nil {
		return LiveSyncResult{}, err
	}

	run.FinishedAt = s.now().UTC()
	return LiveSyncResult{
		RunID:     saveSyncRun(ctx, s.runs, s.ids, s.logger, run),
		Refreshed: run.Succeeded,
		Failed:    run.Failed,
		Reconcile: reconciled,
	}, nil
}
