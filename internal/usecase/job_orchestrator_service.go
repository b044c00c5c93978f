package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

const (
	JobSyncLive      = "sync-live"
	JobReconcileLive = "reconcile-live"

	JobPathSyncLive      = "/v1/internal/jobs/sync-live"
	JobPathReconcileLive = "/v1/internal/jobs/reconcile-live"

	liveJobScope = "all"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobOrchestratorConfig struct {
	LiveInterval   time.Duration
	PreKickoffLead time.Duration
	Location       *time.Location
}

type JobRunInput struct {
	// DispatchID is the id the queue delivered the job with; empty for manual runs.
	DispatchID string
	Force      bool
}

type JobRunResult struct {
	Mode             string           `json:"mode"`
	LiveCount        int              `json:"live_count"`
	QueuedCount      int              `json:"queued_count"`
	QueuedOperations []string         `json:"queued_operations"`
	Sync             *LiveSyncResult  `json:"sync,omitempty"`
	Reconcile        *ReconcileResult `json:"reconcile,omitempty"`
}

type liveSyncer interface {
	SyncLive(ctx context.Context, trigger string) (LiveSyncResult, error)
	Reconcile(ctx context.Context) (ReconcileResult, error)
}

// JobOrchestratorService runs the scheduled live jobs and chains the next
// sync-live dispatch through the queue while matches are live or about to kick off.
type JobOrchestratorService struct {
	matches      match.Repository
	live         liveSyncer
	queue        JobQueue
	dispatchRepo ledger.DispatchRepository
	cfg          JobOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	matches match.Repository,
	live liveSyncer,
	queue JobQueue,
	dispatchRepo ledger.DispatchRepository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 2 * time.Minute
	}
	if cfg.PreKickoffLead <= 0 {
		cfg.PreKickoffLead = 15 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &JobOrchestratorService{
		matches:      matches,
		live:         live,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *JobOrchestratorService) RunSyncLive(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunSyncLive")
	defer span.End()

	synced, err := s.live.SyncLive(ctx, "job")
	if err != nil {
		s.recordIncoming(ctx, JobSyncLive, JobPathSyncLive, input, err)
		return JobRunResult{}, fmt.Errorf("sync live matches: %w", err)
	}
	s.recordIncoming(ctx, JobSyncLive, JobPathSyncLive, input, nil)

	result := JobRunResult{
		Mode:             JobSyncLive,
		LiveCount:        len(synced.Reconcile.Upserted),
		QueuedOperations: make([]string, 0, 1),
		Sync:             &synced,
	}
	if err := s.scheduleNext(ctx, &result, input.Force); err != nil {
		return result, err
	}
	return result, nil
}

func (s *JobOrchestratorService) RunReconcile(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunReconcile")
	defer span.End()

	reconciled, err := s.live.Reconcile(ctx)
	if err != nil {
		s.recordIncoming(ctx, JobReconcileLive, JobPathReconcileLive, input, err)
		return JobRunResult{}, fmt.Errorf("reconcile live matches: %w", err)
	}
	s.recordIncoming(ctx, JobReconcileLive, JobPathReconcileLive, input, nil)

	return JobRunResult{
		Mode:             JobReconcileLive,
		LiveCount:        len(reconciled.Upserted),
		QueuedOperations: []string{},
		Reconcile:        &reconciled,
	}, nil
}

// Bootstrap enqueues an immediate sync-live so the chain restarts after idle periods.
func (s *JobOrchestratorService) Bootstrap(ctx context.Context) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.Bootstrap")
	defer span.End()

	now := s.now().UTC()
	if err := s.enqueueLive(ctx, 0, now); err != nil {
		return JobRunResult{}, err
	}
	return JobRunResult{
		Mode:             "bootstrap",
		QueuedCount:      1,
		QueuedOperations: []string{JobSyncLive},
	}, nil
}

func (s *JobOrchestratorService) scheduleNext(ctx context.Context, result *JobRunResult, force bool) error {
	now := s.now().UTC()
	upcoming, err := s.matches.ListByStatus(ctx, match.LifecycleUpcoming)
	if err != nil {
		return fmt.Errorf("list upcoming matches for scheduling: %w", err)
	}

	delay, ok := s.nextLiveDelay(now, result.LiveCount > 0, nearestKickoff(upcoming, now, s.cfg.Location))
	if force {
		delay, ok = s.cfg.LiveInterval, true
	}
	if !ok {
		s.logger.DebugContext(ctx, "no live or upcoming matches, live sync chain paused")
		return nil
	}

	if err := s.enqueueLive(ctx, delay, now); err != nil {
		return err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, JobSyncLive)
	return nil
}

func (s *JobOrchestratorService) enqueueLive(ctx context.Context, delay time.Duration, now time.Time) error {
	dedupID := dedupKey(JobSyncLive, liveJobScope, now.Add(delay), s.cfg.LiveInterval)
	payload := map[string]any{
		"dispatch_id": dedupID,
	}
	if err := s.queue.Enqueue(ctx, JobPathSyncLive, payload, delay, dedupID); err != nil {
		s.recordDispatchEvent(ctx, ledger.DispatchEvent{
			DispatchID:   dedupID,
			JobName:      JobSyncLive,
			JobPath:      JobPathSyncLive,
			Status:       ledger.DispatchFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
			OccurredAt:   now,
		})
		return fmt.Errorf("enqueue %s: %w", JobSyncLive, err)
	}
	s.recordDispatchEvent(ctx, ledger.DispatchEvent{
		DispatchID: dedupID,
		JobName:    JobSyncLive,
		JobPath:    JobPathSyncLive,
		Status:     ledger.DispatchSent,
		Payload:    payload,
		OccurredAt: now,
	})
	return nil
}

func (s *JobOrchestratorService) recordIncoming(ctx context.Context, jobName, jobPath string, input JobRunInput, runErr error) {
	event := ledger.DispatchEvent{
		DispatchID: strings.TrimSpace(input.DispatchID),
		JobName:    jobName,
		JobPath:    jobPath,
		Status:     ledger.DispatchCompleted,
		Payload:    map[string]any{"dispatch_id": input.DispatchID, "force": input.Force},
	}
	if runErr != nil {
		event.Status = ledger.DispatchFailed
		event.ErrorMessage = runErr.Error()
	}
	s.recordDispatchEvent(ctx, event)
}

func dedupKey(prefix, scope string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	scope = sanitizeDedupSegment(scope)
	return prefix + "-" + scope + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event ledger.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func nearestKickoff(items []match.Match, now time.Time, loc *time.Location) *time.Time {
	var nearest *time.Time
	for _, item := range items {
		kickoff := item.Kickoff(loc)
		if kickoff.IsZero() || kickoff.Before(now) {
			continue
		}
		if nearest == nil || kickoff.Before(*nearest) {
			next := kickoff
			nearest = &next
		}
	}
	return nearest
}

// nextLiveDelay polls every LiveInterval while something is live and wakes up
// PreKickoffLead before the next kickoff otherwise.
func (s *JobOrchestratorService) nextLiveDelay(now time.Time, hasLive bool, nearestUpcoming *time.Time) (time.Duration, bool) {
	if hasLive {
		return s.cfg.LiveInterval, true
	}
	if nearestUpcoming == nil {
		return 0, false
	}

	delay := nearestUpcoming.Add(-s.cfg.PreKickoffLead).Sub(now)
	return maxDuration(delay, s.cfg.LiveInterval), true
}

func maxDuration(left, right time.Duration) time.Duration {
	if left > right {
		return left
	}
	return right
}
