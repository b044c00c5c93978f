package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

const (
	defaultUpcomingNext   = 20
	maxUpcomingNext       = 99
	maxImportBatchSize    = 100
	defaultImportWorkers  = 4
	importOutcomeOK       = "ok"
	importOutcomeError    = "error"
	importOutcomeFallback = "fallback"
)

type FixtureImportConfig struct {
	// DefaultSeason is sent with upcoming listings when > 0.
	DefaultSeason int
	// Location formats the stored date and time fields.
	Location   *time.Location
	MaxWorkers int
}

// FixtureSummary is one row of the upcoming fixtures browser.
type FixtureSummary struct {
	Fixture   ExternalFixture
	Lifecycle match.Lifecycle
	Imported  bool
}

type ImportResult struct {
	FixtureID   int64           `json:"fixture_id"`
	MatchID     string          `json:"match_id"`
	Lifecycle   match.Lifecycle `json:"lifecycle"`
	Created     bool            `json:"created"`
	UsedSummary bool            `json:"used_summary"`
	FanOutResult
}

type ImportBatchInput struct {
	FixtureIDs []int64
	// Summaries are listing rows the caller already holds; keyed by fixture id
	// they serve as the fallback when a detail fetch fails.
	Summaries []ExternalFixture
	Trigger   string
}

type ImportBatchItem struct {
	FixtureID int64             `json:"fixture_id"`
	Status    ledger.ItemStatus `json:"status"`
	Message   string            `json:"message,omitempty"`
	Result    *ImportResult     `json:"result,omitempty"`
}

type ImportBatchResult struct {
	RunID     string            `json:"run_id"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []ImportBatchItem `json:"items"`
}

// FixtureImportService copies provider fixtures into the matches collection
// and fans live ones out to live_matches and banter_rooms.
type FixtureImportService struct {
	source  MatchSource
	matches match.Repository
	fanOut  liveFanOut
	runs    ledger.SyncRunRepository
	ids     idgen.Generator
	metrics MetricsRecorder
	cfg     FixtureImportConfig
	logger  *logging.Logger
	now     func() time.Time
}

func NewFixtureImportService(
	source MatchSource,
	matches match.Repository,
	live match.LiveRepository,
	rooms banter.Repository,
	runs ledger.SyncRunRepository,
	ids idgen.Generator,
	metrics MetricsRecorder,
	cfg FixtureImportConfig,
	logger *logging.Logger,
) *FixtureImportService {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultImportWorkers
	}

	return &FixtureImportService{
		source:  source,
		matches: matches,
		fanOut:  liveFanOut{matches: matches, live: live, banter: rooms},
		runs:    runs,
		ids:     ids,
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *FixtureImportService) ListUpcoming(ctx context.Context, competitionID int64, next int) ([]FixtureSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureImportService.ListUpcoming")
	defer span.End()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if next == 0 {
		next = defaultUpcomingNext
	}
	if next < 0 || next > maxUpcomingNext {
		return nil, fmt.Errorf("%w: next must be between 1 and %d", ErrInvalidInput, maxUpcomingNext)
	}

	fixtures, err := s.source.UpcomingFixtures(ctx, competitionID, s.cfg.DefaultSeason, next)
	if err != nil {
		return nil, fmt.Errorf("list upcoming fixtures competition=%d: %w", competitionID, err)
	}

	ids := make([]string, 0, len(fixtures))
	for _, fx := range fixtures {
		ids = append(ids, matchIDForFixture(fx.ID))
	}
	existing, err := s.matches.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check imported fixtures: %w", err)
	}

	out := make([]FixtureSummary, 0, len(fixtures))
	for _, fx := range fixtures {
		out = append(out, FixtureSummary{
			Fixture:   fx,
			Lifecycle: match.NormalizeStatus(fx.StatusShort),
			Imported:  existing[matchIDForFixture(fx.ID)],
		})
	}
	return out, nil
}

// ImportFixture imports one fixture. summary is optional; without it a failed
// detail fetch fails the import.
func (s *FixtureImportService) ImportFixture(ctx context.Context, fixtureID int64, summary *ExternalFixture) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureImportService.ImportFixture")
	defer span.End()

	return s.importFixture(ctx, fixtureID, summary, false)
}

// SeedLive imports the next fixture of a competition. With forceLive the stored
// record is marked live regardless of the provider status, which gives the
// consumer app something to render outside match days.
func (s *FixtureImportService) SeedLive(ctx context.Context, competitionID int64, forceLive bool) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureImportService.SeedLive")
	defer span.End()

	if competitionID <= 0 {
		return ImportResult{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	fixtures, err := s.source.UpcomingFixtures(ctx, competitionID, s.cfg.DefaultSeason, 1)
	if err != nil {
		return ImportResult{}, fmt.Errorf("fetch next fixture competition=%d: %w", competitionID, err)
	}
	if len(fixtures) == 0 {
		return ImportResult{}, fmt.Errorf("%w: no upcoming fixture for competition=%d", ErrNotFound, competitionID)
	}

	next := fixtures[0]
	return s.importFixture(ctx, next.ID, &next, forceLive)
}

func (s *FixtureImportService) ImportBatch(ctx context.Context, input ImportBatchInput) (ImportBatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureImportService.ImportBatch")
	defer span.End()

	if len(input.FixtureIDs) == 0 {
		return ImportBatchResult{}, fmt.Errorf("%w: at least one fixture id is required", ErrInvalidInput)
	}
	if len(input.FixtureIDs) > maxImportBatchSize {
		return ImportBatchResult{}, fmt.Errorf("%w: at most %d fixtures per batch", ErrInvalidInput, maxImportBatchSize)
	}
	for _, fixtureID := range input.FixtureIDs {
		if fixtureID <= 0 {
			return ImportBatchResult{}, fmt.Errorf("%w: fixture ids must be positive, got %d", ErrInvalidInput, fixtureID)
		}
	}

	summaries := make(map[int64]ExternalFixture, len(input.Summaries))
	for _, item := range input.Summaries {
		summaries[item.ID] = item
	}

	run := ledger.SyncRun{
		Kind:      ledger.RunKindImport,
		Trigger:   triggerOrDefault(input.Trigger),
		StartedAt: s.now().UTC(),
	}

	items := make([]ImportBatchItem, len(input.FixtureIDs))
	workerCount := min(s.cfg.MaxWorkers, len(input.FixtureIDs))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ImportBatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx, fixtureID := range input.FixtureIDs {
		var summary *ExternalFixture
		if row, ok := summaries[fixtureID]; ok {
			summary = &row
		}

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			items[idx] = s.importBatchItem(ctx, fixtureID, summary)
		}); err != nil {
			workers.Done()
			items[idx] = ImportBatchItem{FixtureID: fixtureID, Status: ledger.ItemFailed, Message: "submit to worker pool: " + err.Error()}
		}
	}
	workers.Wait()

	for _, item := range items {
		run.Add(ledger.SyncItem{Ref: strconv.FormatInt(item.FixtureID, 10), Status: item.Status, Message: item.Message})
	}
	run.FinishedAt = s.now().UTC()
	runID := saveSyncRun(ctx, s.runs, s.ids, s.logger, run)

	s.logger.InfoContext(ctx, "fixture import batch finished",
		"run_id", runID,
		"total", run.Total,
		"succeeded", run.Succeeded,
		"failed", run.Failed,
	)

	return ImportBatchResult{
		RunID:     runID,
		Total:     run.Total,
		Succeeded: run.Succeeded,
		Failed:    run.Failed,
		Items:     items,
	}, nil
}

func (s *FixtureImportService) importBatchItem(ctx context.Context, fixtureID int64, summary *ExternalFixture) ImportBatchItem {
	result, err := s.importFixture(ctx, fixtureID, summary, false)
	if err != nil {
		return ImportBatchItem{FixtureID: fixtureID, Status: ledger.ItemFailed, Message: err.Error()}
	}
	return ImportBatchItem{FixtureID: fixtureID, Status: ledger.ItemSucceeded, Result: &result}
}

func (s *FixtureImportService) importFixture(ctx context.Context, fixtureID int64, summary *ExternalFixture, forceLive bool) (ImportResult, error) {
	if fixtureID <= 0 {
		return ImportResult{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	fx, usedSummary, err := s.resolveFixture(ctx, fixtureID, summary)
	if err != nil {
		s.metrics.RecordImport(ctx, "", importOutcomeError)
		return ImportResult{}, err
	}

	record, err := s.buildMatch(fx)
	if err != nil {
		s.metrics.RecordImport(ctx, "", importOutcomeError)
		return ImportResult{}, err
	}
	if forceLive {
		record.Status = match.LifecycleLive
	}

	created, err := s.matches.Upsert(ctx, record)
	if err != nil {
		s.metrics.RecordImport(ctx, record.Status.String(), importOutcomeError)
		return ImportResult{}, fmt.Errorf("upsert match id=%s: %w", record.ID, err)
	}
	fanOut, err := s.fanOut.applyWritten(ctx, record)
	if err != nil {
		s.metrics.RecordImport(ctx, record.Status.String(), importOutcomeError)
		return ImportResult{}, err
	}

	outcome := importOutcomeOK
	if usedSummary {
		outcome = importOutcomeFallback
	}
	s.metrics.RecordImport(ctx, record.Status.String(), outcome)

	return ImportResult{
		FixtureID:    fixtureID,
		MatchID:      record.ID,
		Lifecycle:    record.Status,
		Created:      created,
		UsedSummary:  usedSummary,
		FanOutResult: fanOut,
	}, nil
}

// resolveFixture prefers the detail endpoint because only it carries lineups
// and events; the listing row is the fallback.
func (s *FixtureImportService) resolveFixture(ctx context.Context, fixtureID int64, summary *ExternalFixture) (ExternalFixture, bool, error) {
	detail, found, err := s.source.FixtureByID(ctx, fixtureID)
	if err == nil && found {
		return detail, false, nil
	}

	if summary != nil {
		s.logger.WarnContext(ctx, "fixture detail unavailable, importing listing row",
			"fixture_id", fixtureID,
			"found", found,
			"error", err,
		)
		fallback := *summary
		fallback.ID = fixtureID
		fallback.Lineups = []map[string]any{}
		fallback.Events = []map[string]any{}
		return fallback, true, nil
	}

	if err != nil {
		return ExternalFixture{}, false, fmt.Errorf("fetch fixture id=%d: %w", fixtureID, err)
	}
	return ExternalFixture{}, false, fmt.Errorf("%w: fixture id=%d", ErrNotFound, fixtureID)
}

func (s *FixtureImportService) buildMatch(fx ExternalFixture) (match.Match, error) {
	if fx.KickoffAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: fixture id=%d has no kickoff time", ErrInvalidInput, fx.ID)
	}
	now := s.now().UTC()
	local := fx.KickoffAt.In(s.cfg.Location)

	return match.Match{
		ID:              matchIDForFixture(fx.ID),
		HomeTeam:        fx.HomeTeam,
		HomeTeamID:      fx.HomeTeamID,
		AwayTeam:        fx.AwayTeam,
		AwayTeamID:      fx.AwayTeamID,
		HomeLogo:        fx.HomeLogo,
		AwayLogo:        fx.AwayLogo,
		HomeScore:       goalsOrZero(fx.HomeGoals),
		AwayScore:       goalsOrZero(fx.AwayGoals),
		Status:          match.NormalizeStatus(fx.StatusShort),
		Date:            local.Format(match.DateLayout),
		Time:            local.Format(match.TimeLayout),
		Venue:           fx.Venue,
		CompetitionID:   fx.CompetitionID,
		CompetitionName: fx.CompetitionName,
		APIMatchID:      fx.ID,
		MatchDate:       fx.KickoffAt.UTC(),
		Lineups:         nonNilRows(fx.Lineups),
		Events:          nonNilRows(fx.Events),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func matchIDForFixture(fixtureID int64) string {
	return strconv.FormatInt(fixtureID, 10)
}

func goalsOrZero(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func nonNilRows(rows []map[string]any) []map[string]any {
	if rows == nil {
		return []map[string]any{}
	}
	return rows
}

func triggerOrDefault(trigger string) string {
	if trigger == "" {
		return "admin"
	}
	return trigger
}

// saveSyncRun assigns an id and persists the run. Ledger failures are logged;
// the batch itself already happened.
func saveSyncRun(ctx context.Context, repo ledger.SyncRunRepository, ids idgen.Generator, logger *logging.Logger, run ledger.SyncRun) string {
	if repo == nil || ids == nil {
		return ""
	}
	runID, err := ids.NewID()
	if err != nil {
		logger.WarnContext(ctx, "generate sync run id failed", "kind", run.Kind, "error", err)
		return ""
	}
	run.ID = runID
	if err := repo.Save(ctx, run); err != nil {
		logger.WarnContext(ctx, "record sync run failed", "run_id", runID, "kind", run.Kind, "error", err)
		return ""
	}
	return runID
}
