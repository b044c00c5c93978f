package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/competition"
	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const competitionSyncConcurrency = 4

type CompetitionSyncItem struct {
	CompetitionID int64             `json:"competition_id"`
	Name          string            `json:"name,omitempty"`
	Season        int               `json:"season,omitempty"`
	Status        ledger.ItemStatus `json:"status"`
	Message       string            `json:"message,omitempty"`
}

type CompetitionSyncResult struct {
	RunID     string                `json:"run_id"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Items     []CompetitionSyncItem `json:"items"`
}

type CompetitionService struct {
	competitions competition.Repository
	source       MatchSource
	runs         ledger.SyncRunRepository
	ids          idgen.Generator
	defaultIDs   []int64
	logger       *logging.Logger
	now          func() time.Time
}

func NewCompetitionService(
	competitions competition.Repository,
	source MatchSource,
	runs ledger.SyncRunRepository,
	ids idgen.Generator,
	defaultIDs []int64,
	logger *logging.Logger,
) *CompetitionService {
	if len(defaultIDs) == 0 {
		defaultIDs = competition.DefaultIDs
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &CompetitionService{
		competitions: competitions,
		source:       source,
		runs:         runs,
		ids:          ids,
		defaultIDs:   defaultIDs,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *CompetitionService) List(ctx context.Context) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.List")
	defer span.End()

	items, err := s.competitions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	return items, nil
}

// Sync refreshes the given competitions, or the configured defaults when ids
// is empty. A failing id is reported in its item and does not stop the rest.
func (s *CompetitionService) Sync(ctx context.Context, ids []int64) (CompetitionSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Sync")
	defer span.End()

	if len(ids) == 0 {
		ids = s.defaultIDs
	}
	for _, competitionID := range ids {
		if competitionID <= 0 {
			return CompetitionSyncResult{}, fmt.Errorf("%w: competition ids must be positive, got %d", ErrInvalidInput, competitionID)
		}
	}

	run := ledger.SyncRun{Kind: ledger.RunKindCompetitions, Trigger: "admin", StartedAt: s.now().UTC()}
	items := make([]CompetitionSyncItem, len(ids))
	p := pool.New().WithMaxGoroutines(competitionSyncConcurrency)
	for idx, competitionID := range ids {
		p.Go(func() {
			items[idx] = s.syncOne(ctx, competitionID)
		})
	}
	p.Wait()

	for _, item := range items {
		run.Add(ledger.SyncItem{Ref: strconv.FormatInt(item.CompetitionID, 10), Status: item.Status, Message: item.Message})
	}
	run.FinishedAt = s.now().UTC()

	return CompetitionSyncResult{
		RunID:     saveSyncRun(ctx, s.runs, s.ids, s.logger, run),
		Total:     run.Total,
		Succeeded: run.Succeeded,
		Failed:    run.Failed,
		Items:     items,
	}, nil
}

func (s *CompetitionService) syncOne(ctx context.Context, competitionID int64) CompetitionSyncItem {
	failed := func(msg string) CompetitionSyncItem {
		s.logger.WarnContext(ctx, "competition sync failed", "competition_id", competitionID, "error", msg)
		return CompetitionSyncItem{CompetitionID: competitionID, Status: ledger.ItemFailed, Message: msg}
	}

	ext, found, err := s.source.CompetitionByID(ctx, competitionID)
	if err != nil {
		return failed(err.Error())
	}
	if !found {
		return failed("competition not found at match source")
	}

	season, _ := ext.CurrentSeason()
	item := competition.Competition{
		ID:          ext.ID,
		Name:        ext.Name,
		Type:        ext.Type,
		Logo:        ext.Logo,
		CountryName: ext.CountryName,
		CountryCode: ext.CountryCode,
		CountryFlag: ext.CountryFlag,
		SeasonYear:  season.Year,
		UpdatedAt:   s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return failed(err.Error())
	}
	if err := s.competitions.Upsert(ctx, item); err != nil {
		return failed(err.Error())
	}

	return CompetitionSyncItem{
		CompetitionID: competitionID,
		Name:          item.Name,
		Season:        item.SeasonYear,
		Status:        ledger.ItemSucceeded,
	}
}
