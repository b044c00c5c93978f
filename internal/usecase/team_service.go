package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/domain/team"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

type TeamSyncResult struct {
	RunID         string `json:"run_id"`
	CompetitionID int64  `json:"competition_id"`
	Season        int    `json:"season"`
	Count         int    `json:"count"`
}

type TeamService struct {
	teams         team.Repository
	source        MatchSource
	runs          ledger.SyncRunRepository
	ids           idgen.Generator
	defaultSeason int
	logger        *logging.Logger
	now           func() time.Time
}

func NewTeamService(
	teams team.Repository,
	source MatchSource,
	runs ledger.SyncRunRepository,
	ids idgen.Generator,
	defaultSeason int,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teams:         teams,
		source:        source,
		runs:          runs,
		ids:           ids,
		defaultSeason: defaultSeason,
		logger:        logger,
		now:           time.Now,
	}
}

// List returns teams ordered by name; query matches team or venue name.
func (s *TeamService) List(ctx context.Context, query string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	items, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items, nil
	}

	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) || strings.Contains(strings.ToLower(item.Venue.Name), query) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Sync pulls every team of a competition season from the match source. With no
// season given the configured default is used, then the competition's current one.
func (s *TeamService) Sync(ctx context.Context, competitionID int64, season int) (TeamSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Sync")
	defer span.End()

	if competitionID <= 0 {
		return TeamSyncResult{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	season, err := s.resolveSeason(ctx, competitionID, season)
	if err != nil {
		return TeamSyncResult{}, err
	}

	run := ledger.SyncRun{Kind: ledger.RunKindTeams, Trigger: "admin", StartedAt: s.now().UTC()}
	external, err := s.source.TeamsByCompetition(ctx, competitionID, season)
	if err != nil {
		return TeamSyncResult{}, fmt.Errorf("fetch teams competition=%d season=%d: %w", competitionID, season, err)
	}

	now := s.now().UTC()
	items := make([]team.Team, 0, len(external))
	for _, ext := range external {
		item := teamFromExternal(ext, season, now)
		if err := item.Validate(); err != nil {
			run.Add(ledger.SyncItem{Ref: strconv.FormatInt(ext.ID, 10), Status: ledger.ItemFailed, Message: err.Error()})
			continue
		}
		items = append(items, item)
	}
	if err := s.teams.UpsertMany(ctx, items); err != nil {
		return TeamSyncResult{}, fmt.Errorf("upsert teams competition=%d: %w", competitionID, err)
	}
	for _, item := range items {
		run.Add(ledger.SyncItem{Ref: strconv.FormatInt(item.ID, 10), Status: ledger.ItemSucceeded})
	}
	run.FinishedAt = s.now().UTC()

	s.logger.InfoContext(ctx, "teams synced", "competition_id", competitionID, "season", season, "count", len(items))
	return TeamSyncResult{
		RunID:         saveSyncRun(ctx, s.runs, s.ids, s.logger, run),
		CompetitionID: competitionID,
		Season:        season,
		Count:         len(items),
	}, nil
}

func (s *TeamService) resolveSeason(ctx context.Context, competitionID int64, season int) (int, error) {
	if season > 0 {
		return season, nil
	}
	if s.defaultSeason > 0 {
		return s.defaultSeason, nil
	}

	comp, found, err := s.source.CompetitionByID(ctx, competitionID)
	if err != nil {
		return 0, fmt.Errorf("resolve current season competition=%d: %w", competitionID, err)
	}
	current, ok := comp.CurrentSeason()
	if !found || !ok {
		return 0, fmt.Errorf("%w: no season known for competition=%d", ErrInvalidInput, competitionID)
	}
	return current.Year, nil
}

func teamFromExternal(ext ExternalTeam, season int, now time.Time) team.Team {
	return team.Team{
		ID:       ext.ID,
		Name:     strings.TrimSpace(ext.Name),
		Code:     ext.Code,
		Country:  ext.Country,
		Founded:  ext.Founded,
		National: ext.National,
		Logo:     ext.Logo,
		Venue: team.Venue{
			ID:       ext.Venue.ID,
			Name:     ext.Venue.Name,
			Address:  ext.Venue.Address,
			City:     ext.Venue.City,
			Capacity: ext.Venue.Capacity,
			Surface:  ext.Venue.Surface,
			Image:    ext.Venue.Image,
		},
		Season:    season,
		UpdatedAt: now,
	}
}
