package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// MatchInput carries the fields of the admin match form.
type MatchInput struct {
	HomeTeam        string
	HomeTeamID      int64
	AwayTeam        string
	AwayTeamID      int64
	HomeLogo        string
	AwayLogo        string
	HomeScore       int
	AwayScore       int
	Status          string
	Date            string
	Time            string
	Venue           string
	CompetitionID   int64
	CompetitionName string
}

type MatchWriteResult struct {
	Match match.Match
	FanOutResult
}

// LiveFixtureData is what the match source reports right now for a fixture.
type LiveFixtureData struct {
	StatusShort string
	StatusLong  string
	Lifecycle   match.Lifecycle
	Elapsed     int
	HomeGoals   *int
	AwayGoals   *int
	Lineups     []map[string]any
	Events      []map[string]any
}

type MatchDetails struct {
	Match    match.Match
	Live     *LiveFixtureData
	Warning  string
	Presence []banter.Presence
}

type MatchService struct {
	matches match.Repository
	fanOut  liveFanOut
	rooms   banter.Repository
	source  MatchSource
	ids     idgen.Generator
	loc     *time.Location
	logger  *logging.Logger
	now     func() time.Time
}

func NewMatchService(
	matches match.Repository,
	live match.LiveRepository,
	rooms banter.Repository,
	source MatchSource,
	ids idgen.Generator,
	loc *time.Location,
	logger *logging.Logger,
) *MatchService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matches: matches,
		fanOut:  liveFanOut{matches: matches, live: live, banter: rooms},
		rooms:   rooms,
		source:  source,
		ids:     ids,
		loc:     loc,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	items, err := s.matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) Get(ctx context.Context, id string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	return s.get(ctx, id)
}

func (s *MatchService) Create(ctx context.Context, input MatchInput) (MatchWriteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	id, err := s.ids.NewID()
	if err != nil {
		return MatchWriteResult{}, fmt.Errorf("generate match id: %w", err)
	}
	now := s.now().UTC()
	record := match.Match{
		ID:        id,
		Lineups:   []map[string]any{},
		Events:    []map[string]any{},
		CreatedAt: now,
	}
	if err := s.applyInput(&record, input, now); err != nil {
		return MatchWriteResult{}, err
	}

	return s.write(ctx, record)
}

func (s *MatchService) Update(ctx context.Context, id string, input MatchInput) (MatchWriteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	record, err := s.get(ctx, id)
	if err != nil {
		return MatchWriteResult{}, err
	}
	if err := s.applyInput(&record, input, s.now().UTC()); err != nil {
		return MatchWriteResult{}, err
	}

	return s.write(ctx, record)
}

// Delete removes the match and its live copy. The banter room stays so chat
// history survives.
func (s *MatchService) Delete(ctx context.Context, id string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	record, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.matches.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("delete match id=%s: %w", record.ID, err)
	}
	if _, err := s.fanOut.retract(ctx, record.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", record.ID)
	return nil
}

// SetMatchOfTheDay flips the flag on one match; other matches keep theirs.
func (s *MatchService) SetMatchOfTheDay(ctx context.Context, id string, flag bool) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SetMatchOfTheDay")
	defer span.End()

	record, err := s.get(ctx, id)
	if err != nil {
		return match.Match{}, err
	}
	now := s.now().UTC()
	if err := s.matches.SetMatchOfTheDay(ctx, record.ID, flag, now); err != nil {
		return match.Match{}, fmt.Errorf("set match of the day id=%s: %w", record.ID, err)
	}

	record.IsMatchOfTheDay = flag
	record.UpdatedAt = now
	if record.Status.IsLive() {
		if _, err := s.fanOut.applyWritten(ctx, record); err != nil {
			return match.Match{}, err
		}
	}
	return record, nil
}

// Details combines the stored match, live provider data and room presence.
// Provider trouble degrades to stored data with a warning.
func (s *MatchService) Details(ctx context.Context, id string) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Details")
	defer span.End()

	record, err := s.get(ctx, id)
	if err != nil {
		return MatchDetails{}, err
	}

	details := MatchDetails{Match: record}
	p := pool.New().WithContext(ctx)
	if record.ProviderBacked() && s.source != nil {
		p.Go(func(ctx context.Context) error {
			live, warning := s.liveData(ctx, record.APIMatchID)
			details.Live = live
			details.Warning = warning
			return nil
		})
	}
	p.Go(func(ctx context.Context) error {
		presence, err := s.rooms.ListActiveUsers(ctx, record.ID, banter.DefaultPresenceLimit)
		if err != nil {
			return fmt.Errorf("list banter presence match=%s: %w", record.ID, err)
		}
		details.Presence = presence
		return nil
	})
	if err := p.Wait(); err != nil {
		return MatchDetails{}, err
	}

	return details, nil
}

func (s *MatchService) Presence(ctx context.Context, id string) ([]banter.Presence, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Presence")
	defer span.End()

	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.rooms.ListActiveUsers(ctx, record.ID, banter.DefaultPresenceLimit)
	if err != nil {
		return nil, fmt.Errorf("list banter presence match=%s: %w", record.ID, err)
	}
	return items, nil
}

// WatchPresence streams presence snapshots to fn until ctx ends or fn fails.
func (s *MatchService) WatchPresence(ctx context.Context, id string, fn func([]banter.Presence) error) error {
	record, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	err = s.rooms.WatchActiveUsers(ctx, record.ID, banter.DefaultPresenceLimit, fn)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch banter presence match=%s: %w", record.ID, err)
	}
	return nil
}

func (s *MatchService) liveData(ctx context.Context, fixtureID int64) (*LiveFixtureData, string) {
	fx, found, err := s.source.FixtureByID(ctx, fixtureID)
	if err != nil {
		s.logger.WarnContext(ctx, "live fixture data unavailable", "fixture_id", fixtureID, "error", err)
		return nil, "live data unavailable: " + err.Error()
	}
	if !found {
		return nil, fmt.Sprintf("fixture %d not found at match source", fixtureID)
	}

	return &LiveFixtureData{
		StatusShort: fx.StatusShort,
		StatusLong:  fx.StatusLong,
		Lifecycle:   match.NormalizeStatus(fx.StatusShort),
		Elapsed:     fx.Elapsed,
		HomeGoals:   fx.HomeGoals,
		AwayGoals:   fx.AwayGoals,
		Lineups:     nonNilRows(fx.Lineups),
		Events:      nonNilRows(fx.Events),
	}, ""
}

func (s *MatchService) get(ctx context.Context, id string) (match.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	record, exists, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match id=%s: %w", id, err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match id=%s", ErrNotFound, id)
	}
	return record, nil
}

func (s *MatchService) applyInput(record *match.Match, input MatchInput, now time.Time) error {
	status, err := match.ParseLifecycle(input.Status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	record.HomeTeam = strings.TrimSpace(input.HomeTeam)
	record.HomeTeamID = input.HomeTeamID
	record.AwayTeam = strings.TrimSpace(input.AwayTeam)
	record.AwayTeamID = input.AwayTeamID
	record.HomeLogo = strings.TrimSpace(input.HomeLogo)
	record.AwayLogo = strings.TrimSpace(input.AwayLogo)
	record.HomeScore = input.HomeScore
	record.AwayScore = input.AwayScore
	record.Status = status
	record.Date = strings.TrimSpace(input.Date)
	record.Time = strings.TrimSpace(input.Time)
	record.Venue = strings.TrimSpace(input.Venue)
	record.CompetitionID = input.CompetitionID
	record.CompetitionName = strings.TrimSpace(input.CompetitionName)
	record.UpdatedAt = now

	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	record.MatchDate = record.Kickoff(s.loc).UTC()
	return nil
}

func (s *MatchService) write(ctx context.Context, record match.Match) (MatchWriteResult, error) {
	if _, err := s.matches.Upsert(ctx, record); err != nil {
		return MatchWriteResult{}, fmt.Errorf("upsert match id=%s: %w", record.ID, err)
	}
	fanOut, err := s.fanOut.applyWritten(ctx, record)
	if err != nil {
		return MatchWriteResult{}, err
	}
	return MatchWriteResult{Match: record, FanOutResult: fanOut}, nil
}
