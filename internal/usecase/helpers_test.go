package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

var errSourceDown = errors.New("match source down")

type fakeMatchSource struct {
	mu             sync.Mutex
	upcoming       []ExternalFixture
	upcomingErr    error
	details        map[int64]ExternalFixture
	detailErrs     map[int64]error
	teams          []ExternalTeam
	competitions   map[int64]ExternalCompetition
	competitionErr map[int64]error
	detailCalls    int
	lastSeason     int
}

func newFakeMatchSource() *fakeMatchSource {
	return &fakeMatchSource{
		details:        make(map[int64]ExternalFixture),
		detailErrs:     make(map[int64]error),
		competitions:   make(map[int64]ExternalCompetition),
		competitionErr: make(map[int64]error),
	}
}

func (f *fakeMatchSource) setDetail(fx ExternalFixture) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[fx.ID] = fx
}

func (f *fakeMatchSource) UpcomingFixtures(_ context.Context, _ int64, season, next int) ([]ExternalFixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeason = season
	if f.upcomingErr != nil {
		return nil, f.upcomingErr
	}
	out := append([]ExternalFixture(nil), f.upcoming...)
	if next > 0 && len(out) > next {
		out = out[:next]
	}
	return out, nil
}

func (f *fakeMatchSource) FixtureByID(_ context.Context, fixtureID int64) (ExternalFixture, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	if err := f.detailErrs[fixtureID]; err != nil {
		return ExternalFixture{}, false, err
	}
	fx, ok := f.details[fixtureID]
	return fx, ok, nil
}

func (f *fakeMatchSource) TeamsByCompetition(_ context.Context, _ int64, season int) ([]ExternalTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeason = season
	return append([]ExternalTeam(nil), f.teams...), nil
}

func (f *fakeMatchSource) CompetitionByID(_ context.Context, competitionID int64) (ExternalCompetition, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.competitionErr[competitionID]; err != nil {
		return ExternalCompetition{}, false, err
	}
	item, ok := f.competitions[competitionID]
	return item, ok, nil
}

type recordedEnqueue struct {
	path    string
	delay   time.Duration
	dedupID string
}

type fakeJobQueue struct {
	mu    sync.Mutex
	calls []recordedEnqueue
	err   error
}

func (q *fakeJobQueue) Enqueue(_ context.Context, path string, _ any, delay time.Duration, deduplicationID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, recordedEnqueue{path: path, delay: delay, dedupID: deduplicationID})
	return q.err
}

type importHarness struct {
	source  *fakeMatchSource
	matches *memory.MatchRepository
	live    *memory.LiveMatchRepository
	rooms   *memory.BanterRepository
	ledger  *memory.LedgerRepository
	service *FixtureImportService
}

var testNow = time.Date(2026, time.February, 14, 12, 0, 0, 0, time.UTC)

func newImportHarness(cfg FixtureImportConfig) *importHarness {
	h := &importHarness{
		source:  newFakeMatchSource(),
		matches: memory.NewMatchRepository(nil),
		live:    memory.NewLiveMatchRepository(),
		rooms:   memory.NewBanterRepository(),
		ledger:  memory.NewLedgerRepository(),
	}
	h.service = NewFixtureImportService(
		h.source,
		h.matches,
		h.live,
		h.rooms,
		h.ledger,
		idgen.NewSequence("run"),
		nil,
		cfg,
		logging.NewNop(),
	)
	h.service.now = func() time.Time { return testNow }
	return h
}

func intPtr(v int) *int {
	return &v
}

func persijaPersib(id int64, status string) ExternalFixture {
	return ExternalFixture{
		ID:              id,
		KickoffAt:       time.Date(2026, time.February, 14, 12, 0, 0, 0, time.UTC),
		StatusShort:     status,
		Venue:           "Jakarta International Stadium",
		CompetitionID:   274,
		CompetitionName: "Liga 1",
		HomeTeamID:      2450,
		HomeTeam:        "Persija Jakarta",
		AwayTeamID:      2445,
		AwayTeam:        "Persib Bandung",
		HomeGoals:       intPtr(1),
		AwayGoals:       intPtr(0),
		Lineups:         []map[string]any{{"team": "Persija Jakarta"}},
		Events:          []map[string]any{{"type": "Goal", "minute": 23}},
	}
}
