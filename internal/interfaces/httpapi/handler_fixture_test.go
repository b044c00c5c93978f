package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/diskichat-admin/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

var errFixtureSourceDown = errors.New("api-football unreachable")

type fixtureSource struct {
	mu       sync.Mutex
	upcoming []usecase.ExternalFixture
	details  map[int64]usecase.ExternalFixture
	failures map[int64]error
}

func (s *fixtureSource) UpcomingFixtures(_ context.Context, _ int64, _, next int) ([]usecase.ExternalFixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]usecase.ExternalFixture(nil), s.upcoming...)
	if next > 0 && len(out) > next {
		out = out[:next]
	}
	return out, nil
}

func (s *fixtureSource) FixtureByID(_ context.Context, fixtureID int64) (usecase.ExternalFixture, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[fixtureID]; err != nil {
		return usecase.ExternalFixture{}, false, err
	}
	fx, ok := s.details[fixtureID]
	return fx, ok, nil
}

func (s *fixtureSource) TeamsByCompetition(context.Context, int64, int) ([]usecase.ExternalTeam, error) {
	return nil, nil
}

func (s *fixtureSource) CompetitionByID(context.Context, int64) (usecase.ExternalCompetition, bool, error) {
	return usecase.ExternalCompetition{}, false, nil
}

func soweto(id int64, status string) usecase.ExternalFixture {
	home, away := 1, 1
	return usecase.ExternalFixture{
		ID:              id,
		KickoffAt:       time.Date(2026, time.October, 18, 13, 30, 0, 0, time.UTC),
		StatusShort:     status,
		Venue:           "FNB Stadium",
		CompetitionID:   288,
		CompetitionName: "Premier Soccer League",
		HomeTeamID:      2699,
		HomeTeam:        "Kaizer Chiefs",
		AwayTeamID:      2700,
		AwayTeam:        "Orlando Pirates",
		HomeGoals:       &home,
		AwayGoals:       &away,
	}
}

type fixtureServer struct {
	testServer
	matches *memory.MatchRepository
}

func newFixtureServer(t *testing.T, source *fixtureSource) fixtureServer {
	t.Helper()

	matches := memory.NewMatchRepository(nil)
	live := memory.NewLiveMatchRepository()
	rooms := memory.NewBanterRepository()
	ledger := memory.NewLedgerRepository()
	logger := logging.NewNop()

	services := Services{
		Importer: usecase.NewFixtureImportService(source, matches, live, rooms, ledger,
			idgen.NewSequence("run"), nil, usecase.FixtureImportConfig{MaxWorkers: 2}, logger),
		SyncRuns: usecase.NewSyncRunService(ledger),
	}
	router := NewRouter(RouterConfig{
		Handler:          NewHandler(services, logger),
		Verifier:         staticVerifier{},
		Logger:           logger,
		CORSOrigins:      []string{"*"},
		InternalJobToken: testJobToken,
	})
	return fixtureServer{
		testServer: testServer{router: router, rooms: rooms, live: live, ledger: ledger},
		matches:    matches,
	}
}

type importEnvelope struct {
	Data struct {
		RunID     string `json:"run_id"`
		Total     int    `json:"total"`
		Succeeded int    `json:"succeeded"`
		Failed    int    `json:"failed"`
		Items     []struct {
			FixtureID int64  `json:"fixture_id"`
			Status    string `json:"status"`
			Message   string `json:"message"`
			Result    *struct {
				MatchID string `json:"match_id"`
				Live    bool   `json:"live"`
			} `json:"result"`
		} `json:"items"`
	} `json:"data"`
}

func TestImportFixtures_PartialFailureStillAnswers200(t *testing.T) {
	t.Parallel()

	source := &fixtureSource{
		details: map[int64]usecase.ExternalFixture{
			101: soweto(101, "2H"),
			103: soweto(103, "NS"),
		},
		failures: map[int64]error{102: errFixtureSourceDown},
	}
	srv := newFixtureServer(t, source)

	rec := srv.do(t, http.MethodPost, "/v1/fixtures/import", testAdminToken, `{"fixture_ids":[101,102,103]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var body importEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	data := body.Data
	if data.Total != 3 || data.Succeeded != 2 || data.Failed != 1 || data.RunID == "" {
		t.Fatalf("unexpected counters: %+v", data)
	}
	if len(data.Items) != 3 {
		t.Fatalf("expected 3 items, got=%d", len(data.Items))
	}
	for idx, want := range []int64{101, 102, 103} {
		if data.Items[idx].FixtureID != want {
			t.Fatalf("item %d: fixture_id=%d want=%d", idx, data.Items[idx].FixtureID, want)
		}
	}
	if failed := data.Items[1]; failed.Status != "failed" || failed.Message == "" || failed.Result != nil {
		t.Fatalf("unexpected failed item: %+v", failed)
	}
	if first := data.Items[0]; first.Status != "succeeded" || first.Result == nil || !first.Result.Live {
		t.Fatalf("unexpected live item: %+v", first)
	}

	if exists, _ := srv.live.Exists(t.Context(), "101"); !exists {
		t.Fatalf("expected live copy for fixture 101")
	}
	if _, ok, _ := srv.matches.GetByID(t.Context(), "102"); ok {
		t.Fatalf("failed fixture must not be stored")
	}

	runRec := srv.do(t, http.MethodGet, "/v1/sync-runs/"+data.RunID, testAdminToken, "")
	if runRec.Code != http.StatusOK {
		t.Fatalf("expected recorded sync run, got %d", runRec.Code)
	}
}

func TestImportFixtures_RejectsEmptyIDList(t *testing.T) {
	t.Parallel()

	srv := newFixtureServer(t, &fixtureSource{})
	for _, payload := range []string{`{"fixture_ids":[]}`, `{"fixture_ids":[0]}`, `{"ids":[1]}`} {
		rec := srv.do(t, http.MethodPost, "/v1/fixtures/import", testAdminToken, payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestListUpcomingFixtures_FlagsImportedRows(t *testing.T) {
	t.Parallel()

	source := &fixtureSource{
		upcoming: []usecase.ExternalFixture{soweto(201, "NS"), soweto(202, "HT"), soweto(203, "NS")},
		details:  map[int64]usecase.ExternalFixture{201: soweto(201, "NS")},
	}
	srv := newFixtureServer(t, source)

	if rec := srv.do(t, http.MethodPost, "/v1/fixtures/import", testAdminToken, `{"fixture_ids":[201]}`); rec.Code != http.StatusOK {
		t.Fatalf("seed import: expected 200, got %d", rec.Code)
	}

	rec := srv.do(t, http.MethodGet, "/v1/competitions/288/fixtures?next=2", testAdminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data []struct {
			ID        int64  `json:"id"`
			Lifecycle string `json:"lifecycle"`
			Imported  bool   `json:"imported"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected next=2 rows, got=%d", len(body.Data))
	}
	if row := body.Data[0]; row.ID != 201 || row.Lifecycle != "upcoming" || !row.Imported {
		t.Fatalf("unexpected first row: %+v", row)
	}
	if row := body.Data[1]; row.ID != 202 || row.Lifecycle != "live" || row.Imported {
		t.Fatalf("unexpected second row: %+v", row)
	}
}

func TestListUpcomingFixtures_RejectsBadCompetition(t *testing.T) {
	t.Parallel()

	srv := newFixtureServer(t, &fixtureSource{})
	for _, path := range []string{"/v1/competitions/abc/fixtures", "/v1/competitions/0/fixtures", "/v1/competitions/288/fixtures?next=x"} {
		rec := srv.do(t, http.MethodGet, path, testAdminToken, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}
