package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	"github.com/riskibarqy/diskichat-admin/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

func TestTeamService_SyncResolvesCurrentSeason(t *testing.T) {
	t.Parallel()

	source := newFakeMatchSource()
	source.competitions[274] = ExternalCompetition{
		ID:   274,
		Name: "Liga 1",
		Seasons: []ExternalSeason{
			{Year: 2024},
			{Year: 2025, Current: true},
		},
	}
	source.teams = []ExternalTeam{
		{ID: 2450, Name: "Persija Jakarta", Venue: ExternalVenue{Name: "Jakarta International Stadium"}},
		{ID: 0, Name: "Broken row"},
	}
	teams := memory.NewTeamRepository(nil)
	ledgerRepo := memory.NewLedgerRepository()
	service := NewTeamService(teams, source, ledgerRepo, idgen.NewSequence("run"), 0, logging.NewNop())

	result, err := service.Sync(t.Context(), 274, 0)
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if result.Season != 2025 || result.Count != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	run, ok, _ := ledgerRepo.GetByID(t.Context(), result.RunID)
	if !ok || run.Failed != 1 || run.Succeeded != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}

	hits, _ := service.List(t.Context(), "international")
	if len(hits) != 1 || hits[0].Season != 2025 {
		t.Fatalf("venue search failed: %+v", hits)
	}
	if _, err := service.Sync(t.Context(), 0, 2025); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCompetitionService_SyncReportsPerIDFailures(t *testing.T) {
	t.Parallel()

	source := newFakeMatchSource()
	source.competitions[39] = ExternalCompetition{ID: 39, Name: "Premier League", Seasons: []ExternalSeason{{Year: 2025, Current: true}}}
	source.competitions[140] = ExternalCompetition{ID: 140, Name: "La Liga", Seasons: []ExternalSeason{{Year: 2024}, {Year: 2025}}}
	source.competitionErr[78] = errSourceDown

	repo := memory.NewCompetitionRepository(nil)
	service := NewCompetitionService(repo, source, memory.NewLedgerRepository(), idgen.NewSequence("run"), nil, logging.NewNop())

	result, err := service.Sync(t.Context(), []int64{39, 78, 140, 999})
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 2 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if result.Items[1].CompetitionID != 78 || result.Items[1].Status != ledger.ItemFailed {
		t.Fatalf("items must keep input order: %+v", result.Items)
	}
	if result.Items[2].Season != 2025 {
		t.Fatalf("expected last season fallback, got %+v", result.Items[2])
	}

	items, _ := service.List(t.Context())
	if len(items) != 2 || items[0].Name != "La Liga" {
		t.Fatalf("expected competitions ordered by name, got %+v", items)
	}
}

func TestCompetitionService_SyncDefaultsToConfiguredIDs(t *testing.T) {
	t.Parallel()

	source := newFakeMatchSource()
	service := NewCompetitionService(memory.NewCompetitionRepository(nil), source, nil, nil, []int64{274, 39}, logging.NewNop())

	result, err := service.Sync(t.Context(), nil)
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if result.Total != 2 || result.Items[0].CompetitionID != 274 {
		t.Fatalf("expected default ids to be synced, got %+v", result)
	}
	if result.RunID != "" {
		t.Fatalf("no ledger configured, expected empty run id")
	}
}
