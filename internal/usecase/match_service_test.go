package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	idgen "github.com/riskibarqy/diskichat-admin/internal/platform/id"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

func newMatchHarness() (*importHarness, *MatchService) {
	h := newImportHarness(FixtureImportConfig{})
	svc := NewMatchService(h.matches, h.live, h.rooms, h.source, idgen.NewSequence("match"), time.UTC, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return h, svc
}

func derbyInput(status string) MatchInput {
	return MatchInput{
		HomeTeam:        "Persija Jakarta",
		AwayTeam:        "Persib Bandung",
		HomeScore:       0,
		AwayScore:       0,
		Status:          status,
		Date:            "2026-02-20",
		Time:            "19:00",
		Venue:           "Jakarta International Stadium",
		CompetitionName: "Liga 1",
	}
}

func TestMatchService_CreateAcceptsLegacyScheduledLabel(t *testing.T) {
	t.Parallel()

	h, svc := newMatchHarness()
	result, err := svc.Create(t.Context(), derbyInput("Scheduled"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if result.Match.ID != "match-1" || result.Match.Status != match.LifecycleUpcoming {
		t.Fatalf("unexpected match: %+v", result.Match)
	}
	if result.Match.ProviderBacked() {
		t.Fatalf("manual match must not carry an api match id")
	}
	if want := time.Date(2026, time.February, 20, 19, 0, 0, 0, time.UTC); !result.Match.MatchDate.Equal(want) {
		t.Fatalf("unexpected matchDate: %s", result.Match.MatchDate)
	}
	if exists, _ := h.live.Exists(t.Context(), "match-1"); exists {
		t.Fatalf("upcoming manual match must not be live")
	}
}

func TestMatchService_CreateRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	_, svc := newMatchHarness()
	cases := map[string]MatchInput{
		"status": derbyInput("postponed"),
		"teams":  func() MatchInput { in := derbyInput("live"); in.AwayTeam = " "; return in }(),
		"date":   func() MatchInput { in := derbyInput("live"); in.Date = "20/02/2026"; return in }(),
		"score":  func() MatchInput { in := derbyInput("live"); in.HomeScore = -1; return in }(),
	}
	for name, input := range cases {
		if _, err := svc.Create(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestMatchService_UpdateAppliesFanOutRules(t *testing.T) {
	t.Parallel()

	h, svc := newMatchHarness()
	created, err := svc.Create(t.Context(), derbyInput("live"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !created.Live || !created.RoomCreated {
		t.Fatalf("live manual match should fan out: %+v", created.FanOutResult)
	}

	input := derbyInput("finished")
	input.HomeScore = 3
	updated, err := svc.Update(t.Context(), created.Match.ID, input)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.Retracted {
		t.Fatalf("finishing a match must retract its live copy")
	}
	if !updated.Match.CreatedAt.Equal(created.Match.CreatedAt) {
		t.Fatalf("update must keep createdAt")
	}
	if exists, _ := h.live.Exists(t.Context(), created.Match.ID); exists {
		t.Fatalf("live copy still present after finish")
	}

	if _, err := svc.Update(t.Context(), "missing", input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_DeleteRemovesLiveCopy(t *testing.T) {
	t.Parallel()

	h, svc := newMatchHarness()
	created, _ := svc.Create(t.Context(), derbyInput("live"))

	if err := svc.Delete(t.Context(), created.Match.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok, _ := h.matches.GetByID(t.Context(), created.Match.ID); ok {
		t.Fatalf("match should be deleted")
	}
	if exists, _ := h.live.Exists(t.Context(), created.Match.ID); exists {
		t.Fatalf("live copy should be deleted")
	}
	if err := svc.Delete(t.Context(), created.Match.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMatchService_MatchOfTheDayIsNotExclusive(t *testing.T) {
	t.Parallel()

	h, svc := newMatchHarness()
	first, _ := svc.Create(t.Context(), derbyInput("upcoming"))
	second, _ := svc.Create(t.Context(), derbyInput("upcoming"))

	for _, id := range []string{first.Match.ID, second.Match.ID} {
		if _, err := svc.SetMatchOfTheDay(t.Context(), id, true); err != nil {
			t.Fatalf("SetMatchOfTheDay(%s) error: %v", id, err)
		}
	}
	for _, id := range []string{first.Match.ID, second.Match.ID} {
		stored, _, _ := h.matches.GetByID(t.Context(), id)
		if !stored.IsMatchOfTheDay {
			t.Fatalf("match %s lost its flag", id)
		}
	}

	if _, err := svc.Update(t.Context(), first.Match.ID, derbyInput("upcoming")); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	stored, _, _ := h.matches.GetByID(t.Context(), first.Match.ID)
	if !stored.IsMatchOfTheDay {
		t.Fatalf("form edits must not clear the match of the day flag")
	}
}

func TestMatchService_MatchOfTheDayReachesLiveCopy(t *testing.T) {
	t.Parallel()

	h, svc := newMatchHarness()
	created, err := svc.Create(t.Context(), derbyInput("live"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := svc.SetMatchOfTheDay(t.Context(), created.Match.ID, true); err != nil {
		t.Fatalf("SetMatchOfTheDay error: %v", err)
	}

	liveItems, _ := h.live.List(t.Context())
	if len(liveItems) != 1 || !liveItems[0].IsMatchOfTheDay {
		t.Fatalf("expected flagged live copy, got=%+v", liveItems)
	}

	edit := derbyInput("live")
	edit.HomeScore = 1
	if _, err := svc.Update(t.Context(), created.Match.ID, edit); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	liveItems, _ = h.live.List(t.Context())
	if len(liveItems) != 1 || !liveItems[0].IsMatchOfTheDay || liveItems[0].HomeScore != 1 {
		t.Fatalf("live copy drifted after edit: %+v", liveItems)
	}
}

func TestMatchService_DetailsDegradesWhenProviderFails(t *testing.T) {
	t.Parallel()

	h, svc := newMatchHarness()
	h.source.setDetail(persijaPersib(500, "2H"))
	importer := h.service
	if _, err := importer.ImportFixture(t.Context(), 500, nil); err != nil {
		t.Fatalf("seed import: %v", err)
	}
	h.rooms.Touch("500", banter.Presence{UserID: "u-1", DisplayName: "Rizky", LastActive: testNow})
	h.rooms.Touch("500", banter.Presence{UserID: "u-2", DisplayName: "Dewi", LastActive: testNow.Add(time.Minute)})

	details, err := svc.Details(t.Context(), "500")
	if err != nil {
		t.Fatalf("Details error: %v", err)
	}
	if details.Live == nil || details.Live.Lifecycle != match.LifecycleLive || len(details.Live.Events) != 1 {
		t.Fatalf("unexpected live data: %+v", details.Live)
	}
	if len(details.Presence) != 2 || details.Presence[0].UserID != "u-2" {
		t.Fatalf("presence must be newest first: %+v", details.Presence)
	}

	h.source.detailErrs[500] = errSourceDown
	details, err = svc.Details(t.Context(), "500")
	if err != nil {
		t.Fatalf("Details must degrade, got %v", err)
	}
	if details.Live != nil || details.Warning == "" {
		t.Fatalf("expected stored-only details with warning, got %+v", details)
	}
}

func TestMatchService_WatchPresenceStreamsUpdates(t *testing.T) {
	t.Parallel()

	h, svc := newMatchHarness()
	created, _ := svc.Create(t.Context(), derbyInput("live"))
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	snapshots := make(chan []banter.Presence, 4)
	done := make(chan error, 1)
	go func() {
		done <- svc.WatchPresence(ctx, created.Match.ID, func(items []banter.Presence) error {
			snapshots <- items
			return nil
		})
	}()

	if first := <-snapshots; len(first) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", first)
	}
	h.rooms.Touch(created.Match.ID, banter.Presence{UserID: "u-9", LastActive: testNow})
	if next := <-snapshots; len(next) != 1 || next[0].UserID != "u-9" {
		t.Fatalf("unexpected snapshot: %+v", next)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("cancelled watch should end cleanly, got %v", err)
	}
}
