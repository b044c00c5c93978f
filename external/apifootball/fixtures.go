package apifootball

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

const DefaultNext = 20

// UpcomingFixtures lists the next fixtures of a competition. season is optional.
func (c *Client) UpcomingFixtures(ctx context.Context, competitionID int64, season, next int) ([]usecase.ExternalFixture, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be greater than zero", usecase.ErrInvalidInput)
	}
	if next <= 0 {
		next = DefaultNext
	}

	query := url.Values{}
	query.Set("league", strconv.FormatInt(competitionID, 10))
	query.Set("next", strconv.Itoa(next))
	if season > 0 {
		query.Set("season", strconv.Itoa(season))
	}

	var payload envelope[fixtureItem]
	if err := c.getJSON(ctx, "fixtures.upcoming", "/fixtures", query, &payload, c.fixtureTTL); err != nil {
		return nil, fmt.Errorf("fetch upcoming fixtures league=%d: %w", competitionID, err)
	}

	out := make([]usecase.ExternalFixture, 0, len(payload.Response))
	for _, item := range payload.Response {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, mapFixture(item))
	}
	return out, nil
}

// FixtureByID fetches the full fixture including lineups and events.
func (c *Client) FixtureByID(ctx context.Context, fixtureID int64) (usecase.ExternalFixture, bool, error) {
	if fixtureID <= 0 {
		return usecase.ExternalFixture{}, false, fmt.Errorf("%w: fixture id must be greater than zero", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("id", strconv.FormatInt(fixtureID, 10))

	var payload envelope[fixtureItem]
	if err := c.getJSON(ctx, "fixtures.detail", "/fixtures", query, &payload, 0); err != nil {
		return usecase.ExternalFixture{}, false, fmt.Errorf("fetch fixture id=%d: %w", fixtureID, err)
	}
	for _, item := range payload.Response {
		if item.Fixture.ID == fixtureID {
			return mapFixture(item), true, nil
		}
	}
	return usecase.ExternalFixture{}, false, nil
}

func mapFixture(item fixtureItem) usecase.ExternalFixture {
	out := usecase.ExternalFixture{
		ID:              item.Fixture.ID,
		KickoffAt:       parseKickoff(item.Fixture.Date, item.Fixture.Timestamp),
		StatusShort:     strings.TrimSpace(item.Fixture.Status.Short),
		StatusLong:      strings.TrimSpace(item.Fixture.Status.Long),
		Venue:           strings.TrimSpace(item.Fixture.Venue.Name),
		CompetitionID:   item.League.ID,
		CompetitionName: strings.TrimSpace(item.League.Name),
		Round:           strings.TrimSpace(item.League.Round),
		Season:          item.League.Season,
		HomeTeamID:      item.Teams.Home.ID,
		HomeTeam:        strings.TrimSpace(item.Teams.Home.Name),
		HomeLogo:        item.Teams.Home.Logo,
		AwayTeamID:      item.Teams.Away.ID,
		AwayTeam:        strings.TrimSpace(item.Teams.Away.Name),
		AwayLogo:        item.Teams.Away.Logo,
		HomeGoals:       item.Goals.Home,
		AwayGoals:       item.Goals.Away,
		Lineups:         item.Lineups,
		Events:          item.Events,
	}
	if item.Fixture.Status.Elapsed != nil {
		out.Elapsed = *item.Fixture.Status.Elapsed
	}
	if out.Lineups == nil {
		out.Lineups = []map[string]any{}
	}
	if out.Events == nil {
		out.Events = []map[string]any{}
	}
	return out
}

func parseKickoff(raw string, unix int64) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			return at.UTC()
		}
	}
	if unix > 0 {
		return time.Unix(unix, 0).UTC()
	}
	return time.Time{}
}
