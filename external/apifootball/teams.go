package apifootball

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

func (c *Client) TeamsByCompetition(ctx context.Context, competitionID int64, season int) ([]usecase.ExternalTeam, error) {
	if competitionID <= 0 || season <= 0 {
		return nil, fmt.Errorf("%w: competition id and season are required", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("league", strconv.FormatInt(competitionID, 10))
	query.Set("season", strconv.Itoa(season))

	var payload envelope[teamItem]
	if err := c.getJSON(ctx, "teams", "/teams", query, &payload, 0); err != nil {
		return nil, fmt.Errorf("fetch teams league=%d season=%d: %w", competitionID, season, err)
	}

	out := make([]usecase.ExternalTeam, 0, len(payload.Response))
	for _, item := range payload.Response {
		if item.Team.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			ID:       item.Team.ID,
			Name:     strings.TrimSpace(item.Team.Name),
			Code:     item.Team.Code,
			Country:  item.Team.Country,
			Founded:  item.Team.Founded,
			National: item.Team.National,
			Logo:     item.Team.Logo,
			Venue: usecase.ExternalVenue{
				ID:       item.Venue.ID,
				Name:     strings.TrimSpace(item.Venue.Name),
				Address:  item.Venue.Address,
				City:     item.Venue.City,
				Capacity: item.Venue.Capacity,
				Surface:  item.Venue.Surface,
				Image:    item.Venue.Image,
			},
		})
	}
	return out, nil
}

func (c *Client) CompetitionByID(ctx context.Context, competitionID int64) (usecase.ExternalCompetition, bool, error) {
	if competitionID <= 0 {
		return usecase.ExternalCompetition{}, false, fmt.Errorf("%w: competition id must be greater than zero", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("id", strconv.FormatInt(competitionID, 10))

	var payload envelope[leagueItem]
	if err := c.getJSON(ctx, "leagues", "/leagues", query, &payload, 0); err != nil {
		return usecase.ExternalCompetition{}, false, fmt.Errorf("fetch league id=%d: %w", competitionID, err)
	}

	for _, item := range payload.Response {
		if item.League.ID != competitionID {
			continue
		}
		out := usecase.ExternalCompetition{
			ID:          item.League.ID,
			Name:        strings.TrimSpace(item.League.Name),
			Type:        item.League.Type,
			Logo:        item.League.Logo,
			CountryName: item.Country.Name,
			CountryCode: item.Country.Code,
			CountryFlag: item.Country.Flag,
			Seasons:     make([]usecase.ExternalSeason, 0, len(item.Seasons)),
		}
		for _, s := range item.Seasons {
			out.Seasons = append(out.Seasons, usecase.ExternalSeason{Year: s.Year, Start: s.Start, End: s.End, Current: s.Current})
		}
		return out, true, nil
	}
	return usecase.ExternalCompetition{}, false, nil
}
