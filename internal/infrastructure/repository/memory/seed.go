package memory

import (
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/analytics"
	"github.com/riskibarqy/diskichat-admin/internal/domain/competition"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
	"github.com/riskibarqy/diskichat-admin/internal/domain/team"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
)

// Dev data for STORE_DRIVER=memory. Ids follow the match source numbering.
const (
	CompetitionIDLiga1Indonesia = 274
	CompetitionIDPremierLeague  = 39
)

var seedTime = time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

func SeedCompetitions() []competition.Competition {
	return []competition.Competition{
		{ID: CompetitionIDLiga1Indonesia, Name: "Liga 1", Type: "League", CountryName: "Indonesia", CountryCode: "ID", SeasonYear: 2025, UpdatedAt: seedTime},
		{ID: CompetitionIDPremierLeague, Name: "Premier League", Type: "League", CountryName: "England", CountryCode: "GB", SeasonYear: 2025, UpdatedAt: seedTime},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: 2450, Name: "Persija Jakarta", Code: "PSJ", Country: "Indonesia", Founded: 1928, Season: 2025, Venue: team.Venue{ID: 1523, Name: "Jakarta International Stadium", City: "Jakarta", Capacity: 82000}},
		{ID: 2445, Name: "Persib Bandung", Code: "PSB", Country: "Indonesia", Founded: 1933, Season: 2025, Venue: team.Venue{ID: 1520, Name: "Gelora Bandung Lautan Api", City: "Bandung", Capacity: 38000}},
		{ID: 2446, Name: "Persebaya Surabaya", Code: "PRB", Country: "Indonesia", Founded: 1927, Season: 2025, Venue: team.Venue{ID: 1526, Name: "Gelora Bung Tomo", City: "Surabaya", Capacity: 46806}},
		{ID: 2441, Name: "Bali United", Code: "BU", Country: "Indonesia", Founded: 1989, Season: 2025, Venue: team.Venue{ID: 1517, Name: "Kapten I Wayan Dipta", City: "Gianyar", Capacity: 23081}},
		{ID: 42, Name: "Arsenal", Code: "ARS", Country: "England", Founded: 1886, Season: 2025, Venue: team.Venue{ID: 494, Name: "Emirates Stadium", City: "London", Capacity: 60383}},
		{ID: 40, Name: "Liverpool", Code: "LIV", Country: "England", Founded: 1892, Season: 2025, Venue: team.Venue{ID: 550, Name: "Anfield", City: "Liverpool", Capacity: 61276}},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:              "1208021",
			HomeTeam:        "Persija Jakarta",
			HomeTeamID:      2450,
			AwayTeam:        "Persib Bandung",
			AwayTeamID:      2445,
			Status:          match.LifecycleUpcoming,
			Date:            "2025-08-09",
			Time:            "19:00",
			Venue:           "Jakarta International Stadium",
			CompetitionID:   CompetitionIDLiga1Indonesia,
			CompetitionName: "Liga 1",
			APIMatchID:      1208021,
			MatchDate:       time.Date(2025, time.August, 9, 19, 0, 0, 0, time.UTC),
			Lineups:         []map[string]any{},
			Events:          []map[string]any{},
			CreatedAt:       seedTime,
			UpdatedAt:       seedTime,
		},
		{
			ID:              "manual-derby-showcase",
			HomeTeam:        "Arsenal",
			AwayTeam:        "Liverpool",
			Status:          match.LifecycleFinished,
			HomeScore:       2,
			AwayScore:       2,
			Date:            "2025-07-27",
			Time:            "15:30",
			Venue:           "Emirates Stadium",
			CompetitionName: "Friendly",
			MatchDate:       time.Date(2025, time.July, 27, 15, 30, 0, 0, time.UTC),
			Lineups:         []map[string]any{},
			Events:          []map[string]any{},
			CreatedAt:       seedTime.Add(-time.Hour),
			UpdatedAt:       seedTime.Add(-time.Hour),
		},
	}
}

func SeedUsers() []user.User {
	return []user.User{
		{ID: "u-rizky", Username: "rizky", DisplayName: "Rizky Jakmania", Email: "rizky@example.com", FavoriteTeam: "Persija Jakarta", Points: 1280, Rank: 1, CreatedAt: seedTime},
		{ID: "u-dewi", Username: "dewi", DisplayName: "Dewi Bobotoh", Email: "dewi@example.com", FavoriteTeam: "Persib Bandung", Points: 1105, Rank: 2, Status: user.StatusSuspended, CreatedAt: seedTime},
		{ID: "u-budi", Username: "budi", DisplayName: "Budi Bonek", Email: "budi@example.com", FavoriteTeam: "Persebaya Surabaya", Points: 870, Rank: 3, CreatedAt: seedTime},
	}
}

func SeedAnalytics() *AnalyticsRepository {
	return NewAnalyticsRepository(
		analytics.SubscriptionClicks{Count: 42, UpdatedAt: seedTime},
		17,
		[]analytics.Feedback{
			{ID: "fb-1", Type: "bug", Description: "Banter room stops updating after half time", UserID: "u-budi", CreatedAt: seedTime},
		},
	)
}
