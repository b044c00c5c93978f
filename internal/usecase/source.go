package usecase

import (
	"context"
	"time"
)

// ExternalFixture is one fixture as returned by the remote match source.
type ExternalFixture struct {
	ID              int64
	KickoffAt       time.Time
	StatusShort     string
	StatusLong      string
	Elapsed         int
	Venue           string
	CompetitionID   int64
	CompetitionName string
	Round           string
	Season          int
	HomeTeamID      int64
	HomeTeam        string
	HomeLogo        string
	AwayTeamID      int64
	AwayTeam        string
	AwayLogo        string
	HomeGoals       *int
	AwayGoals       *int
	Lineups         []map[string]any
	Events          []map[string]any
}

type ExternalVenue struct {
	ID       int64
	Name     string
	Address  string
	City     string
	Capacity int
	Surface  string
	Image    string
}

type ExternalTeam struct {
	ID       int64
	Name     string
	Code     string
	Country  string
	Founded  int
	National bool
	Logo     string
	Venue    ExternalVenue
}

type ExternalSeason struct {
	Year    int
	Start   string
	End     string
	Current bool
}

type ExternalCompetition struct {
	ID          int64
	Name        string
	Type        string
	Logo        string
	CountryName string
	CountryCode string
	CountryFlag string
	Seasons     []ExternalSeason
}

// CurrentSeason picks the season flagged current, falling back to the last listed one.
func (c ExternalCompetition) CurrentSeason() (ExternalSeason, bool) {
	if len(c.Seasons) == 0 {
		return ExternalSeason{}, false
	}
	for _, s := range c.Seasons {
		if s.Current {
			return s, true
		}
	}
	return c.Seasons[len(c.Seasons)-1], true
}

// MatchSource is the read-only remote football data provider.
type MatchSource interface {
	UpcomingFixtures(ctx context.Context, competitionID int64, season, next int) ([]ExternalFixture, error)
	FixtureByID(ctx context.Context, fixtureID int64) (ExternalFixture, bool, error)
	TeamsByCompetition(ctx context.Context, competitionID int64, season int) ([]ExternalTeam, error)
	CompetitionByID(ctx context.Context, competitionID int64) (ExternalCompetition, bool, error)
}

// PushSender delivers a broadcast to every subscribed device.
type PushSender interface {
	Broadcast(ctx context.Context, msg PushMessage) (PushResult, error)
}

type PushMessage struct {
	Title string
	Body  string
}

type PushResult struct {
	NotificationID string `json:"notification_id"`
	Recipients     int    `json:"recipients"`
}
