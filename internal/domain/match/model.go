package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Match is one document in the matches collection. Live copies share the same shape.
type Match struct {
	ID              string
	HomeTeam        string
	HomeTeamID      int64
	AwayTeam        string
	AwayTeamID      int64
	HomeLogo        string
	AwayLogo        string
	HomeScore       int
	AwayScore       int
	Status          Lifecycle
	Date            string
	Time            string
	Venue           string
	CompetitionID   int64
	CompetitionName string
	// APIMatchID is the provider fixture id; zero for manually created matches.
	APIMatchID      int64
	MatchDate       time.Time
	Lineups         []map[string]any
	Events          []map[string]any
	IsMatchOfTheDay bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (m Match) ProviderBacked() bool {
	return m.APIMatchID > 0
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(m.HomeTeam) == "" || strings.TrimSpace(m.AwayTeam) == "" {
		return fmt.Errorf("home and away team are required")
	}
	if m.HomeScore < 0 || m.AwayScore < 0 {
		return fmt.Errorf("scores must be >= 0")
	}
	switch m.Status {
	case LifecycleUpcoming, LifecycleLive, LifecycleFinished:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLifecycle, m.Status)
	}
	if _, err := time.Parse(DateLayout, m.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %q", m.Date)
	}
	if _, err := time.Parse(TimeLayout, m.Time); err != nil {
		return fmt.Errorf("time must be HH:MM: %q", m.Time)
	}
	return nil
}

// Kickoff combines Date and Time in loc. Falls back to MatchDate when they do not parse.
func (m Match) Kickoff(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	at, err := time.ParseInLocation(DateLayout+" "+TimeLayout, m.Date+" "+m.Time, loc)
	if err != nil {
		return m.MatchDate
	}
	return at
}
