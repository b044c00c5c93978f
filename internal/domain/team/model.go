package team

import (
	"fmt"
	"time"
)

type Venue struct {
	ID       int64
	Name     string
	Address  string
	City     string
	Capacity int
	Surface  string
	Image    string
}

// Team is a club as synced from the match source, keyed by provider team id.
type Team struct {
	ID        int64
	Name      string
	Code      string
	Country   string
	Founded   int
	National  bool
	Logo      string
	Venue     Venue
	Season    int
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
