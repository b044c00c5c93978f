package competition

import (
	"fmt"
	"time"
)

// Competition is a league or cup as synced from the match source.
type Competition struct {
	ID          int64
	Name        string
	Type        string
	Logo        string
	CountryName string
	CountryCode string
	CountryFlag string
	SeasonYear  int
	UpdatedAt   time.Time
}

func (c Competition) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("competition id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}
	return nil
}

// DefaultIDs are synced when an admin asks for a sync without naming ids.
var DefaultIDs = []int64{288, 508, 507, 39, 140, 78, 135, 2, 12, 1, 6}
