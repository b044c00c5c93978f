package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ModerationStatus is the account state staff can set.
type ModerationStatus string

const (
	StatusActive    ModerationStatus = "active"
	StatusSuspended ModerationStatus = "suspended"
	StatusBanned    ModerationStatus = "banned"
)

var ErrInvalidStatus = errors.New("invalid moderation status")

func ParseModerationStatus(v string) (ModerationStatus, error) {
	switch ModerationStatus(strings.ToLower(strings.TrimSpace(v))) {
	case StatusActive:
		return StatusActive, nil
	case StatusSuspended:
		return StatusSuspended, nil
	case StatusBanned:
		return StatusBanned, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
}

// NormalizeStoredStatus is applied to every document read. Accounts created by the
// consumer app carry no status, which means active.
func NormalizeStoredStatus(v string) ModerationStatus {
	if strings.TrimSpace(v) == "" {
		return StatusActive
	}
	status, err := ParseModerationStatus(v)
	if err != nil {
		return StatusActive
	}
	return status
}

type User struct {
	ID               string
	Username         string
	DisplayName      string
	Email            string
	AvatarURL        string
	FavoriteTeam     string
	FavoriteTeamLogo string
	Points           int
	Rank             int
	Status           ModerationStatus
	CreatedAt        time.Time
}

// Matches reports a case-insensitive substring hit on username, display name or email.
func (u User) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range []string{u.Username, u.DisplayName, u.Email} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Principal is the authenticated staff member behind a request.
type Principal struct {
	UserID string
	Email  string
	Admin  bool
}
