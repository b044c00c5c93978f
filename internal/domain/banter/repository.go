package banter

import (
	"context"
	"time"
)

type Repository interface {
	// Ensure creates the room when missing and reports whether it did.
	Ensure(ctx context.Context, matchID string, at time.Time) (created bool, err error)
	Exists(ctx context.Context, matchID string) (bool, error)
	// ListActiveUsers returns presence ordered by lastActive, most recent first.
	ListActiveUsers(ctx context.Context, matchID string, limit int) ([]Presence, error)
	// WatchActiveUsers calls fn with the current presence list on every change
	// until ctx is done or fn returns an error.
	WatchActiveUsers(ctx context.Context, matchID string, limit int, fn func([]Presence) error) error
}
