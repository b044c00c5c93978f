package match

import (
	"context"
	"time"
)

// Repository persists the matches collection.
type Repository interface {
	// List returns matches ordered by createdAt, newest first.
	List(ctx context.Context) ([]Match, error)
	ListByStatus(ctx context.Context, status Lifecycle) ([]Match, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	// ExistingIDs reports which of ids already have a document.
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
	// Upsert merges m into its document. CreatedAt is written only when the
	// document is new; created reports that case.
	Upsert(ctx context.Context, m Match) (created bool, err error)
	SetMatchOfTheDay(ctx context.Context, id string, flag bool, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// LiveRepository persists the live_matches fan-out collection.
type LiveRepository interface {
	List(ctx context.Context) ([]Match, error)
	Exists(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, m Match) error
	Delete(ctx context.Context, id string) error
}
