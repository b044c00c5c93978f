package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// List returns teams ordered by name.
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	UpsertMany(ctx context.Context, teams []Team) error
}
