package competition

import "context"

type Repository interface {
	// List returns competitions ordered by name.
	List(ctx context.Context) ([]Competition, error)
	Upsert(ctx context.Context, c Competition) error
}
