package user

import (
	"context"
	"time"
)

type Repository interface {
	// List returns up to limit users ordered by points, highest first.
	List(ctx context.Context, limit int) ([]User, error)
	GetByID(ctx context.Context, id string) (User, bool, error)
	UpdateStatus(ctx context.Context, id string, status ModerationStatus, at time.Time) error
}
