package analytics

import (
	"context"
	"time"
)

type SubscriptionClicks struct {
	Count     int64
	UpdatedAt time.Time
}

type Feedback struct {
	ID          string
	Type        string
	Description string
	UserID      string
	CreatedAt   time.Time
}

const DefaultFeedbackLimit = 20

type Repository interface {
	// SubscriptionClicks reads the counter document; a missing document is a zero counter.
	SubscriptionClicks(ctx context.Context) (SubscriptionClicks, error)
	CountSubscriptionAttempts(ctx context.Context) (int64, error)
	LatestFeedback(ctx context.Context, limit int) ([]Feedback, error)
}
