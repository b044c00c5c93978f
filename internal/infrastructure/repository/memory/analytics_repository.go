package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/diskichat-admin/internal/domain/analytics"
)

type AnalyticsRepository struct {
	mu       sync.RWMutex
	clicks   analytics.SubscriptionClicks
	attempts int64
	feedback []analytics.Feedback
}

func NewAnalyticsRepository(clicks analytics.SubscriptionClicks, attempts int64, feedback []analytics.Feedback) *AnalyticsRepository {
	return &AnalyticsRepository{
		clicks:   clicks,
		attempts: attempts,
		feedback: append([]analytics.Feedback(nil), feedback...),
	}
}

func (r *AnalyticsRepository) SubscriptionClicks(_ context.Context) (analytics.SubscriptionClicks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.clicks, nil
}

func (r *AnalyticsRepository) CountSubscriptionAttempts(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.attempts, nil
}

func (r *AnalyticsRepository) LatestFeedback(_ context.Context, limit int) ([]analytics.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]analytics.Feedback(nil), r.feedback...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
