package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/diskichat-admin/internal/domain/analytics"
	"github.com/sourcegraph/conc/pool"
)

type AnalyticsSummary struct {
	SubscriptionClicks   int64
	SubscriptionClicksAt time.Time
	SubscriptionAttempts int64
	RecentFeedback       []analytics.Feedback
}

type AnalyticsService struct {
	repo analytics.Repository
}

func NewAnalyticsService(repo analytics.Repository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Summary reads the three dashboard sources concurrently; any failure fails it.
func (s *AnalyticsService) Summary(ctx context.Context) (AnalyticsSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.Summary")
	defer span.End()

	var out AnalyticsSummary
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		clicks, err := s.repo.SubscriptionClicks(ctx)
		if err != nil {
			return fmt.Errorf("read subscription clicks: %w", err)
		}
		out.SubscriptionClicks = clicks.Count
		out.SubscriptionClicksAt = clicks.UpdatedAt
		return nil
	})
	p.Go(func(ctx context.Context) error {
		count, err := s.repo.CountSubscriptionAttempts(ctx)
		if err != nil {
			return fmt.Errorf("count subscription attempts: %w", err)
		}
		out.SubscriptionAttempts = count
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.repo.LatestFeedback(ctx, analytics.DefaultFeedbackLimit)
		if err != nil {
			return fmt.Errorf("list feedback: %w", err)
		}
		out.RecentFeedback = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return AnalyticsSummary{}, err
	}

	return out, nil
}
