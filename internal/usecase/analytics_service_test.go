package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/diskichat-admin/internal/domain/analytics"
	analyticsmock "github.com/riskibarqy/diskichat-admin/internal/mocks/domain/analytics"
	"github.com/stretchr/testify/mock"
)

func TestAnalyticsService_SummaryUsingMockery(t *testing.T) {
	t.Parallel()

	repo := analyticsmock.NewRepository(t)
	repo.On("SubscriptionClicks", mock.Anything).Return(analytics.SubscriptionClicks{Count: 42, UpdatedAt: testNow}, nil).Once()
	repo.On("CountSubscriptionAttempts", mock.Anything).Return(int64(17), nil).Once()
	repo.On("LatestFeedback", mock.Anything, analytics.DefaultFeedbackLimit).
		Return([]analytics.Feedback{{ID: "fb-1", Type: "bug"}}, nil).
		Once()

	summary, err := NewAnalyticsService(repo).Summary(t.Context())
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if summary.SubscriptionClicks != 42 || summary.SubscriptionAttempts != 17 || len(summary.RecentFeedback) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestAnalyticsService_SummaryFailsOnAnyReadUsingMockery(t *testing.T) {
	t.Parallel()

	repo := analyticsmock.NewRepository(t)
	repo.On("SubscriptionClicks", mock.Anything).Return(analytics.SubscriptionClicks{}, nil).Maybe()
	repo.On("CountSubscriptionAttempts", mock.Anything).Return(int64(0), errors.New("aggregation quota")).Once()
	repo.On("LatestFeedback", mock.Anything, mock.Anything).Return(nil, nil).Maybe()

	if _, err := NewAnalyticsService(repo).Summary(t.Context()); err == nil {
		t.Fatalf("expected summary to fail")
	}
}
