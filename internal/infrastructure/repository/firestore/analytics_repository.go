package firestore

import (
	"context"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/riskibarqy/diskichat-admin/internal/domain/analytics"
)

const attemptsCountAlias = "attempts"

type AnalyticsRepository struct {
	client *gfs.Client
}

func NewAnalyticsRepository(client *gfs.Client) *AnalyticsRepository {
	return &AnalyticsRepository{client: client}
}

func (r *AnalyticsRepository) SubscriptionClicks(ctx context.Context) (analytics.SubscriptionClicks, error) {
	snap, err := r.client.Collection(collectionMetrics).Doc(docSubscriptionClicks).Get(ctx)
	if isNotFound(err) {
		return analytics.SubscriptionClicks{}, nil
	}
	if err != nil {
		return analytics.SubscriptionClicks{}, fmt.Errorf("get subscription clicks: %w", err)
	}

	var doc clicksDoc
	if err := snap.DataTo(&doc); err != nil {
		return analytics.SubscriptionClicks{}, fmt.Errorf("decode subscription clicks: %w", err)
	}
	return analytics.SubscriptionClicks{Count: doc.Count, UpdatedAt: doc.UpdatedAt}, nil
}

// CountSubscriptionAttempts runs a server-side count aggregation.
func (r *AnalyticsRepository) CountSubscriptionAttempts(ctx context.Context) (int64, error) {
	result, err := r.client.Collection(collectionSubscriptionAttempts).
		NewAggregationQuery().
		WithCount(attemptsCountAlias).
		Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count subscription attempts: %w", err)
	}

	value, ok := result[attemptsCountAlias].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count subscription attempts: unexpected result type %T", result[attemptsCountAlias])
	}
	return value.GetIntegerValue(), nil
}

func (r *AnalyticsRepository) LatestFeedback(ctx context.Context, limit int) ([]analytics.Feedback, error) {
	if limit <= 0 {
		limit = analytics.DefaultFeedbackLimit
	}
	docs, err := r.client.Collection(collectionFeedback).OrderBy("createdAt", gfs.Desc).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}

	out := make([]analytics.Feedback, 0, len(docs))
	for _, snap := range docs {
		var doc feedbackDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode feedback id=%s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toDomain(snap.Ref.ID))
	}
	return out, nil
}
