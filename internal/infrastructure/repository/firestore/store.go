package firestore

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names are shared with the consumer app.
const (
	collectionMatches              = "matches"
	collectionLiveMatches          = "live_matches"
	collectionBanterRooms          = "banter_rooms"
	collectionActiveUsers          = "activeUsers"
	collectionTeams                = "teams"
	collectionCompetitions         = "competitions"
	collectionUsers                = "users"
	collectionMetrics              = "metrics"
	collectionSubscriptionAttempts = "subscription_attempts"
	collectionFeedback             = "feedback"

	docSubscriptionClicks = "subscription_clicks"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled)
}
