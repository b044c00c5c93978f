package firestore

import (
	"context"
	"fmt"
	"time"

	gfs "cloud.google.com/go/firestore"
	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
)

type BanterRepository struct {
	client *gfs.Client
}

func NewBanterRepository(client *gfs.Client) *BanterRepository {
	return &BanterRepository{client: client}
}

func (r *BanterRepository) room(matchID string) *gfs.DocumentRef {
	return r.client.Collection(collectionBanterRooms).Doc(matchID)
}

// Ensure uses Create so concurrent imports cannot overwrite an existing room.
func (r *BanterRepository) Ensure(ctx context.Context, matchID string, at time.Time) (bool, error) {
	_, err := r.room(matchID).Create(ctx, map[string]any{
		"matchId":   matchID,
		"createdAt": at,
	})
	if isAlreadyExists(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create banter room match=%s: %w", matchID, err)
	}
	return true, nil
}

func (r *BanterRepository) Exists(ctx context.Context, matchID string) (bool, error) {
	_, err := r.room(matchID).Get(ctx)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get banter room match=%s: %w", matchID, err)
	}
	return true, nil
}

func (r *BanterRepository) presenceQuery(matchID string, limit int) gfs.Query {
	if limit <= 0 {
		limit = banter.DefaultPresenceLimit
	}
	return r.room(matchID).Collection(collectionActiveUsers).OrderBy("lastActive", gfs.Desc).Limit(limit)
}

func (r *BanterRepository) ListActiveUsers(ctx context.Context, matchID string, limit int) ([]banter.Presence, error) {
	docs, err := r.presenceQuery(matchID, limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query active users match=%s: %w", matchID, err)
	}
	return decodePresence(docs)
}

func (r *BanterRepository) WatchActiveUsers(ctx context.Context, matchID string, limit int, fn func([]banter.Presence) error) error {
	it := r.presenceQuery(matchID, limit).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if isCanceled(ctx, err) {
				return ctx.Err()
			}
			return fmt.Errorf("watch active users match=%s: %w", matchID, err)
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("read active users snapshot match=%s: %w", matchID, err)
		}
		items, err := decodePresence(docs)
		if err != nil {
			return err
		}
		if err := fn(items); err != nil {
			return err
		}
	}
}

func decodePresence(docs []*gfs.DocumentSnapshot) ([]banter.Presence, error) {
	out := make([]banter.Presence, 0, len(docs))
	for _, snap := range docs {
		var doc presenceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode presence id=%s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc.toDomain(snap.Ref.ID))
	}
	return out, nil
}
