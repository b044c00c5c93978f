package firestore

import (
	"context"
	"fmt"
	"time"

	gfs "cloud.google.com/go/firestore"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
)

type MatchRepository struct {
	client *gfs.Client
}

func NewMatchRepository(client *gfs.Client) *MatchRepository {
	return &MatchRepository{client: client}
}

func (r *MatchRepository) collection() *gfs.CollectionRef {
	return r.client.Collection(collectionMatches)
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	docs, err := r.collection().OrderBy("createdAt", gfs.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	return decodeMatches(docs)
}

func (r *MatchRepository) ListByStatus(ctx context.Context, status match.Lifecycle) ([]match.Match, error) {
	docs, err := r.collection().Where("status", "in", storedStatuses(status)).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query matches status=%s: %w", status, err)
	}
	return decodeMatches(docs)
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if isNotFound(err) {
		return match.Match{}, false, nil
	}
	if err != nil {
		return match.Match{}, false, fmt.Errorf("get match id=%s: %w", id, err)
	}

	item, err := decodeMatch(snap)
	if err != nil {
		return match.Match{}, false, err
	}
	return item, true, nil
}

func (r *MatchRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	refs := make([]*gfs.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.collection().Doc(id))
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("get matches by id: %w", err)
	}
	for _, snap := range snaps {
		if snap.Exists() {
			out[snap.Ref.ID] = true
		}
	}
	return out, nil
}

// Upsert reads and writes inside one transaction so createdAt is set exactly once.
func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) (bool, error) {
	ref := r.collection().Doc(m.ID)
	created := false
	err := r.client.RunTransaction(ctx, func(_ context.Context, tx *gfs.Transaction) error {
		_, err := tx.Get(ref)
		switch {
		case isNotFound(err):
			created = true
		case err != nil:
			return err
		default:
			created = false
		}
		return tx.Set(ref, matchFields(m, created), gfs.MergeAll)
	})
	if err != nil {
		return false, fmt.Errorf("upsert match id=%s: %w", m.ID, err)
	}
	return created, nil
}

func (r *MatchRepository) SetMatchOfTheDay(ctx context.Context, id string, flag bool, at time.Time) error {
	_, err := r.collection().Doc(id).Update(ctx, []gfs.Update{
		{Path: "isMatchOfTheDay", Value: flag},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return fmt.Errorf("update match of the day id=%s: %w", id, err)
	}
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete match id=%s: %w", id, err)
	}
	return nil
}

// LiveMatchRepository writes the live_matches fan-out. Documents are replaced
// wholesale since they are a projection of matches.
type LiveMatchRepository struct {
	client *gfs.Client
}

func NewLiveMatchRepository(client *gfs.Client) *LiveMatchRepository {
	return &LiveMatchRepository{client: client}
}

func (r *LiveMatchRepository) collection() *gfs.CollectionRef {
	return r.client.Collection(collectionLiveMatches)
}

func (r *LiveMatchRepository) List(ctx context.Context) ([]match.Match, error) {
	docs, err := r.collection().OrderBy("matchDate", gfs.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query live matches: %w", err)
	}
	return decodeMatches(docs)
}

func (r *LiveMatchRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.collection().Doc(id).Get(ctx)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get live match id=%s: %w", id, err)
	}
	return true, nil
}

func (r *LiveMatchRepository) Upsert(ctx context.Context, m match.Match) error {
	if _, err := r.collection().Doc(m.ID).Set(ctx, liveMatchFields(m), gfs.MergeAll); err != nil {
		return fmt.Errorf("set live match id=%s: %w", m.ID, err)
	}
	return nil
}

func (r *LiveMatchRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete live match id=%s: %w", id, err)
	}
	return nil
}

func decodeMatch(snap *gfs.DocumentSnapshot) (match.Match, error) {
	var doc matchDoc
	if err := snap.DataTo(&doc); err != nil {
		return match.Match{}, fmt.Errorf("decode match id=%s: %w", snap.Ref.ID, err)
	}
	return doc.toDomain(snap.Ref.ID), nil
}

func decodeMatches(docs []*gfs.DocumentSnapshot) ([]match.Match, error) {
	out := make([]match.Match, 0, len(docs))
	for _, snap := range docs {
		item, err := decodeMatch(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
