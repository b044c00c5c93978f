package firestore

import (
	"context"
	"fmt"
	"time"

	gfs "cloud.google.com/go/firestore"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
)

type UserRepository struct {
	client *gfs.Client
}

func NewUserRepository(client *gfs.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) List(ctx context.Context, limit int) ([]user.User, error) {
	query := r.client.Collection(collectionUsers).OrderBy("points", gfs.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	out := make([]user.User, 0, len(docs))
	for _, snap := range docs {
		item, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	snap, err := r.client.Collection(collectionUsers).Doc(id).Get(ctx)
	if isNotFound(err) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, fmt.Errorf("get user id=%s: %w", id, err)
	}
	item, err := decodeUser(snap)
	if err != nil {
		return user.User{}, false, err
	}
	return item, true, nil
}

// UpdateStatus overwrites the status field; Update fails on a missing document.
func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status user.ModerationStatus, at time.Time) error {
	_, err := r.client.Collection(collectionUsers).Doc(id).Update(ctx, []gfs.Update{
		{Path: "status", Value: string(status)},
		{Path: "statusUpdatedAt", Value: at},
	})
	if err != nil {
		return fmt.Errorf("update user status id=%s: %w", id, err)
	}
	return nil
}

func decodeUser(snap *gfs.DocumentSnapshot) (user.User, error) {
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return user.User{}, fmt.Errorf("decode user id=%s: %w", snap.Ref.ID, err)
	}
	return doc.toDomain(snap.Ref.ID), nil
}
