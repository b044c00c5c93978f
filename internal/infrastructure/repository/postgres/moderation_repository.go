package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	qb "github.com/riskibarqy/diskichat-admin/internal/platform/querybuilder"
)

type ModerationRepository struct {
	db *sqlx.DB
}

func NewModerationRepository(db *sqlx.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

func (r *ModerationRepository) Append(ctx context.Context, event ledger.ModerationEvent) error {
	if event.ID == "" || event.UserID == "" {
		return fmt.Errorf("moderation event id and user id are required")
	}

	model := moderationEventTableModel{
		ID:         event.ID,
		UserID:     event.UserID,
		Actor:      event.Actor,
		FromStatus: event.FromStatus,
		ToStatus:   event.ToStatus,
		Reason:     event.Reason,
		OccurredAt: event.OccurredAt.UTC(),
	}
	query, args, err := qb.InsertModel("moderation_events", model, "")
	if err != nil {
		return fmt.Errorf("build insert moderation event query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert moderation event user=%s: %w", event.UserID, err)
	}
	return nil
}

func (r *ModerationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]ledger.ModerationEvent, error) {
	query, args, err := qb.Select("*").From("moderation_events").
		Where(qb.Eq("user_id", userID)).
		OrderBy("occurred_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select moderation events query: %w", err)
	}

	var rows []moderationEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select moderation events user=%s: %w", userID, err)
	}

	out := make([]ledger.ModerationEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledger.ModerationEvent{
			ID:         row.ID,
			UserID:     row.UserID,
			Actor:      row.Actor,
			FromStatus: row.FromStatus,
			ToStatus:   row.ToStatus,
			Reason:     row.Reason,
			OccurredAt: row.OccurredAt,
		})
	}
	return out, nil
}
