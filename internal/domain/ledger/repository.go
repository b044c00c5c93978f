package ledger

import "context"

type SyncRunRepository interface {
	Save(ctx context.Context, run SyncRun) error
	GetByID(ctx context.Context, id string) (SyncRun, bool, error)
}

type DispatchRepository interface {
	UpsertEvent(ctx context.Context, event DispatchEvent) error
}

type ModerationRepository interface {
	Append(ctx context.Context, event ModerationEvent) error
	// ListByUser returns events newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]ModerationEvent, error)
}
