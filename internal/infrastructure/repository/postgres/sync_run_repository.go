package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	qb "github.com/riskibarqy/diskichat-admin/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Save(ctx context.Context, run ledger.SyncRun) error {
	if err := run.Validate(); err != nil {
		return err
	}

	model, err := syncRunToModel(run)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("sync_runs", model, `ON CONFLICT (id)
DO UPDATE SET
    finished_at = EXCLUDED.finished_at,
    total = EXCLUDED.total,
    succeeded = EXCLUDED.succeeded,
    failed = EXCLUDED.failed,
    items = EXCLUDED.items`)
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run id=%s: %w", run.ID, err)
	}
	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, id string) (ledger.SyncRun, bool, error) {
	query, args, err := qb.Select("*").From("sync_runs").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return ledger.SyncRun{}, false, fmt.Errorf("build select sync run query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ledger.SyncRun{}, false, nil
		}
		return ledger.SyncRun{}, false, fmt.Errorf("select sync run id=%s: %w", id, err)
	}

	run, err := syncRunFromModel(row)
	if err != nil {
		return ledger.SyncRun{}, false, err
	}
	return run, true, nil
}

func syncRunToModel(run ledger.SyncRun) (syncRunTableModel, error) {
	items := make([]syncItemJSON, 0, len(run.Items))
	for _, item := range run.Items {
		items = append(items, syncItemJSON{Ref: item.Ref, Status: string(item.Status), Message: item.Message})
	}
	raw, err := sonic.MarshalString(items)
	if err != nil {
		return syncRunTableModel{}, fmt.Errorf("marshal sync run items: %w", err)
	}

	return syncRunTableModel{
		ID:         run.ID,
		Kind:       string(run.Kind),
		Trigger:    run.Trigger,
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
		Total:      run.Total,
		Succeeded:  run.Succeeded,
		Failed:     run.Failed,
		Items:      raw,
	}, nil
}

func syncRunFromModel(row syncRunTableModel) (ledger.SyncRun, error) {
	var items []syncItemJSON
	if row.Items != "" {
		if err := sonic.UnmarshalString(row.Items, &items); err != nil {
			return ledger.SyncRun{}, fmt.Errorf("unmarshal sync run items id=%s: %w", row.ID, err)
		}
	}

	out := ledger.SyncRun{
		ID:         row.ID,
		Kind:       ledger.RunKind(row.Kind),
		Trigger:    row.Trigger,
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		Total:      row.Total,
		Succeeded:  row.Succeeded,
		Failed:     row.Failed,
		Items:      make([]ledger.SyncItem, 0, len(items)),
	}
	for _, item := range items {
		out.Items = append(out.Items, ledger.SyncItem{Ref: item.Ref, Status: ledger.ItemStatus(item.Status), Message: item.Message})
	}
	return out, nil
}
