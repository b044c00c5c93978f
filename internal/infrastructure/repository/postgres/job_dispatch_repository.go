package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
	qb "github.com/riskibarqy/diskichat-admin/internal/platform/querybuilder"
)

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event ledger.DispatchEvent) error {
	model, err := dispatchToModel(event, time.Now())
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("job_dispatches", model, `ON CONFLICT (dispatch_id)
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    job_path = EXCLUDED.job_path,
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    sent_at = COALESCE(job_dispatches.sent_at, EXCLUDED.sent_at),
    completed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_at
        ELSE job_dispatches.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE job_dispatches.failed_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    sent_trace_id = COALESCE(EXCLUDED.sent_trace_id, job_dispatches.sent_trace_id),
    sent_span_id = COALESCE(EXCLUDED.sent_span_id, job_dispatches.sent_span_id),
    completed_trace_id = COALESCE(EXCLUDED.completed_trace_id, job_dispatches.completed_trace_id),
    completed_span_id = COALESCE(EXCLUDED.completed_span_id, job_dispatches.completed_span_id),
    failed_trace_id = COALESCE(EXCLUDED.failed_trace_id, job_dispatches.failed_trace_id),
    failed_span_id = COALESCE(EXCLUDED.failed_span_id, job_dispatches.failed_span_id)`)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", model.DispatchID, event.Status, err)
	}
	return nil
}

// dispatchToModel fills only the timestamp and trace columns of event.Status.
func dispatchToModel(event ledger.DispatchEvent, now time.Time) (jobDispatchInsertModel, error) {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return jobDispatchInsertModel{}, fmt.Errorf("dispatch id is required")
	}

	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}
	jobPath := strings.TrimSpace(event.JobPath)
	if jobPath == "" {
		jobPath = "/unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if event.OccurredAt.IsZero() {
		occurredAt = now.UTC()
	}

	payload, err := marshalPayload(event.Payload)
	if err != nil {
		return jobDispatchInsertModel{}, fmt.Errorf("marshal job dispatch payload: %w", err)
	}

	model := jobDispatchInsertModel{
		DispatchID: dispatchID,
		JobName:    jobName,
		JobPath:    jobPath,
		Payload:    payload,
		Status:     string(event.Status),
	}

	switch event.Status {
	case ledger.DispatchSent:
		model.SentAt = &occurredAt
		model.SentTraceID = optionalString(event.TraceID)
		model.SentSpanID = optionalString(event.SpanID)
	case ledger.DispatchCompleted:
		model.CompletedAt = &occurredAt
		model.CompletedTraceID = optionalString(event.TraceID)
		model.CompletedSpanID = optionalString(event.SpanID)
	case ledger.DispatchFailed:
		model.FailedAt = &occurredAt
		model.FailedTraceID = optionalString(event.TraceID)
		model.FailedSpanID = optionalString(event.SpanID)
		model.LastError = optionalString(event.ErrorMessage)
	default:
		return jobDispatchInsertModel{}, fmt.Errorf("unknown dispatch status %q", event.Status)
	}
	return model, nil
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	return sonic.MarshalString(payload)
}
