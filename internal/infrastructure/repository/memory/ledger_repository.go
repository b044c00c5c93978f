package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/diskichat-admin/internal/domain/ledger"
)

// LedgerRepository keeps sync runs, job dispatches and moderation events in
// process. Used when no ledger database is configured.
type LedgerRepository struct {
	mu         sync.RWMutex
	runs       map[string]ledger.SyncRun
	dispatches map[string]ledger.DispatchEvent
	moderation []ledger.ModerationEvent
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		runs:       make(map[string]ledger.SyncRun),
		dispatches: make(map[string]ledger.DispatchEvent),
	}
}

func (r *LedgerRepository) Save(_ context.Context, run ledger.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validate sync run: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	run.Items = append([]ledger.SyncItem(nil), run.Items...)
	r.runs[run.ID] = run
	return nil
}

func (r *LedgerRepository) GetByID(_ context.Context, id string) (ledger.SyncRun, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	return run, ok, nil
}

func (r *LedgerRepository) UpsertEvent(_ context.Context, event ledger.DispatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dispatches[event.DispatchID] = event
	return nil
}

// Dispatch returns the latest event recorded for a dispatch id.
func (r *LedgerRepository) Dispatch(id string) (ledger.DispatchEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.dispatches[id]
	return event, ok
}

func (r *LedgerRepository) Append(_ context.Context, event ledger.ModerationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.moderation = append(r.moderation, event)
	return nil
}

func (r *LedgerRepository) ListByUser(_ context.Context, userID string, limit int) ([]ledger.ModerationEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ledger.ModerationEvent, 0)
	for _, event := range r.moderation {
		if event.UserID == userID {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
