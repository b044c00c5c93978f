package ledger

import (
	"fmt"
	"time"
)

type RunKind string

const (
	RunKindImport       RunKind = "import"
	RunKindTeams        RunKind = "teams"
	RunKindCompetitions RunKind = "competitions"
	RunKindLive         RunKind = "live"
)

type ItemStatus string

const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemFailed    ItemStatus = "failed"
)

// SyncItem is the outcome for one entity (fixture id, league id) inside a run.
type SyncItem struct {
	Ref     string
	Status  ItemStatus
	Message string
}

// SyncRun records one batch against the match source.
type SyncRun struct {
	ID         string
	Kind       RunKind
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
	Failed     int
	Items      []SyncItem
}

// Add appends an item and keeps the counters in step.
func (r *SyncRun) Add(item SyncItem) {
	r.Items = append(r.Items, item)
	r.Total++
	if item.Status == ItemSucceeded {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

func (r SyncRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("sync run id is required")
	}
	switch r.Kind {
	case RunKindImport, RunKindTeams, RunKindCompetitions, RunKindLive:
	default:
		return fmt.Errorf("unknown sync run kind %q", r.Kind)
	}
	if r.Succeeded+r.Failed != r.Total {
		return fmt.Errorf("sync run counters do not add up: %d+%d != %d", r.Succeeded, r.Failed, r.Total)
	}
	return nil
}

type DispatchStatus string

const (
	DispatchSent      DispatchStatus = "sent"
	DispatchCompleted DispatchStatus = "completed"
	DispatchFailed    DispatchStatus = "failed"
)

// DispatchEvent tracks one internal job from enqueue to completion.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}

// ModerationEvent is an append-only record of a user status change.
type ModerationEvent struct {
	ID         string
	UserID     string
	Actor      string
	FromStatus string
	ToStatus   string
	Reason     string
	OccurredAt time.Time
}
