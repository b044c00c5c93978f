package usecase

import "context"

// MetricsRecorder receives business counters. observability.Metrics implements it.
type MetricsRecorder interface {
	RecordImport(ctx context.Context, lifecycle, outcome string)
	RecordModeration(ctx context.Context, from, to string)
	RecordBroadcast(ctx context.Context, outcome string)
	RecordLiveReconcile(ctx context.Context, added, removed int)
}

type noopMetrics struct{}

func (noopMetrics) RecordImport(context.Context, string, string) {}
func (noopMetrics) RecordModeration(context.Context, string, string) {}
func (noopMetrics) RecordBroadcast(context.Context, string) {}
func (noopMetrics) RecordLiveReconcile(context.Context, int, int) {}

func NewNoopMetrics() MetricsRecorder {
	return noopMetrics{}
}
