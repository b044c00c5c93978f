package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "diskichat-admin"

// Metrics records business and provider counters on an OpenTelemetry meter
// read by a Prometheus exporter. A nil *Metrics records nothing.
type Metrics struct {
	provider *sdkmetric.MeterProvider

	imports          metric.Int64Counter
	moderations      metric.Int64Counter
	broadcasts       metric.Int64Counter
	liveAdded        metric.Int64Counter
	liveRemoved      metric.Int64Counter
	providerRequests metric.Int64Counter
	providerLatency  metric.Float64Histogram
}

// SetupMetrics builds the meter provider and the /metrics handler. When disabled
// it returns a nil recorder and handler, both safe to pass around.
func SetupMetrics(enabled bool) (*Metrics, http.Handler, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !enabled {
		return nil, nil, noop, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, noop, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	m, err := newMetrics(provider)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, nil, noop, err
	}

	return m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), provider.Shutdown, nil
}

func newMetrics(provider *sdkmetric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)
	m := &Metrics{provider: provider}

	var err error
	if m.imports, err = meter.Int64Counter("diskichat_fixture_imports",
		metric.WithDescription("Fixtures imported into matches, by lifecycle and outcome.")); err != nil {
		return nil, err
	}
	if m.moderations, err = meter.Int64Counter("diskichat_user_moderations",
		metric.WithDescription("User moderation status changes.")); err != nil {
		return nil, err
	}
	if m.broadcasts, err = meter.Int64Counter("diskichat_broadcasts",
		metric.WithDescription("Push broadcasts, by outcome.")); err != nil {
		return nil, err
	}
	if m.liveAdded, err = meter.Int64Counter("diskichat_live_matches_upserted"); err != nil {
		return nil, err
	}
	if m.liveRemoved, err = meter.Int64Counter("diskichat_live_matches_removed"); err != nil {
		return nil, err
	}
	if m.providerRequests, err = meter.Int64Counter("diskichat_provider_requests",
		metric.WithDescription("Outbound provider calls, by provider, endpoint and outcome.")); err != nil {
		return nil, err
	}
	if m.providerLatency, err = meter.Float64Histogram("diskichat_provider_request_duration",
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) RecordImport(ctx context.Context, lifecycle, outcome string) {
	if m == nil {
		return
	}
	m.imports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("lifecycle", lifecycle),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordModeration(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.moderations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

func (m *Metrics) RecordBroadcast(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.broadcasts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordLiveReconcile(ctx context.Context, added, removed int) {
	if m == nil {
		return
	}
	m.liveAdded.Add(ctx, int64(added))
	m.liveRemoved.Add(ctx, int64(removed))
}

func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	)
	m.providerRequests.Add(ctx, 1, attrs)
	m.providerLatency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}
