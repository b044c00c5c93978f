package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("diskichat-admin/internal/interfaces/httpapi")

// startSpan opens a handler span under the otelhttp server span, tagged with
// the authenticated staff member. Requests the tracing middleware skipped
// (health checks, metrics scrapes) carry no parent and stay untraced.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !isHandlerSpan(name) {
		return ctx, trace.SpanFromContext(context.Background())
	}

	ctx, span := apiTracer.Start(ctx, name)
	if p, ok := principalFromContext(ctx); ok {
		span.SetAttributes(
			attribute.String("enduser.id", p.UserID),
			attribute.Bool("admin.is_admin", p.Admin),
		)
	}
	return ctx, span
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}
