package httpapi

import (
	"testing"

	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
)

func TestIsHandlerSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "httpapi.Handler.ImportFixtures", want: true},
		{in: "httpapi.Handler.StreamMatchPresence", want: true},
		{in: "httpapi.RequestLogging", want: false},
		{in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		if got := isHandlerSpan(tt.in); got != tt.want {
			t.Fatalf("isHandlerSpan(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestStartSpan_WithoutParentIsNoop(t *testing.T) {
	t.Parallel()

	ctx := withPrincipal(t.Context(), user.Principal{UserID: "staff-1", Admin: true})
	_, span := startSpan(ctx, "httpapi.Handler.ListUsers")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Fatalf("expected noop span without a parent")
	}
	if span.IsRecording() {
		t.Fatalf("expected non-recording span")
	}
}
