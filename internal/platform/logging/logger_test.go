package logging

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q): got=%s want=%s", raw, got, want)
		}
	}
}

func TestLogger_WritesKeyValueFields(t *testing.T) {
	t.Parallel()

	core, recorded := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).Named("importer").With("run_id", "run-1")

	logger.WarnContext(t.Context(), "import failed", "fixture_id", int64(1035012), "error", errors.New("boom"), "dangling")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got=%d", len(entries))
	}
	entry := entries[0]
	if entry.LoggerName != "importer" {
		t.Fatalf("unexpected component: %q", entry.LoggerName)
	}
	fields := entry.ContextMap()
	if fields["run_id"] != "run-1" {
		t.Fatalf("expected inherited run_id field, got=%v", fields["run_id"])
	}
	if fields["fixture_id"] != int64(1035012) {
		t.Fatalf("unexpected fixture_id field: %v", fields["fixture_id"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("no panic")
	if logger.Named("x") == nil {
		t.Fatalf("expected nop logger from nil receiver")
	}
}
