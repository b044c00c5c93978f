package user

import (
	"errors"
	"testing"
)

func TestNormalizeStoredStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]ModerationStatus{
		"":          StatusActive,
		"  ":        StatusActive,
		"Active":    StatusActive,
		"suspended": StatusSuspended,
		"BANNED":    StatusBanned,
		"unknown":   StatusActive,
	}
	for raw, want := range cases {
		if got := NormalizeStoredStatus(raw); got != want {
			t.Fatalf("NormalizeStoredStatus(%q): got=%s want=%s", raw, got, want)
		}
	}
}

func TestParseModerationStatus_RejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, err := ParseModerationStatus("deleted"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := ParseModerationStatus(""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected empty input to be rejected, got %v", err)
	}
}

func TestUserMatches(t *testing.T) {
	t.Parallel()

	u := User{Username: "bobotoh", DisplayName: "Asep Persib", Email: "asep@example.com"}
	for _, q := range []string{"", "BOBO", "persib", "EXAMPLE.COM"} {
		if !u.Matches(q) {
			t.Fatalf("expected %q to match", q)
		}
	}
	if u.Matches("jakmania") {
		t.Fatalf("unexpected match")
	}
}
