package curl

import "testing"

func TestPreview(t *testing.T) {
	t.Parallel()

	got := Preview("POST", "https://onesignal.com/api/v1/notifications",
		[]string{"Authorization: Basic ***", "Content-Type: application/json"},
		`{"headings":{"en":"It's live"}}`, "broadcast")

	want := `curl -X POST 'https://onesignal.com/api/v1/notifications' -H 'Authorization: Basic ***' -H 'Content-Type: application/json' -d '{"headings":{"en":"It'"'"'s live"}}' # 'broadcast'`
	if got != want {
		t.Fatalf("unexpected preview:\nwant: %s\ngot:  %s", want, got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("abcdef", 3); got != "abc...(truncated)" {
		t.Fatalf("unexpected truncate: %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Fatalf("unexpected truncate without limit: %q", got)
	}
}
