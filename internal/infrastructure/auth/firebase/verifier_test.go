package firebase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

type fakeTokens struct {
	calls atomic.Int32
	token *auth.Token
	err   error
}

func (f *fakeTokens) VerifyIDToken(_ context.Context, _ string) (*auth.Token, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

var verifierNow = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func newTestVerifier(tokens IDTokenVerifier, emails ...string) *Verifier {
	return NewVerifier(tokens, VerifierConfig{
		AdminEmails: emails,
		CacheTTL:    5 * time.Minute,
		Now:         func() time.Time { return verifierNow },
	})
}

func TestVerifier_AdminClaimAcceptedAndCached(t *testing.T) {
	t.Parallel()

	tokens := &fakeTokens{token: &auth.Token{
		UID:     "staff-1",
		Expires: verifierNow.Add(time.Hour).Unix(),
		Claims:  map[string]any{"admin": true, "email": "staff@diskichat.id"},
	}}
	verifier := newTestVerifier(tokens)

	for range 2 {
		principal, err := verifier.VerifyAccessToken(t.Context(), "id-token")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if principal.UserID != "staff-1" || !principal.Admin {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	}
	if got := tokens.calls.Load(); got != 1 {
		t.Fatalf("expected one upstream verification, got=%d", got)
	}
}

func TestVerifier_AllowListedEmail(t *testing.T) {
	t.Parallel()

	tokens := &fakeTokens{token: &auth.Token{
		UID:     "staff-2",
		Expires: verifierNow.Add(time.Hour).Unix(),
		Claims:  map[string]any{"email": "Ops@DiskiChat.id"},
	}}
	verifier := newTestVerifier(tokens, "ops@diskichat.id")

	principal, err := verifier.VerifyAccessToken(t.Context(), "id-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !principal.Admin {
		t.Fatalf("expected allow-listed email to be admin")
	}
}

func TestVerifier_NonAdminForbidden(t *testing.T) {
	t.Parallel()

	tokens := &fakeTokens{token: &auth.Token{
		UID:     "fan-1",
		Expires: verifierNow.Add(time.Hour).Unix(),
		Claims:  map[string]any{"email": "fan@example.com"},
	}}
	verifier := newTestVerifier(tokens)

	_, err := verifier.VerifyAccessToken(t.Context(), "id-token")
	if !errors.Is(err, usecase.ErrForbidden) {
		t.Fatalf("expected forbidden, got=%v", err)
	}
	_, _ = verifier.VerifyAccessToken(t.Context(), "id-token")
	if got := tokens.calls.Load(); got != 2 {
		t.Fatalf("rejected principals must not be cached, calls=%d", got)
	}
}

func TestVerifier_InvalidToken(t *testing.T) {
	t.Parallel()

	verifier := newTestVerifier(&fakeTokens{err: errors.New("signature mismatch")})
	if _, err := verifier.VerifyAccessToken(t.Context(), "id-token"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got=%v", err)
	}
	if _, err := verifier.VerifyAccessToken(t.Context(), "  "); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got=%v", err)
	}
}

func TestPrincipalCache_RespectsTokenExpiry(t *testing.T) {
	t.Parallel()

	now := verifierNow
	cache := newPrincipalCache(time.Hour, 2, func() time.Time { return now })
	cache.Set("a", principalFixture("a"), now.Add(time.Minute))
	cache.Set("b", principalFixture("b"), time.Time{})
	cache.Set("c", principalFixture("c"), time.Time{})

	if len(cache.entries) != 2 {
		t.Fatalf("expected eviction to cap entries, got=%d", len(cache.entries))
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("a"); ok {
		t.Fatalf("entry must expire with the token")
	}
}

func TestDevVerifier(t *testing.T) {
	t.Parallel()

	principal, err := DevVerifier{}.VerifyAccessToken(t.Context(), "anything")
	if err != nil || !principal.Admin {
		t.Fatalf("unexpected result: %+v err=%v", principal, err)
	}
}

func principalFixture(id string) user.Principal {
	return user.Principal{UserID: id, Admin: true}
}
