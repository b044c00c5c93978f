package firebase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

const (
	adminClaim             = "admin"
	defaultCacheMaxEntries = 1024
)

// IDTokenVerifier is the part of *auth.Client the verifier needs.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type VerifierConfig struct {
	AdminEmails []string
	CacheTTL    time.Duration
	Logger      *logging.Logger
	Now         func() time.Time
}

// Verifier turns Firebase ID tokens into staff principals. A token is accepted
// when it carries the admin custom claim or its email is allow-listed.
type Verifier struct {
	tokens      IDTokenVerifier
	adminEmails map[string]struct{}
	cache       *principalCache
	logger      *logging.Logger
}

func NewVerifier(tokens IDTokenVerifier, cfg VerifierConfig) *Verifier {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	emails := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			emails[email] = struct{}{}
		}
	}
	return &Verifier{
		tokens:      tokens,
		adminEmails: emails,
		cache:       newPrincipalCache(cfg.CacheTTL, defaultCacheMaxEntries, cfg.Now),
		logger:      cfg.Logger.Named("auth"),
	}
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := v.cache.Get(key); ok {
		return principal, nil
	}

	decoded, err := v.tokens.VerifyIDToken(ctx, token)
	if err != nil {
		if !auth.IsIDTokenExpired(err) && !auth.IsIDTokenInvalid(err) && !auth.IsIDTokenRevoked(err) {
			v.logger.WarnContext(ctx, "id token verification failed", "error", err)
		}
		return user.Principal{}, fmt.Errorf("%w: invalid id token", usecase.ErrUnauthorized)
	}

	principal := principalFromToken(decoded)
	if !principal.Admin {
		principal.Admin = v.allowListed(principal.Email)
	}
	if !principal.Admin {
		v.logger.WarnContext(ctx, "non-admin token rejected", "uid", principal.UserID)
		return user.Principal{}, fmt.Errorf("%w: admin access required", usecase.ErrForbidden)
	}

	v.cache.Set(key, principal, time.Unix(decoded.Expires, 0))
	return principal, nil
}

func (v *Verifier) allowListed(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	_, ok := v.adminEmails[email]
	return ok
}

func principalFromToken(token *auth.Token) user.Principal {
	principal := user.Principal{UserID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		principal.Email = email
	}
	if admin, ok := token.Claims[adminClaim].(bool); ok {
		principal.Admin = admin
	}
	return principal
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// DevVerifier accepts any non-empty token as a fixed admin. Only wired when
// AUTH_DISABLED=true outside prod.
type DevVerifier struct{}

func (DevVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: "dev-admin", Email: "dev@localhost", Admin: true}, nil
}
