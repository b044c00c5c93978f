package httpapi

import (
	"context"

	"github.com/riskibarqy/diskichat-admin/internal/domain/user"
)

type contextKey string

const principalContextKey contextKey = "auth_principal"

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

// actorFromContext names the staff member for audit records.
func actorFromContext(ctx context.Context) string {
	p, ok := principalFromContext(ctx)
	if !ok {
		return "unknown"
	}
	if p.Email != "" {
		return p.Email
	}
	return p.UserID
}
