package auth

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Role = model.AdminRole

type Principal struct {
	AdminID  int64
	Username string
	Role     Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
