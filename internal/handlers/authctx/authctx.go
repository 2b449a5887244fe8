package authctx

import (
	"context"

	"github.com/vkarpov/identity/internal/service/auth/tokenmanager"
)

type ctxKey struct{}

// NewContext returns ctx carrying the authenticated claims
func NewContext(ctx context.Context, c tokenmanager.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the claims the auth middleware stored
func FromContext(ctx context.Context) (tokenmanager.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(tokenmanager.Claims)
	return c, ok
}
