package jwtverify

import (
	"context"

	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
)

type contextKey string

const identityKey contextKey = "authenticated_identity"

func WithIdentity(ctx context.Context, identity identitydomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (identitydomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(identitydomain.Identity)
	return identity, ok
}
