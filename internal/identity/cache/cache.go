// Package cache holds positive identity lookups for a short time so that
// authenticated bursts do not hit the users table on every request.
package cache

import (
	"context"

	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
)

// Cache stores only identities that were found. A miss is (zero, false, nil).
type Cache interface {
	Get(ctx context.Context, username string) (identitydomain.Identity, bool, error)
	Set(ctx context.Context, identity identitydomain.Identity) error
	Invalidate(ctx context.Context, username string) error
	Backend() string
	Close() error
}
