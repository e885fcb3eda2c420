package service

import (
	"context"
	"errors"
	"fmt"

	commonerrors "github.com/AlibekovAA/secure-notes/backend/internal/common/errors"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
	identitycache "github.com/AlibekovAA/secure-notes/backend/internal/identity/cache"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	"github.com/AlibekovAA/secure-notes/backend/internal/observability/metrics"
	userdomain "github.com/AlibekovAA/secure-notes/backend/internal/user/domain"
)

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (userdomain.User, error)
}

// Resolver maps a verified username to a stored user. Only successful
// lookups are cached, so a removed user stops resolving once its cached
// entry expires and an unknown name is always checked against storage.
type Resolver struct {
	users UserFinder
	cache identitycache.Cache
	log   *logger.Logger
}

// NewResolver builds a resolver. cache may be nil.
func NewResolver(users UserFinder, cache identitycache.Cache, log *logger.Logger) *Resolver {
	return &Resolver{
		users: users,
		cache: cache,
		log:   log,
	}
}

func (r *Resolver) Resolve(ctx context.Context, username string) (identitydomain.Identity, error) {
	if identity, ok := r.fromCache(ctx, username); ok {
		metrics.IdentityResolutionsTotal.WithLabelValues("cache_hit").Inc()
		return identity, nil
	}

	user, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			metrics.IdentityResolutionsTotal.WithLabelValues("unknown").Inc()
			r.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "resolve_identity_unknown",
			}).Warn("token names an unknown user")
			return identitydomain.Identity{}, identitydomain.ErrUnknownIdentity
		}
		metrics.IdentityResolutionsTotal.WithLabelValues("error").Inc()
		r.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "resolve_identity_failed",
		}).Errorf("resolve identity failed: %v", err)
		return identitydomain.Identity{}, commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to resolve identity: %w", err))
	}

	identity := identitydomain.Identity{UserID: user.ID, Username: user.Username}
	metrics.IdentityResolutionsTotal.WithLabelValues("resolved").Inc()
	r.store(ctx, identity)
	return identity, nil
}

func (r *Resolver) fromCache(ctx context.Context, username string) (identitydomain.Identity, bool) {
	if r.cache == nil {
		return identitydomain.Identity{}, false
	}

	identity, ok, err := r.cache.Get(ctx, username)
	if err != nil {
		metrics.IdentityCacheErrors.WithLabelValues(r.cache.Backend(), "get").Inc()
		r.log.WithFields(ctx, logger.Fields{"action": "identity_cache_get_failed"}).Warnf("identity cache read failed: %v", err)
		return identitydomain.Identity{}, false
	}
	if !ok {
		metrics.IdentityCacheMisses.WithLabelValues(r.cache.Backend()).Inc()
		return identitydomain.Identity{}, false
	}
	metrics.IdentityCacheHits.WithLabelValues(r.cache.Backend()).Inc()
	return identity, true
}

func (r *Resolver) store(ctx context.Context, identity identitydomain.Identity) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, identity); err != nil {
		metrics.IdentityCacheErrors.WithLabelValues(r.cache.Backend(), "set").Inc()
		r.log.WithFields(ctx, logger.Fields{"action": "identity_cache_set_failed"}).Warnf("identity cache write failed: %v", err)
	}
}
