package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/clock"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/constants"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	"github.com/AlibekovAA/secure-notes/backend/internal/observability/metrics"
)

const memoryBackend = "memory"

type memoryEntry struct {
	identity  identitydomain.Identity
	expiresAt time.Time
}

type MemoryCache struct {
	entries sync.Map
	size    atomic.Int64
	ttl     time.Duration
	clock   clock.Clock
	log     *logger.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewMemoryCache(ctx context.Context, ttl time.Duration, clk clock.Clock, log *logger.Logger) *MemoryCache {
	cacheCtx, cancel := context.WithCancel(ctx)
	c := &MemoryCache{
		ttl:    ttl,
		clock:  clk,
		log:    log,
		ctx:    cacheCtx,
		cancel: cancel,
	}

	go c.cleanup()

	return c
}

func (c *MemoryCache) Get(_ context.Context, username string) (identitydomain.Identity, bool, error) {
	if value, ok := c.entries.Load(username); ok {
		e := value.(*memoryEntry)
		if c.clock.Now().Before(e.expiresAt) {
			return e.identity, true, nil
		}
		c.evict(username, value)
	}
	return identitydomain.Identity{}, false, nil
}

func (c *MemoryCache) Set(_ context.Context, identity identitydomain.Identity) error {
	entry := &memoryEntry{
		identity:  identity,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
	if _, loaded := c.entries.Swap(identity.Username, entry); !loaded {
		metrics.IdentityCacheSize.Set(float64(c.size.Add(1)))
	}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, username string) error {
	c.delete(username)
	return nil
}

func (c *MemoryCache) Backend() string {
	return memoryBackend
}

func (c *MemoryCache) Len() int {
	return int(c.size.Load())
}

func (c *MemoryCache) delete(username string) {
	if _, loaded := c.entries.LoadAndDelete(username); loaded {
		metrics.IdentityCacheSize.Set(float64(c.size.Add(-1)))
	}
}

// evict removes username only while it still maps to entry, so an expired
// entry never takes a concurrently stored fresh one with it.
func (c *MemoryCache) evict(username string, entry any) bool {
	if !c.entries.CompareAndDelete(username, entry) {
		return false
	}
	metrics.IdentityCacheSize.Set(float64(c.size.Add(-1)))
	return true
}

func (c *MemoryCache) purgeExpired() int {
	now := c.clock.Now()
	removed := 0
	c.entries.Range(func(key, value interface{}) bool {
		if !now.Before(value.(*memoryEntry).expiresAt) && c.evict(key.(string), value) {
			removed++
		}
		return true
	})
	return removed
}

func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(constants.IdentityCacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if removed := c.purgeExpired(); removed > 0 {
				c.log.Debugf("identity cache cleaned up %d expired entries", removed)
			}
		}
	}
}

func (c *MemoryCache) Close() error {
	c.cancel()
	return nil
}
