package cache

import (
	"time"

	"vendora/storescraper/logger"
)

const navBlockKeyPrefix = "nav_blocked:"

// NavGuard rate-limits navigation per host through the cache service. A
// host that recently failed navigation gets a temporary block so repeated
// scrape invocations do not hammer an unreachable or throttling storefront.
//
// A nil guard and a guard without a cache are both valid and never block;
// callers need no nil checks.
type NavGuard struct {
	cache        CacheService
	blockSeconds int
	log          *logger.Logger
}

// NewNavGuard creates a navigation guard on top of a cache service. cache
// may be nil when rate limiting is not configured.
func NewNavGuard(cache CacheService, blockSeconds int) *NavGuard {
	return &NavGuard{
		cache:        cache,
		blockSeconds: blockSeconds,
		log:          logger.ForCache(),
	}
}

// Blocked reports whether navigation to the host is currently blocked.
// Cache errors (including a miss) read as not blocked.
func (g *NavGuard) Blocked(host string) bool {
	if g == nil || g.cache == nil || host == "" {
		return false
	}
	_, err := g.cache.Get(navBlockKeyPrefix + host)
	return err == nil
}

// Block marks the host as blocked for the configured duration
func (g *NavGuard) Block(host string) {
	if g == nil || g.cache == nil || host == "" {
		return
	}
	expiration := time.Duration(g.blockSeconds) * time.Second
	if err := g.cache.Set(navBlockKeyPrefix+host, []byte("1"), expiration); err != nil {
		g.log.Warn().Str("host", host).Err(err).Msg("Failed to set navigation block")
		return
	}
	g.log.Debug().Str("host", host).Int("seconds", g.blockSeconds).Msg("Navigation blocked")
}

// Unblock clears a host's navigation block
func (g *NavGuard) Unblock(host string) {
	if g == nil || g.cache == nil || host == "" {
		return
	}
	_ = g.cache.Delete(navBlockKeyPrefix + host)
}
