package cache

import (
	"errors"
	"time"

	"sjsage522/couponworker/logger"
)

// ErrCacheMiss is returned by Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache: miss")

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// New returns a memcache-backed service when addr is set, otherwise an in-process one
func New(addr string) CacheService {
	log := logger.ForCache()
	if addr == "" {
		log.Debug().Msg("MEMCACHE_ADDR not set, using in-process cache")
		return NewMemoryService(DefaultMemorySize)
	}
	log.Info().Str("addr", addr).Msg("Using memcache")
	return NewMemcacheService(addr)
}

// BlockKey is the key a spider sets while it is rate limited
func BlockKey(spider string) string {
	return spider + "_rate_limited"
}

// IsBlocked reports whether the spider's block key is present
func IsBlocked(svc CacheService, spider string) bool {
	if svc == nil {
		return false
	}
	_, err := svc.Get(BlockKey(spider))
	return err == nil
}
