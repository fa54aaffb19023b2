package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache placed in front of read-only
// admin endpoints (dashboard, review queue).  Caching is off when Enabled is
// false or Redis is unreachable.  Agenda routes are never cached: they carry
// per-admin view state.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string // route, route_query, user_route_query
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.  Every mutation purges the
// cache, so the TTL only bounds staleness from changes made elsewhere.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      make(map[string]bool),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       envStr("CACHE_PREFIX", "cabins:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	for _, m := range splitList(envStr("CACHE_METHODS", "GET")) {
		c.Methods[strings.ToUpper(m)] = true
	}
	if c.TTL <= 0 {
		c.TTL = time.Second
	}
	return c
}
