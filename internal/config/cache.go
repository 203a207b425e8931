package config

import "time"

// CacheConfig defines settings for the Redis-backed occupancy cache.  The
// cache shields the read-heavy public endpoints (office listings, occupancy
// summaries, the chart) from hitting MySQL on every request.  When Enabled is
// false or no Redis client is configured the cache layer is bypassed and
// reads go straight to the database.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration // lifetime of cached entries
    Prefix  string        // Redis key namespace
}

func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled: envBool("CACHE_ENABLED", true),
        TTL:     envDur("CACHE_TTL", 30*time.Second),
        Prefix:  envStr("CACHE_PREFIX", "occ"),
    }
    if cfg.TTL <= 0 { cfg.TTL = 30 * time.Second }
    return cfg
}
