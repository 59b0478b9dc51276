package weather

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/kvstore"
)

const (
	// DefaultCacheTTL is how long a cached snapshot stays fresh.
	DefaultCacheTTL = 30 * time.Minute

	cacheKeyPrefix = "weather:"
)

// cacheEntry is the serialized envelope stored per city.
type cacheEntry struct {
	Snapshot  *Snapshot `json:"snapshot"`
	WrittenAt time.Time `json:"written_at"`
}

// CacheConfig holds configuration for the snapshot cache.
type CacheConfig struct {
	// Store is the backing key-value store (required).
	Store kvstore.Store

	// Logger for cache operations.
	Logger zerolog.Logger

	// TTL is the snapshot time-to-live (default: 30 minutes).
	TTL time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Cache is the per-city snapshot store. Expiry is enforced on read: an
// expired entry is deleted and reported as a miss, so no caller ever
// observes stale-but-present data.
type Cache struct {
	store  kvstore.Store
	logger zerolog.Logger
	ttl    time.Duration
	now    func() time.Time
}

// NewCache creates a snapshot cache.
func NewCache(cfg CacheConfig) *Cache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Cache{
		store:  cfg.Store,
		logger: cfg.Logger,
		ttl:    ttl,
		now:    now,
	}
}

// cityKey normalizes a city query into a cache key.
func cityKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

// Put serializes the snapshot and records the current time as the write
// timestamp, overwriting any prior entry for the city.
func (c *Cache) Put(ctx context.Context, city string, snap *Snapshot) error {
	entry := cacheEntry{
		Snapshot:  snap,
		WrittenAt: c.now(),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.store.Set(ctx, cityKey(city), string(raw))
}

// Get returns the cached snapshot for a city, or nil if absent or expired.
// Expired entries are physically removed before reporting the miss.
// Storage failures are logged and treated as a miss.
func (c *Cache) Get(ctx context.Context, city string) *Snapshot {
	key := cityKey(city)

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("city", city).Msg("cache read failed, treating as miss")
		}
		return nil
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Warn().Err(err).Str("city", city).Msg("corrupt cache entry, removing")
		_ = c.store.Remove(ctx, key)
		return nil
	}

	if c.now().Sub(entry.WrittenAt) >= c.ttl {
		if err := c.store.Remove(ctx, key); err != nil {
			c.logger.Warn().Err(err).Str("city", city).Msg("failed to remove expired cache entry")
		}
		return nil
	}

	return entry.Snapshot
}

// Clear removes the cached snapshot for one city.
func (c *Cache) Clear(ctx context.Context, city string) error {
	return c.store.Remove(ctx, cityKey(city))
}

// ClearAll removes every cached snapshot. Called on cold start once
// connectivity is confirmed, to force a fresh pull.
func (c *Cache) ClearAll(ctx context.Context) error {
	keys, err := c.store.ListKeys(ctx, cacheKeyPrefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.RemoveMany(ctx, keys)
}
