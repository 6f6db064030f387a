// Package cache persists provider results with TTL validation and
// quota-aware eviction. Nothing in this package returns an error to its
// callers: every failure degrades to a cache miss or a skipped write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/jobboard-api/internal/model"
)

// KeyPrefix namespaces every key this package writes.
const KeyPrefix = "jobboard:"

// LegacyHNKey is the key used before per-provider keys existed. It is
// still recognised for eviction.
const LegacyHNKey = KeyPrefix + "jobs"

// KeyFor returns the cache key for a provider id.
func KeyFor(providerID string) string {
	return KeyPrefix + providerID + ":jobs"
}

// VariantKey returns the cache key for one configuration variant of a
// provider. An empty variant is the provider's plain key.
func VariantKey(providerID, variant string) string {
	if variant == "" {
		return KeyFor(providerID)
	}
	return KeyPrefix + providerID + ":" + variant + ":jobs"
}

// WellKnownKeys lists the plain provider keys. Variant keys are found by
// listing the store.
func WellKnownKeys() []string {
	return []string{
		KeyFor("hn"),
		KeyFor("remoteok"),
		KeyFor("arbeitnow"),
		KeyFor("jobicy"),
		KeyFor("remotive"),
		LegacyHNKey,
	}
}

// Cache reads and writes CacheEntry values over a Store.
type Cache struct {
	store Store
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the entry at key if it is younger than ttl. Expired and
// corrupt entries are deleted and reported as a miss.
func (c *Cache) Read(ctx context.Context, key string, ttl time.Duration) *model.CacheEntry {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return nil
	}
	if !ok {
		return nil
	}

	var entry model.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding corrupt cache entry")
		c.remove(ctx, key)
		return nil
	}

	if age := c.now().Sub(entry.FetchedAt); age > ttl {
		log.Debug().Str("key", key).Dur("age", age).Msg("Cache entry expired")
		c.remove(ctx, key)
		return nil
	}
	return &entry
}

// Write stores entry at key with HTML bodies stripped. On a quota error
// every other key under KeyPrefix is evicted and the write is retried
// once. It reports whether the entry was persisted.
func (c *Cache) Write(ctx context.Context, key string, entry model.CacheEntry) bool {
	data, err := json.Marshal(strip(entry))
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache entry not serialisable")
		return false
	}

	err = c.store.Set(ctx, key, data)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		return false
	}

	evicted := c.evictExcept(ctx, key)
	log.Warn().
		Str("key", key).
		Int("evicted", evicted).
		Int("bytes", len(data)).
		Msg("Cache quota exceeded, evicted other providers")

	if err := c.store.Set(ctx, key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed after eviction")
		return false
	}
	return true
}

// Clear removes the entry at key.
func (c *Cache) Clear(ctx context.Context, key string) {
	c.remove(ctx, key)
}

func (c *Cache) evictExcept(ctx context.Context, keep string) int {
	candidates := WellKnownKeys()
	if keys, err := c.store.Keys(ctx); err == nil {
		candidates = append(candidates, keys...)
	} else {
		log.Warn().Err(err).Msg("Listing cache keys failed, evicting well-known keys only")
	}

	seen := make(map[string]bool)
	evicted := 0
	for _, k := range candidates {
		if k == keep || seen[k] || !strings.HasPrefix(k, KeyPrefix) {
			continue
		}
		seen[k] = true
		if _, ok, _ := c.store.Get(ctx, k); !ok {
			continue
		}
		if err := c.store.Delete(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("Cache eviction failed")
			continue
		}
		evicted++
	}
	return evicted
}

func (c *Cache) remove(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache delete failed")
	}
}

// strip drops the HTML bodies; ParsedJob.DisplayHTML rebuilds them from RawText.
func strip(entry model.CacheEntry) model.CacheEntry {
	jobs := make([]model.ParsedJob, len(entry.Jobs))
	for i, j := range entry.Jobs {
		j.HTMLText = ""
		jobs[i] = j
	}
	entry.Jobs = jobs
	return entry
}
