// Package cache provides in-memory caching for repository query results.
package cache

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spiffcs/repoquery/internal/constants"
	"github.com/spiffcs/repoquery/internal/log"
	"github.com/spiffcs/repoquery/internal/model"
	"github.com/spiffcs/repoquery/internal/query"
)

// Cacher defines the interface for result caching operations.
// This interface enables mocking the cache in unit tests.
type Cacher interface {
	Get(key string) ([]model.RepositoryRecord, bool)
	Set(key string, records []model.RepositoryRecord)
	Clear()
	Stats() (total int, validCount int)
}

// Ensure Cache implements Cacher interface.
var _ Cacher = (*Cache)(nil)

// entry holds one cached result set with its write time.
type entry struct {
	records  []model.RepositoryRecord
	cachedAt time.Time
}

// Cache stores query results in memory for the life of the process.
// Entries expire after a TTL; expired entries read as misses but are not
// evicted until overwritten or cleared.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL. A non-positive TTL falls
// back to the default.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = constants.ResultCacheTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// KeyFor derives the cache key for a request. Entities are lowercased,
// and for every intent except comparison also sorted, so "top rust go
// projects" and "top Go Rust projects" share an entry. Comparison
// entities keep their order of mention: cached comparison records are
// stored in entity order and a hit replays them as-is, so "react vs
// vue" and "vue vs react" must not share an entry.
func KeyFor(req query.Request) string {
	entities := make([]string, len(req.Entities))
	for i, e := range req.Entities {
		entities[i] = strings.ToLower(strings.TrimSpace(e))
	}
	if req.Intent != query.IntentComparison {
		sort.Strings(entities)
	}

	var b strings.Builder
	b.WriteString(string(req.Intent))
	b.WriteByte('|')
	b.WriteString(strings.Join(entities, ","))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(req.Limit))
	b.WriteByte('|')
	b.WriteString(string(req.Window))
	return b.String()
}

// Get retrieves cached records. Entries older than the TTL read as misses.
func (c *Cache) Get(key string) ([]model.RepositoryRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.cachedAt) > c.ttl {
		log.Debug("cache entry expired", "key", key)
		return nil, false
	}

	// Copy so callers cannot mutate the cached slice.
	records := make([]model.RepositoryRecord, len(e.records))
	copy(records, e.records)
	return records, true
}

// Set stores records under the key, replacing any existing entry.
func (c *Cache) Set(key string, records []model.RepositoryRecord) {
	stored := make([]model.RepositoryRecord, len(records))
	copy(stored, records)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{records: stored, cachedAt: c.now()}
}

// Clear removes all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Stats returns the number of entries and how many are still valid.
func (c *Cache) Stats() (total int, validCount int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	for _, e := range c.entries {
		total++
		if now.Sub(e.cachedAt) <= c.ttl {
			validCount++
		}
	}
	return total, validCount
}
