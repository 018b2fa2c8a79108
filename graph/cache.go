package graph

import (
	"fmt"
	"sync"
	"time"

	"github.com/hkfrei/wiski-html/models"
)

// DefaultSessionTTL bounds how long a cached series may serve a viewing
// session before it is fetched again.
const DefaultSessionTTL = 5 * time.Minute

// Cache keeps downloaded time series per series id and period so switching
// back to an already loaded period within a viewing session does not hit
// the upstream again. Entries expire after the ttl, so live periods pick
// up new measurements once the session window has passed.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	series   *models.TimeSeries
	storedAt time.Time
}

// NewCache creates an empty time series cache whose entries expire after
// ttl. A ttl of zero or below uses DefaultSessionTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(tsID, period string) string {
	return fmt.Sprintf("%s:%s", tsID, period)
}

// Get returns the cached series for a series id and period. An expired
// entry is a miss; the next Put overwrites it.
func (c *Cache) Get(tsID, period string) (*models.TimeSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheKey(tsID, period)]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.series, true
}

// Put stores a downloaded series for a series id and period.
func (c *Cache) Put(tsID, period string, series *models.TimeSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(tsID, period)] = cacheEntry{series: series, storedAt: c.now()}
}
