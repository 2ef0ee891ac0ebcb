package calendar

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dwsmith1983/slacalc/internal/metrics"
	"github.com/dwsmith1983/slacalc/pkg/types"
)

// Cache memoizes a HolidayProvider per (country, state, province, year).
// Concurrent misses for the same key share a single upstream lookup. Cached
// sets are shared between callers and must not be modified.
type Cache struct {
	next  HolidayProvider
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]types.DateSet
}

// NewCache wraps next with a process-wide memo.
func NewCache(next HolidayProvider) *Cache {
	return &Cache{
		next:    next,
		entries: make(map[string]types.DateSet),
	}
}

// Holidays implements HolidayProvider. Errors are not cached.
func (c *Cache) Holidays(locale types.Locale, year int) (types.DateSet, error) {
	key := locale.Key() + "/" + strconv.Itoa(year)

	c.mu.RLock()
	set, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		metrics.HolidayCacheHits.Add(1)
		return set, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		set, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return set, nil
		}

		metrics.HolidayLookups.Add(1)
		set, err := c.next.Holidays(locale, year)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = set
		c.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(types.DateSet), nil
}

// Len returns the number of cached (locale, year) entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
