package memory

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/omarshaarawi/statbot/internal/metrics"
)

// OutcomeKey identifies one team's completed-game history as of a cutoff
// date. History before a fixed date never changes, so entries live for the
// whole process.
type OutcomeKey struct {
	TeamID     int
	SeasonYear int
	Cutoff     string // YYYYMMDD
}

func (k OutcomeKey) String() string {
	return fmt.Sprintf("%d|%d|%s", k.TeamID, k.SeasonYear, k.Cutoff)
}

// OutcomeCache is the insert-once cache of win/loss sequences. Concurrent
// computations for the same key are coalesced.
type OutcomeCache struct {
	mu      sync.RWMutex
	entries map[OutcomeKey][]bool
	flight  singleflight.Group
}

func NewOutcomeCache() *OutcomeCache {
	return &OutcomeCache{entries: make(map[OutcomeKey][]bool)}
}

// GetOrCompute returns the cached sequence for key, computing and storing it
// on first use. The returned slice is shared and must not be mutated.
func (c *OutcomeCache) GetOrCompute(key OutcomeKey, compute func() ([]bool, error)) ([]bool, error) {
	c.mu.RLock()
	flags, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		metrics.CacheHits.WithLabelValues("outcomes").Inc()
		return flags, nil
	}

	result, err, _ := c.flight.Do(key.String(), func() (any, error) {
		c.mu.RLock()
		flags, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			metrics.CacheHits.WithLabelValues("outcomes").Inc()
			return flags, nil
		}
		metrics.CacheMisses.WithLabelValues("outcomes").Inc()

		flags, err := compute()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = flags
		c.mu.Unlock()
		return flags, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]bool), nil
}

// Len reports the number of cached keys.
func (c *OutcomeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
