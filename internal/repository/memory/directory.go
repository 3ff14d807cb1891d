// Package memory holds the process-local caches in front of the providers.
// Entries are never mutated in place; refresh replaces whole generations.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/omarshaarawi/statbot/internal/metrics"
	"github.com/omarshaarawi/statbot/internal/models"
)

// TeamDirectory is the TTL cache mapping normalized abbreviations to teams.
// The mapping is replaced atomically on refresh so readers always observe a
// complete generation.
type TeamDirectory struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu          sync.RWMutex
	teams       map[string]models.Team
	lastRefresh time.Time

	refreshMu sync.Mutex
}

func NewTeamDirectory(ttl time.Duration, clock clockwork.Clock) *TeamDirectory {
	return &TeamDirectory{
		clock: clock,
		ttl:   ttl,
	}
}

// Lookup resolves a normalized abbreviation against the current generation.
func (d *TeamDirectory) Lookup(abbr string) (models.Team, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	team, ok := d.teams[models.NormalizeAbbr(abbr)]
	return team, ok
}

// Snapshot returns the current generation. The map is copy-on-write replaced
// and must not be mutated by callers.
func (d *TeamDirectory) Snapshot() map[string]models.Team {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.teams
}

// Stale reports whether the directory has never loaded or outlived its TTL.
func (d *TeamDirectory) Stale() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.teams == nil || d.clock.Since(d.lastRefresh) >= d.ttl
}

// Loaded reports whether any generation is available.
func (d *TeamDirectory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.teams != nil
}

// Refresh reloads the directory through loader when it is stale. Concurrent
// refreshes are serialized; the loser of the race sees the fresh generation
// and skips its own reload. A failed reload keeps the previous generation and
// returns the error.
func (d *TeamDirectory) Refresh(ctx context.Context, loader func(context.Context) ([]models.Team, error)) error {
	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()

	if !d.Stale() {
		metrics.CacheHits.WithLabelValues("team_directory").Inc()
		return nil
	}
	metrics.CacheMisses.WithLabelValues("team_directory").Inc()

	teams, err := loader(ctx)
	if err != nil {
		return err
	}

	generation := make(map[string]models.Team, len(teams))
	for _, team := range teams {
		generation[models.NormalizeAbbr(team.Abbreviation)] = team
	}

	d.mu.Lock()
	d.teams = generation
	d.lastRefresh = d.clock.Now()
	d.mu.Unlock()
	return nil
}
