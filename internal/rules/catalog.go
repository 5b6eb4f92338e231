package rules

import (
	"context"
	"log/slog"
	"time"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/common"
)

// DefaultCacheTTL bounds how long a per-kind rule fetch is reused.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	sets      []RuleSet
	fetchedAt time.Time
}

// Catalog holds, per record kind, the ordered list of extraction rule sets,
// behind a time-bounded cache. A stale cache is always preferred over a hard
// failure: once any fetch has succeeded for a kind, catalog errors degrade to
// warnings. One logical session owns a Catalog; no internal locking.
type Catalog struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	cache map[constants.RecordKind]cacheEntry
}

func NewCatalog(source Source, ttl time.Duration, now func() time.Time, logger *slog.Logger) *Catalog {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		source: source,
		ttl:    ttl,
		now:    now,
		logger: logger,
		cache:  make(map[constants.RecordKind]cacheEntry),
	}
}

// GetRules returns the ordered rule sets for kind. forceRefresh bypasses the
// TTL check but does not invalidate the cache: if the refresh fails and a
// previous successful fetch exists, the stale sets are served with a warning.
// The last-fetch timestamp advances only on success.
func (c *Catalog) GetRules(ctx context.Context, kind constants.RecordKind, forceRefresh bool) ([]RuleSet, error) {
	entry, cached := c.cache[kind]
	if cached && !forceRefresh && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.sets, nil
	}

	sets, err := c.source.Fetch(ctx, kind)
	if err != nil {
		if cached {
			c.logger.Warn("rules.catalog.stale_fallback",
				"kind", kind,
				"fetched_at", entry.fetchedAt,
				"error", err,
			)
			return entry.sets, nil
		}
		c.logger.Error("rules.catalog.unavailable", "kind", kind, "error", err)
		return nil, common.NewAppError("CATALOG_UNAVAILABLE", "no cached rules for "+string(kind), common.ErrCatalogUnavailable)
	}

	c.cache[kind] = cacheEntry{sets: sets, fetchedAt: c.now()}
	c.logger.Info("rules.catalog.refreshed", "kind", kind, "rule_sets", len(sets))
	return sets, nil
}

// LastFetch reports when the kind's rules were last fetched successfully.
func (c *Catalog) LastFetch(kind constants.RecordKind) (time.Time, bool) {
	entry, ok := c.cache[kind]
	return entry.fetchedAt, ok
}
