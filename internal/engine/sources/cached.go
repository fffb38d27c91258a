package sources

import (
	"context"
	"strings"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// Cached decorates a Source with the engine's tiered cache (L1 memory, L2 Redis).
// Failures are never cached.
type Cached struct {
	src Source
}

// NewCached wraps src.
func NewCached(src Source) *Cached { return &Cached{src: src} }

func jobsKey(f engine.ServerFilters) string { return engine.CacheKey("jobs", f.Key()) }

// FetchJobs implements JobSource.
func (c *Cached) FetchJobs(ctx context.Context, f engine.ServerFilters) ([]engine.JobRecord, error) {
	key := jobsKey(f)
	if jobs, ok := engine.CacheLoadJSON[[]engine.JobRecord](ctx, key); ok {
		return jobs, nil
	}
	return c.Warm(ctx, f)
}

// Warm fetches from the wrapped source and refreshes the cache entry,
// bypassing any cached value.
func (c *Cached) Warm(ctx context.Context, f engine.ServerFilters) ([]engine.JobRecord, error) {
	jobs, err := c.src.FetchJobs(ctx, f)
	if err != nil {
		return nil, err
	}
	engine.CacheStoreJSON(ctx, jobsKey(f), jobs)
	return jobs, nil
}

// Autocomplete implements Suggester.
func (c *Cached) Autocomplete(ctx context.Context, query string) (engine.Suggestions, error) {
	key := engine.CacheKey("autocomplete", engine.Lower(strings.TrimSpace(query)))
	if s, ok := engine.CacheLoadJSON[engine.Suggestions](ctx, key); ok {
		return s, nil
	}
	s, err := c.src.Autocomplete(ctx, query)
	if err != nil {
		return engine.Suggestions{}, err
	}
	engine.CacheStoreJSON(ctx, key, s)
	return s, nil
}

// AutocompleteLocations implements Suggester.
func (c *Cached) AutocompleteLocations(ctx context.Context, query string) ([]string, error) {
	key := engine.CacheKey("autocomplete-locations", engine.Lower(strings.TrimSpace(query)))
	if locs, ok := engine.CacheLoadJSON[[]string](ctx, key); ok {
		return locs, nil
	}
	locs, err := c.src.AutocompleteLocations(ctx, query)
	if err != nil {
		return nil, err
	}
	engine.CacheStoreJSON(ctx, key, locs)
	return locs, nil
}
