package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests      atomic.Int64
	FilterRuns          atomic.Int64
	BackendFetches      atomic.Int64
	BackendErrors       atomic.Int64
	AutocompleteFetches atomic.Int64
	AutocompleteErrors  atomic.Int64
	AutocompleteStale   atomic.Int64
	SavedSearchWrites   atomic.Int64
	CollectionRefreshes atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests":      metrics.SearchRequests.Load(),
		"filter_runs":          metrics.FilterRuns.Load(),
		"backend_fetches":      metrics.BackendFetches.Load(),
		"backend_errors":       metrics.BackendErrors.Load(),
		"autocomplete_fetches": metrics.AutocompleteFetches.Load(),
		"autocomplete_errors":  metrics.AutocompleteErrors.Load(),
		"autocomplete_stale":   metrics.AutocompleteStale.Load(),
		"saved_search_writes":  metrics.SavedSearchWrites.Load(),
		"collection_refreshes": metrics.CollectionRefreshes.Load(),
		"cache_hits":           hits,
		"cache_misses":         misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"search_requests", "filter_runs",
		"backend_fetches", "backend_errors",
		"autocomplete_fetches", "autocomplete_errors", "autocomplete_stale",
		"saved_search_writes", "collection_refreshes",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrSearchRequests()      { metrics.SearchRequests.Add(1) }
func IncrFilterRuns()          { metrics.FilterRuns.Add(1) }
func IncrBackendFetches()      { metrics.BackendFetches.Add(1) }
func IncrBackendErrors()       { metrics.BackendErrors.Add(1) }
func IncrAutocompleteFetches() { metrics.AutocompleteFetches.Add(1) }
func IncrAutocompleteErrors()  { metrics.AutocompleteErrors.Add(1) }
func IncrAutocompleteStale()   { metrics.AutocompleteStale.Add(1) }
func IncrSavedSearchWrites()   { metrics.SavedSearchWrites.Add(1) }
func IncrCollectionRefreshes() { metrics.CollectionRefreshes.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 2*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
