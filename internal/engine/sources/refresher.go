package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// Refresher keeps the default job collection warm in the cache on a cron schedule.
type Refresher struct {
	cron    *cron.Cron
	cached  *Cached
	spec    string
	filters engine.ServerFilters
}

// NewRefresher schedules refreshes of the unfiltered collection (capped at the
// configured fetch limit). spec is a robfig/cron spec such as "@every 10m".
func NewRefresher(cached *Cached, spec string) *Refresher {
	return &Refresher{
		cron:    cron.New(),
		cached:  cached,
		spec:    spec,
		filters: engine.ServerFilters{Limit: engine.Cfg.FetchLimit},
	}
}

// Start registers the job, starts the scheduler and runs one refresh in the
// background so the cache is populated before the first tick.
func (r *Refresher) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.spec, func() { r.Refresh(ctx) }); err != nil {
		return fmt.Errorf("refresher: cron spec %q: %w", r.spec, err)
	}
	r.cron.Start()
	slog.Info("refresher: started", slog.String("spec", r.spec))
	go r.Refresh(ctx)
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	slog.Info("refresher: stopped")
}

// Refresh reloads the collection once. Failures are logged and leave the
// previous cache entry in place.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	start := time.Now()
	jobs, err := r.cached.Warm(ctx, r.filters)
	if err != nil {
		engine.IncrBackendErrors()
		slog.Warn("refresher: refresh failed", slog.Any("error", err))
		return 0, err
	}
	engine.IncrCollectionRefreshes()
	slog.Info("refresher: collection refreshed", slog.Int("jobs", len(jobs)), slog.Duration("took", time.Since(start)))
	return len(jobs), nil
}
