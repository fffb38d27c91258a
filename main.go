// go_jobboard is a job board search MCP server.
//
// It serves filtering, sorting, pagination, slug routing, search-box autocomplete
// and saved searches over a job collection fetched from the REST backend or a
// PostgreSQL database. Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobboard/internal/engine/kv"
	"github.com/anatolykoptev/go_jobboard/internal/engine/sources"
	"github.com/anatolykoptev/go_jobboard/internal/jobserver"
)

var version = "dev"

func main() {
	// .env is optional; only a malformed file is worth reporting.
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			slog.Warn("config: .env not loaded", slog.Any("error", err))
		}
	}

	mcpPort := env.Str("MCP_PORT", "8892")
	initEngine()

	ctx := context.Background()

	store, closeStore := openStore(ctx)
	defer closeStore()

	src, closeSrc := openSource(ctx)
	defer closeSrc()
	cached := sources.NewCached(src)

	if spec := engine.Cfg.RefreshSpec; spec != "" {
		r := sources.NewRefresher(cached, spec)
		if err := r.Start(ctx); err != nil {
			slog.Error("refresher disabled", slog.Any("error", err))
		} else {
			defer r.Stop()
		}
	}

	slog.Info("starting go_jobboard", slog.String("port", mcpPort))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_jobboard",
		Version: version,
	}, nil)

	jobserver.RegisterTools(server, jobserver.Deps{
		Source:   cached,
		Searches: jobs.NewSearchStore(store),
	})
	slog.Info("tools registered", slog.Int("count", 8))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_jobboard",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 60 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	engine.Init(engine.Config{
		BackendURL:           env.Str("BACKEND_URL", ""),
		BackendToken:         env.Str("BACKEND_TOKEN", ""),
		BackendRPS:           env.Float("BACKEND_RPS", 0),
		DatabaseURL:          env.Str("DATABASE_URL", ""),
		FetchLimit:           env.Int("FETCH_LIMIT", engine.DefaultFetchLimit),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 10*time.Second),
		PageSize:             env.Int("PAGE_SIZE", engine.DefaultPageSize),
		DebounceInterval:     env.Duration("AUTOCOMPLETE_DEBOUNCE", engine.DefaultDebounce),
		MinQueryChars:        env.Int("AUTOCOMPLETE_MIN_CHARS", engine.DefaultMinQueryChars),
		SavedSearchCap:       env.Int("SAVED_SEARCH_CAP", engine.DefaultSavedSearchCap),
		HistoryCap:           env.Int("SEARCH_HISTORY_CAP", engine.DefaultHistoryCap),
		StorePath:            env.Str("STORE_PATH", ""),
		RefreshSpec:          env.Str("REFRESH_SPEC", ""),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	})

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, engine.Cfg.CacheMaxEntries, engine.Cfg.CacheCleanupInterval)
}

// openStore picks the saved-search store: Redis when REDIS_URL is reachable,
// otherwise the local SQLite file, otherwise memory.
func openStore(ctx context.Context) (kv.Store, func()) {
	if url := env.Str("REDIS_URL", ""); url != "" {
		s, err := kv.OpenRedis(ctx, url, "jb:kv:")
		if err == nil {
			slog.Info("kv: using redis")
			return s, closer(s)
		}
		slog.Warn("kv: redis unavailable, falling back to sqlite", slog.Any("error", err))
	}
	s, err := kv.OpenSQLite(engine.Cfg.StorePath)
	if err != nil {
		slog.Warn("kv: sqlite unavailable, saved searches will not persist", slog.Any("error", err))
		return kv.NewMemory(), func() {}
	}
	slog.Info("kv: using sqlite")
	return s, closer(s)
}

// openSource picks the job source: PostgreSQL when DATABASE_URL is set and
// reachable, otherwise the REST backend.
func openSource(ctx context.Context) (sources.Source, func()) {
	if dsn := engine.Cfg.DatabaseURL; dsn != "" {
		pg, err := sources.ConnectPostgres(ctx, dsn)
		if err == nil {
			return pg, pg.Close
		}
		slog.Warn("postgres source unavailable, using backend", slog.Any("error", err))
	}
	if engine.Cfg.BackendURL == "" {
		slog.Warn("BACKEND_URL is not set, searches will return no jobs")
	}
	return sources.NewBackend(*engine.Cfg), func() {}
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			slog.Warn("close failed", slog.Any("error", err))
		}
	}
}
