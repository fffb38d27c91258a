package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	BackendURL           string
	BackendToken         string
	BackendRPS           float64 // 0 = unlimited
	DatabaseURL          string
	FetchLimit           int
	FetchTimeout         time.Duration
	PageSize             int
	DebounceInterval     time.Duration
	MinQueryChars        int
	SavedSearchCap       int
	HistoryCap           int
	StorePath            string // sqlite file for saved searches; "" = ~/.go_jobboard/searches.db
	RefreshSpec          string // cron spec for collection warm-up; "" = disabled
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
}

// Defaults mirror the job board frontend.
const (
	DefaultFetchLimit     = 500
	DefaultPageSize       = 12
	DefaultDebounce       = 300 * time.Millisecond
	DefaultMinQueryChars  = 2
	DefaultSavedSearchCap = 10
	DefaultHistoryCap     = 5
)

var cfg = Config{
	FetchLimit:       DefaultFetchLimit,
	FetchTimeout:     10 * time.Second,
	PageSize:         DefaultPageSize,
	DebounceInterval: DefaultDebounce,
	MinQueryChars:    DefaultMinQueryChars,
	SavedSearchCap:   DefaultSavedSearchCap,
	HistoryCap:       DefaultHistoryCap,
	HTTPClient:       http.DefaultClient,
}

// Cfg exposes the engine configuration for sub-packages (jobs, sources, suggest).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero values fall back to the defaults above.
func Init(c Config) {
	if c.FetchLimit <= 0 {
		c.FetchLimit = DefaultFetchLimit
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.DebounceInterval <= 0 {
		c.DebounceInterval = DefaultDebounce
	}
	if c.MinQueryChars <= 0 {
		c.MinQueryChars = DefaultMinQueryChars
	}
	if c.SavedSearchCap <= 0 {
		c.SavedSearchCap = DefaultSavedSearchCap
	}
	if c.HistoryCap <= 0 {
		c.HistoryCap = DefaultHistoryCap
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	cfg = c
	Cfg = &cfg
}
