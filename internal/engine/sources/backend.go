package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

const maxBackendBody = 8 << 20

// Backend is the REST job board API.
//
//	GET /api/jobs?search=&location=&type=&category=&isRemote=&limit=  → {"jobs": [...]}
//	GET /api/jobs/autocomplete?q=                                    → {"jobs","companies","locations","skills"}
//	GET /api/locations/autocomplete?q=                               → ["..."]
type Backend struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
	retry   engine.RetryConfig
}

// NewBackend builds a client from the engine configuration.
func NewBackend(cfg engine.Config) *Backend {
	b := &Backend{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		token:   cfg.BackendToken,
		client:  cfg.HTTPClient,
		limiter: rate.NewLimiter(rate.Inf, 1),
		retry:   engine.DefaultRetryConfig,
	}
	if b.client == nil {
		b.client = http.DefaultClient
	}
	if cfg.BackendRPS > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.BackendRPS), 1)
	}
	return b
}

type jobsResponse struct {
	Jobs []engine.JobRecord `json:"jobs"`
}

// FetchJobs implements JobSource.
func (b *Backend) FetchJobs(ctx context.Context, f engine.ServerFilters) ([]engine.JobRecord, error) {
	engine.IncrBackendFetches()

	q := url.Values{}
	setIf(q, "search", f.Search)
	setIf(q, "location", f.Location)
	setIf(q, "type", f.Type)
	setIf(q, "category", f.Category)
	if f.IsRemote {
		q.Set("isRemote", "true")
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var resp jobsResponse
	if err := b.getJSON(ctx, "/api/jobs", q, &resp); err != nil {
		return nil, fmt.Errorf("backend: fetch jobs: %w", err)
	}
	return Normalize(resp.Jobs), nil
}

// Autocomplete implements Suggester.
func (b *Backend) Autocomplete(ctx context.Context, query string) (engine.Suggestions, error) {
	var s engine.Suggestions
	if err := b.getJSON(ctx, "/api/jobs/autocomplete", url.Values{"q": {query}}, &s); err != nil {
		return engine.Suggestions{}, fmt.Errorf("backend: autocomplete: %w", err)
	}
	return s, nil
}

// AutocompleteLocations implements Suggester.
func (b *Backend) AutocompleteLocations(ctx context.Context, query string) ([]string, error) {
	var locs []string
	if err := b.getJSON(ctx, "/api/locations/autocomplete", url.Values{"q": {query}}, &locs); err != nil {
		return nil, fmt.Errorf("backend: autocomplete locations: %w", err)
	}
	return locs, nil
}

func setIf(q url.Values, k, v string) {
	if v != "" {
		q.Set(k, v)
	}
}

func (b *Backend) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if b.baseURL == "" {
		return errors.New("backend url not configured")
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	u := b.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := engine.RetryHTTP(ctx, b.retry, func() (*http.Response, error) {
		return b.client.Do(req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return &engine.HTTPStatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBackendBody))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
