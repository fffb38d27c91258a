// Package sources adapts job collections and autocomplete feeds from upstream
// backends into engine types.
package sources

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// ErrUnauthorized is returned when the backend rejects the credentials (HTTP 401).
var ErrUnauthorized = errors.New("sources: unauthorized")

// JobSource fetches a job collection with the server-side subset of filters applied.
type JobSource interface {
	FetchJobs(ctx context.Context, f engine.ServerFilters) ([]engine.JobRecord, error)
}

// Suggester serves autocomplete.
type Suggester interface {
	Autocomplete(ctx context.Context, query string) (engine.Suggestions, error)
	AutocompleteLocations(ctx context.Context, query string) ([]string, error)
}

// Source is a backend that does both.
type Source interface {
	JobSource
	Suggester
}

// FetchOrEmpty fetches jobs and degrades any failure, including ErrUnauthorized,
// to an empty collection. The error is logged, never surfaced.
func FetchOrEmpty(ctx context.Context, src JobSource, f engine.ServerFilters) []engine.JobRecord {
	jobs, err := src.FetchJobs(ctx, f)
	if err != nil {
		engine.IncrBackendErrors()
		attrs := []any{slog.String("search", f.Search), slog.Any("error", err)}
		if errors.Is(err, ErrUnauthorized) {
			slog.Warn("search: backend rejected credentials", attrs...)
		} else {
			slog.Warn("search: fetch failed", attrs...)
		}
		return []engine.JobRecord{}
	}
	return jobs
}

// LocationFetcher adapts a Suggester's location feed to the shape of Autocomplete,
// so the location input can share the merge logic.
func LocationFetcher(s Suggester) func(ctx context.Context, query string) (engine.Suggestions, error) {
	return func(ctx context.Context, query string) (engine.Suggestions, error) {
		locs, err := s.AutocompleteLocations(ctx, query)
		if err != nil {
			return engine.Suggestions{}, err
		}
		return engine.Suggestions{Locations: locs}, nil
	}
}

// Normalize drops records without an id, keeps the first record per id and
// converts HTML descriptions to markdown text.
func Normalize(jobs []engine.JobRecord) []engine.JobRecord {
	out := make([]engine.JobRecord, 0, len(jobs))
	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		j.ID = strings.TrimSpace(j.ID)
		if j.ID == "" || seen[j.ID] {
			continue
		}
		seen[j.ID] = true
		j.Description = descriptionText(j.Description)
		out = append(out, j)
	}
	return out
}

func descriptionText(s string) string {
	if !engine.LooksLikeHTML(s) {
		return strings.TrimSpace(s)
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return engine.CleanHTML(s)
	}
	return strings.TrimSpace(md)
}
