package jobserver

import (
	"context"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobboard/internal/engine/sources"
	"github.com/anatolykoptev/go_jobboard/internal/engine/suggest"
)

// Deps are the collaborators shared by all tools.
type Deps struct {
	Source   sources.Source
	Searches *jobs.SearchStore
	// Now defaults to time.Now.
	Now func() time.Time
	// AfterFunc overrides the autocomplete debounce clock (tests only).
	AfterFunc suggest.AfterFunc
}

// toolset holds per-server state: the two navbar autocomplete fields and the
// last search path each of them navigated to.
type toolset struct {
	src      sources.Source
	searches *jobs.SearchStore
	now      func() time.Time

	fields map[suggest.Kind]*suggest.Field

	mu    sync.Mutex
	paths map[suggest.Kind]string
}

func newToolset(d Deps) *toolset {
	t := &toolset{
		src:      d.Source,
		searches: d.Searches,
		now:      d.Now,
		paths:    make(map[suggest.Kind]string),
	}
	if t.now == nil {
		t.now = time.Now
	}
	t.fields = map[suggest.Kind]*suggest.Field{
		suggest.KindKeyword:  t.newField(suggest.KindKeyword, suggest.KindLocation, d.Source.Autocomplete, d.AfterFunc),
		suggest.KindLocation: t.newField(suggest.KindLocation, suggest.KindKeyword, sources.LocationFetcher(d.Source), d.AfterFunc),
	}
	return t
}

func (t *toolset) newField(kind, peer suggest.Kind, fetch suggest.FetchFunc, after suggest.AfterFunc) *suggest.Field {
	return suggest.NewField(suggest.Options{
		Kind:      kind,
		Mode:      suggest.ModeNavbar,
		Fetch:     fetch,
		AfterFunc: after,
		Navigate: func(path string) {
			t.mu.Lock()
			t.paths[kind] = path
			t.mu.Unlock()
		},
		Peer: func() string { return t.fields[peer].Value() },
	})
}

// takePath returns and forgets the path the field last navigated to.
func (t *toolset) takePath(kind suggest.Kind) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.paths[kind]
	delete(t.paths, kind)
	return p
}

// collection fetches the jobs the client-side pipeline runs over.
func (t *toolset) collection(ctx context.Context, c jobs.Criteria) []engine.JobRecord {
	f, _ := jobs.ServerFiltersFor(c, engine.Cfg.FetchLimit)
	var out []engine.JobRecord
	_ = engine.TrackOperation(ctx, "fetch_jobs", func(ctx context.Context) error {
		out = sources.FetchOrEmpty(ctx, t.src, f)
		return nil
	})
	return out
}

// RegisterTools registers the job board tools on the given MCP server:
// job_search, job_lookup, job_autocomplete, job_slug and the saved search tools.
func RegisterTools(server *mcp.Server, d Deps) {
	t := newToolset(d)
	registerJobSearch(server, t)
	registerJobLookup(server, t)
	registerAutocomplete(server, t)
	registerSlug(server)
	registerSavedSearches(server, t)
}
