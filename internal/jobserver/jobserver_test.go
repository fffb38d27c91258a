package jobserver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobboard/internal/engine/kv"
	"github.com/anatolykoptev/go_jobboard/internal/engine/suggest"
)

const (
	idBackend = "3f2a9c1e-1b7d-4e8a-9c3f-0a1b2c3d4e5f"
	idIntern  = "7c1d2e3f-4a5b-4c6d-8e9f-a0b1c2d3e4f5"
	idClerk   = "b9e8d7c6-5b4a-4392-8170-6f5e4d3c2b1a"
)

var testNow = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func fixtureJobs() []engine.JobRecord {
	return []engine.JobRecord{
		{
			ID: idBackend, Title: "Backend Engineer", Company: "Acme", Location: "Berlin",
			Type: "Full-time", Category: "IT", Skills: []string{"Go", "PostgreSQL"},
			Experience: &engine.Experience{Min: engine.Float(2), Max: engine.Float(4)},
			Salary:     &engine.Salary{Min: 50000, Max: 70000, Currency: "USD"},
			PostedDate: "2026-10-10",
		},
		{
			ID: idIntern, Title: "Frontend Intern", Company: "Globex", Location: "Remote",
			IsRemote: true, Type: "Internship", ExperienceLevel: "Fresher",
			PostedDate: "2026-10-12",
		},
		{
			ID: idClerk, Title: "Clerk", Company: "State Bank", Location: "Mumbai",
			Category: "banking", Salary: &engine.Salary{Text: "As per norms"},
			PostedDate: "2026-09-01",
		},
	}
}

// fakeSource serves fixture data and records what it was asked for.
type fakeSource struct {
	jobs        []engine.JobRecord
	suggestions engine.Suggestions
	locations   []string
	err         error

	mu      sync.Mutex
	filters []engine.ServerFilters
	fetches atomic.Int32
}

func (f *fakeSource) FetchJobs(_ context.Context, sf engine.ServerFilters) ([]engine.JobRecord, error) {
	f.mu.Lock()
	f.filters = append(f.filters, sf)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

func (f *fakeSource) Autocomplete(_ context.Context, _ string) (engine.Suggestions, error) {
	f.fetches.Add(1)
	return f.suggestions, f.err
}

func (f *fakeSource) AutocompleteLocations(_ context.Context, _ string) ([]string, error) {
	f.fetches.Add(1)
	return f.locations, f.err
}

func (f *fakeSource) lastFilters() engine.ServerFilters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters[len(f.filters)-1]
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }

// immediate fires debounced callbacks right away on their own goroutine.
func immediate(_ time.Duration, fn func()) suggest.Timer {
	go fn()
	return noopTimer{}
}

func newTestToolset(t *testing.T, src *fakeSource) (*toolset, *jobs.SearchStore) {
	t.Helper()
	searches := jobs.NewSearchStore(kv.NewMemory())
	ts := newToolset(Deps{
		Source:    src,
		Searches:  searches,
		Now:       func() time.Time { return testNow },
		AfterFunc: immediate,
	})
	return ts, searches
}

func TestSearchFiltersAndDecorates(t *testing.T) {
	src := &fakeSource{jobs: fixtureJobs()}
	ts, _ := newTestToolset(t, src)

	out, err := ts.search(context.Background(), JobSearchInput{Keyword: "engineer"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	require.Len(t, out.Jobs, 1)

	job := fixtureJobs()[0]
	v := out.Jobs[0]
	assert.Equal(t, idBackend, v.ID)
	assert.Equal(t, jobs.SlugFor(job), v.Slug)
	assert.Equal(t, "/jobs/"+v.Slug, v.URL)
	assert.Equal(t, jobs.FormatSalary(job.Salary), v.SalaryText)
	assert.Equal(t, jobs.ClassifyExperience(job), v.Bucket)
	assert.False(t, v.IsGovernment)
	assert.False(t, v.Remote)
	assert.Equal(t, 6, v.AgeDays)
	assert.Greater(t, v.MatchPercentage, 0.0)
	assert.NotZero(t, v.Priority)

	assert.Equal(t, "/search?q=engineer", out.SearchPath)
	assert.Equal(t, jobs.SortNewest, out.Sort)
	assert.Equal(t, 1, out.Page)

	sf := src.lastFilters()
	assert.Equal(t, "engineer", sf.Search)
	assert.Equal(t, engine.Cfg.FetchLimit, sf.Limit)
}

func TestSearchQueryStringWithOverrides(t *testing.T) {
	src := &fakeSource{jobs: fixtureJobs()}
	ts, _ := newTestToolset(t, src)

	out, err := ts.search(context.Background(), JobSearchInput{
		Query:    "/search?q=intern&location=Berlin",
		Location: "remote",
	})
	require.NoError(t, err)
	assert.Equal(t, "intern", out.Criteria.Keyword)
	assert.Equal(t, "remote", out.Criteria.Location)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, idIntern, out.Jobs[0].ID)
	assert.True(t, out.Jobs[0].Remote)

	// The remote heuristic is applied locally, not sent to the source.
	assert.Empty(t, src.lastFilters().Location)
}

func TestSearchGovernmentCategory(t *testing.T) {
	ts, _ := newTestToolset(t, &fakeSource{jobs: fixtureJobs()})

	out, err := ts.search(context.Background(), JobSearchInput{Category: "government"})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, idClerk, out.Jobs[0].ID)
	assert.True(t, out.Jobs[0].IsGovernment)
	assert.Equal(t, "As per norms", out.Jobs[0].SalaryText)
}

func TestSearchSortAndPaging(t *testing.T) {
	ts, _ := newTestToolset(t, &fakeSource{jobs: fixtureJobs()})
	ctx := context.Background()

	out, err := ts.search(ctx, JobSearchInput{Sort: "oldest", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.TotalPages)
	require.Len(t, out.Jobs, 2)
	assert.Equal(t, idClerk, out.Jobs[0].ID)
	assert.Equal(t, idBackend, out.Jobs[1].ID)

	out, err = ts.search(ctx, JobSearchInput{Sort: "oldest", PageSize: 2, Page: 2})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, idIntern, out.Jobs[0].ID)

	out, err = ts.search(ctx, JobSearchInput{PageSize: 2, Page: 3})
	require.NoError(t, err)
	assert.Empty(t, out.Jobs)
	assert.NotNil(t, out.Jobs)
	assert.Contains(t, out.Summary, "past the last page")
}

func TestSearchValidation(t *testing.T) {
	ts, _ := newTestToolset(t, &fakeSource{jobs: fixtureJobs()})
	ctx := context.Background()

	tests := []struct {
		name string
		in   JobSearchInput
	}{
		{"negative page", JobSearchInput{Page: -1}},
		{"page size too large", JobSearchInput{PageSize: maxPageSize + 1}},
		{"negative salary", JobSearchInput{SalaryMin: engine.Float(-5)}},
		{"bad query string", JobSearchInput{Query: "q=%zz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.search(ctx, tt.in)
			assert.Error(t, err)
		})
	}
}

func TestSearchRecordsHistory(t *testing.T) {
	ts, searches := newTestToolset(t, &fakeSource{jobs: fixtureJobs()})
	ctx := context.Background()

	_, err := ts.search(ctx, JobSearchInput{Sort: "company-az"})
	require.NoError(t, err)
	hist, err := searches.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, hist, "searches without keyword or location are not recorded")

	_, err = ts.search(ctx, JobSearchInput{Keyword: "engineer", Location: "Berlin"})
	require.NoError(t, err)
	hist, err = searches.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "engineer", hist[0].Keyword)
	assert.Equal(t, "Berlin", hist[0].Location)
}

func TestSearchSourceFailureIsEmpty(t *testing.T) {
	ts, _ := newTestToolset(t, &fakeSource{err: errors.New("backend down")})

	out, err := ts.search(context.Background(), JobSearchInput{Keyword: "go"})
	require.NoError(t, err)
	assert.Zero(t, out.Total)
	assert.Empty(t, out.Jobs)
	assert.Equal(t, "No jobs match the current filters.", out.Summary)
}

func TestLookup(t *testing.T) {
	ts, _ := newTestToolset(t, &fakeSource{jobs: fixtureJobs()})
	ctx := context.Background()
	slug := jobs.SlugFor(fixtureJobs()[0])

	for _, in := range []string{slug, "/jobs/" + slug, idBackend} {
		out, err := ts.lookup(ctx, JobLookupInput{Slug: in})
		require.NoError(t, err, in)
		assert.True(t, out.Found, in)
		require.NotNil(t, out.Job, in)
		assert.Equal(t, "Backend Engineer", out.Job.Title)
	}

	out, err := ts.lookup(ctx, JobLookupInput{Slug: "missing-job-00000000-0000-4000-8000-000000000000"})
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, "00000000-0000-4000-8000-000000000000", out.ID)

	_, err = ts.lookup(ctx, JobLookupInput{Slug: "  "})
	assert.Error(t, err)
}

func TestSlugTool(t *testing.T) {
	enc, err := slugOf(SlugInput{Title: "Backend Engineer", Company: "Acme", Location: "Berlin", ID: idBackend})
	require.NoError(t, err)
	assert.Equal(t, jobs.EncodeSlug("Backend Engineer", "Acme", "Berlin", idBackend), enc.Slug)
	assert.Equal(t, "/jobs/"+enc.Slug, enc.Path)

	dec, err := slugOf(SlugInput{Slug: enc.Path})
	require.NoError(t, err)
	assert.Equal(t, idBackend, dec.ID)
	assert.Equal(t, enc.Slug, dec.Slug)

	_, err = slugOf(SlugInput{Title: "No id"})
	assert.Error(t, err)
}

func TestAutocompleteQueryAndSelect(t *testing.T) {
	src := &fakeSource{
		suggestions: engine.Suggestions{Jobs: []string{"Go Developer"}, Companies: []string{"Google"}},
		locations:   []string{"Berlin"},
	}
	ts, _ := newTestToolset(t, src)
	ctx := context.Background()

	loc, err := ts.autocomplete(ctx, AutocompleteInput{Field: "location", Query: "ber"})
	require.NoError(t, err)
	assert.Equal(t, suggest.KindLocation, loc.Field)
	require.Len(t, loc.Items, 1)
	assert.Equal(t, suggest.GroupLocation, loc.Items[0].Group)

	out, err := ts.autocomplete(ctx, AutocompleteInput{Query: "go"})
	require.NoError(t, err)
	assert.Equal(t, suggest.StateDisplaying, out.State)
	require.Len(t, out.Items, 2)
	assert.Equal(t, -1, out.Index)

	out, err = ts.autocomplete(ctx, AutocompleteInput{Key: "arrowdown"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Index)
	assert.Nil(t, out.Selection)

	out, err = ts.autocomplete(ctx, AutocompleteInput{Key: "Enter"})
	require.NoError(t, err)
	require.NotNil(t, out.Selection)
	assert.Equal(t, "Go Developer", out.Selection.Value)
	assert.Equal(t, suggest.GroupJob, out.Selection.Group)
	assert.Equal(t, "/search?q=Go+Developer&location=ber", out.Path)
	assert.Equal(t, suggest.StateIdle, out.State)
	assert.Equal(t, "Go Developer", out.Query)
}

func TestAutocompleteShortQuery(t *testing.T) {
	src := &fakeSource{suggestions: engine.Suggestions{Jobs: []string{"Go"}}}
	ts, _ := newTestToolset(t, src)

	out, err := ts.autocomplete(context.Background(), AutocompleteInput{Query: "g"})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, suggest.StateIdle, out.State)
	assert.Zero(t, src.fetches.Load())
}

func TestAutocompleteBadInput(t *testing.T) {
	ts, _ := newTestToolset(t, &fakeSource{})
	ctx := context.Background()

	_, err := ts.autocomplete(ctx, AutocompleteInput{Field: "salary", Query: "go"})
	assert.Error(t, err)
	_, err = ts.autocomplete(ctx, AutocompleteInput{Key: "Tab"})
	assert.Error(t, err)

	// Enter with nothing highlighted selects nothing.
	out, err := ts.autocomplete(ctx, AutocompleteInput{Key: "Enter"})
	require.NoError(t, err)
	assert.Nil(t, out.Selection)
	assert.Empty(t, out.Path)
}

func TestSavedSearchTools(t *testing.T) {
	ts, _ := newTestToolset(t, &fakeSource{})
	ctx := context.Background()

	_, err := ts.saveSearch(ctx, SavedSearchAddInput{JobType: "Contract"})
	assert.ErrorIs(t, err, jobs.ErrEmptySearch)

	added, err := ts.saveSearch(ctx, SavedSearchAddInput{Keyword: "Go Developer", Location: "Berlin"})
	require.NoError(t, err)
	require.NotNil(t, added.Search)
	assert.Equal(t, "/search?q=Go+Developer&location=Berlin", added.Search.Path)

	_, err = ts.saveSearch(ctx, SavedSearchAddInput{Keyword: "Rust"})
	require.NoError(t, err)

	list, err := ts.listSaved(ctx)
	require.NoError(t, err)
	require.Len(t, list.Searches, 2)
	assert.Equal(t, "Rust", list.Searches[0].Keyword)

	res, err := ts.removeSaved(ctx, SavedSearchRemoveInput{ID: added.Search.ID})
	require.NoError(t, err)
	assert.True(t, res.Removed)

	res, err = ts.removeSaved(ctx, SavedSearchRemoveInput{ID: added.Search.ID})
	require.NoError(t, err)
	assert.False(t, res.Removed)

	_, err = ts.removeSaved(ctx, SavedSearchRemoveInput{})
	assert.Error(t, err)

	list, err = ts.listSaved(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Searches, 1)
}

func TestSearchHistoryClear(t *testing.T) {
	ts, _ := newTestToolset(t, &fakeSource{jobs: fixtureJobs()})
	ctx := context.Background()

	_, err := ts.search(ctx, JobSearchInput{Keyword: "clerk"})
	require.NoError(t, err)

	hist, err := ts.listHistory(ctx, SearchHistoryListInput{Clear: true})
	require.NoError(t, err)
	assert.Len(t, hist.Searches, 1)

	hist, err = ts.listHistory(ctx, SearchHistoryListInput{})
	require.NoError(t, err)
	assert.Empty(t, hist.Searches)
}

func TestSavedSearchesNotConfigured(t *testing.T) {
	ts := newToolset(Deps{Source: &fakeSource{}})
	ctx := context.Background()

	_, err := ts.saveSearch(ctx, SavedSearchAddInput{Keyword: "go"})
	assert.ErrorIs(t, err, errNoStore)
	_, err = ts.listSaved(ctx)
	assert.ErrorIs(t, err, errNoStore)

	// Searching still works without history.
	_, err = ts.search(ctx, JobSearchInput{Keyword: "go"})
	assert.NoError(t, err)
}
