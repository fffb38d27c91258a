package jobs

import (
	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// Session is one search view: a fetched collection, the active criteria, a sort key
// and a page. Filtered results are recomputed lazily after any change.
// A Session is not safe for concurrent use.
type Session struct {
	jobs     []engine.JobRecord
	criteria Criteria
	sort     SortKey
	page     int
	pageSize int
	opts     Options

	filtered []engine.JobRecord
	dirty    bool
}

// NewSession returns an empty session on page 1. pageSize <= 0 uses the configured default.
func NewSession(pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = engine.Cfg.PageSize
	}
	return &Session{sort: SortNewest, page: 1, pageSize: pageSize, dirty: true}
}

// SetJobs replaces the collection. serverApplied names criteria the source already
// applied while fetching it. The current page is kept.
func (s *Session) SetJobs(jobs []engine.JobRecord, serverApplied ...Criterion) {
	s.jobs = jobs
	s.opts = Options{ServerApplied: serverApplied}
	s.dirty = true
}

// SetCriteria replaces the criteria and resets to page 1 if they changed.
func (s *Session) SetCriteria(c Criteria) {
	if s.criteria.Equal(c) {
		return
	}
	s.criteria = c
	s.page = 1
	s.dirty = true
}

// SetSort changes the sort key and resets to page 1 if it changed.
func (s *Session) SetSort(k SortKey) {
	if s.sort == k {
		return
	}
	s.sort = k
	s.page = 1
	s.dirty = true
}

// SetPage moves to page p without touching the filtered set.
func (s *Session) SetPage(p int) { s.page = p }

func (s *Session) Criteria() Criteria { return s.criteria }
func (s *Session) Sort() SortKey      { return s.sort }
func (s *Session) CurrentPage() int   { return s.page }

// Filtered returns the full filtered, annotated and sorted set.
func (s *Session) Filtered() []engine.JobRecord {
	if s.dirty {
		matched := ApplyWith(s.jobs, s.criteria, s.opts)
		s.filtered = SortJobs(Annotate(matched, s.criteria), s.sort)
		s.dirty = false
	}
	return s.filtered
}

// Results returns the current page of the filtered set.
func (s *Session) Results() Page {
	return Paginate(s.Filtered(), s.page, s.pageSize)
}
