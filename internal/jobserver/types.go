package jobserver

import (
	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobboard/internal/engine/suggest"
)

// --- job_search ---

type JobSearchInput struct {
	Query      string   `json:"query,omitempty" jsonschema:"Search URL query string, e.g. q=golang&location=Berlin. Explicit fields below override it"`
	Keyword    string   `json:"keyword,omitempty" jsonschema:"Keyword matched against title, company, description and skills"`
	Location   string   `json:"location,omitempty" jsonschema:"Location substring. 'remote' matches remote jobs"`
	JobType    string   `json:"job_type,omitempty" jsonschema:"Employment type, e.g. Full-time, Contract, Internship"`
	Experience string   `json:"experience,omitempty" jsonschema:"Experience bucket: fresher, 1-3 yrs, 3-5 yrs, 5+ yrs"`
	Category   string   `json:"category,omitempty" jsonschema:"Job category. 'government' matches public sector jobs"`
	Company    string   `json:"company,omitempty" jsonschema:"Company name substring"`
	SalaryMin  *float64 `json:"salary_min,omitempty" jsonschema:"Minimum salary. Jobs without a salary count as 0"`
	SalaryMax  *float64 `json:"salary_max,omitempty" jsonschema:"Maximum salary"`
	Remote     bool     `json:"remote,omitempty" jsonschema:"Only remote jobs"`
	Sort       string   `json:"sort,omitempty" jsonschema:"Sort order: newest (default), oldest, salary-high, salary-low, company-az"`
	Page       int      `json:"page,omitempty" jsonschema:"1-based page number (default: 1)"`
	PageSize   int      `json:"page_size,omitempty" jsonschema:"Results per page (default: 12)"`
}

// JobView is a job record decorated for display. Salary and experience are
// rendered as text because sources disagree on their shape.
type JobView struct {
	ID                  string      `json:"id"`
	Slug                string      `json:"slug"`
	URL                 string      `json:"url"`
	Title               string      `json:"title,omitempty"`
	Company             string      `json:"company,omitempty"`
	Location            string      `json:"location,omitempty"`
	Description         string      `json:"description,omitempty"`
	Skills              []string    `json:"skills,omitempty"`
	Category            string      `json:"category,omitempty"`
	Type                string      `json:"type,omitempty"`
	ExperienceLevel     string      `json:"experienceLevel,omitempty"`
	Bucket              jobs.Bucket `json:"experienceBucket"`
	SalaryText          string      `json:"salary"`
	IsGovernment        bool        `json:"isGovernment"`
	Remote              bool        `json:"remote"`
	PostedDate          string      `json:"postedDate,omitempty"`
	AgeDays             int         `json:"ageDays,omitempty"`
	ApplicationDeadline string      `json:"applicationDeadline,omitempty"`
	MatchPercentage     float64     `json:"matchPercentage,omitempty"`
	Priority            int         `json:"priority,omitempty"`
}

type JobSearchOutput struct {
	Criteria   jobs.Criteria `json:"criteria"`
	Sort       jobs.SortKey  `json:"sort"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	Total      int           `json:"total"`
	Jobs       []JobView     `json:"jobs"`
	SearchPath string        `json:"searchPath"`
	Summary    string        `json:"summary"`
}

// --- job_lookup ---

type JobLookupInput struct {
	Slug string `json:"slug" jsonschema:"Job slug from /jobs/<slug>, or a bare job id"`
}

type JobLookupOutput struct {
	ID    string   `json:"id"`
	Found bool     `json:"found"`
	Job   *JobView `json:"job,omitempty"`
}

// --- job_autocomplete ---

type AutocompleteInput struct {
	Field string `json:"field,omitempty" jsonschema:"Search input: keyword (default) or location"`
	Query string `json:"query,omitempty" jsonschema:"Current input text. Fewer than 2 characters clears the list"`
	Key   string `json:"key,omitempty" jsonschema:"Navigation key instead of text: ArrowDown, ArrowUp, Enter, Escape"`
}

type AutocompleteOutput struct {
	Field      suggest.Kind       `json:"field"`
	Query      string             `json:"query"`
	State      suggest.State      `json:"state"`
	Items      []suggest.Item     `json:"items"`
	Index      int                `json:"index"`
	Superseded bool               `json:"superseded,omitempty"`
	Selection  *suggest.Selection `json:"selection,omitempty"`
	Path       string             `json:"path,omitempty"`
}

// --- job_slug ---

type SlugInput struct {
	Title    string `json:"title,omitempty" jsonschema:"Job title (encode)"`
	Company  string `json:"company,omitempty" jsonschema:"Company name (encode)"`
	Location string `json:"location,omitempty" jsonschema:"Job location (encode)"`
	ID       string `json:"id,omitempty" jsonschema:"Job id (encode)"`
	Slug     string `json:"slug,omitempty" jsonschema:"Slug to decode. When set, the other fields are ignored"`
}

type SlugOutput struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	Path string `json:"path"`
}

// --- saved searches ---

type SavedSearchAddInput struct {
	Keyword  string `json:"keyword,omitempty" jsonschema:"Search keyword"`
	Location string `json:"location,omitempty" jsonschema:"Search location"`
	JobType  string `json:"job_type,omitempty" jsonschema:"Employment type"`
}

type SavedSearchRemoveInput struct {
	ID string `json:"id" jsonschema:"Saved search id from saved_search_list"`
}

type SavedSearchListInput struct{}

type SearchHistoryListInput struct {
	Clear bool `json:"clear,omitempty" jsonschema:"Clear the history after listing it"`
}

// SavedSearchView is a stored search with its results path.
type SavedSearchView struct {
	ID        string `json:"id"`
	Keyword   string `json:"keyword"`
	Location  string `json:"location"`
	JobType   string `json:"jobType,omitempty"`
	CreatedAt string `json:"createdAt"`
	Path      string `json:"path"`
}

type SavedSearchListOutput struct {
	Searches []SavedSearchView `json:"searches"`
}

type SavedSearchResult struct {
	Search  *SavedSearchView `json:"search,omitempty"`
	Removed bool             `json:"removed,omitempty"`
}
