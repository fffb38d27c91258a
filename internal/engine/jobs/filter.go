package jobs

import (
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// Criterion names one predicate of the filter pipeline.
type Criterion string

const (
	CriterionKeyword    Criterion = "keyword"
	CriterionRemote     Criterion = "isRemote"
	CriterionLocation   Criterion = "location"
	CriterionExperience Criterion = "experience"
	CriterionCategory   Criterion = "category"
	CriterionSalary     Criterion = "salary"
	CriterionJobType    Criterion = "jobType"
	CriterionCompany    Criterion = "company"
)

// predicate is one conjunctive filter. active reports whether the criterion is set;
// an inactive predicate never excludes a record.
type predicate struct {
	criterion Criterion
	active    func(Criteria) bool
	match     func(engine.JobRecord, Criteria) bool
}

func isSet(s string) bool { return strings.TrimSpace(s) != "" }

var pipeline = []predicate{
	{
		criterion: CriterionKeyword,
		active:    func(c Criteria) bool { return isSet(c.Keyword) },
		match:     func(j engine.JobRecord, c Criteria) bool { return keywordMatch(j, c.Keyword) },
	},
	{
		criterion: CriterionRemote,
		active:    func(c Criteria) bool { return c.IsRemote },
		match:     func(j engine.JobRecord, _ Criteria) bool { return IsRemote(j) },
	},
	{
		criterion: CriterionLocation,
		active:    func(c Criteria) bool { return isSet(c.Location) },
		match: func(j engine.JobRecord, c Criteria) bool {
			if engine.Lower(c.Location) == "remote" {
				return IsRemote(j)
			}
			return engine.ContainsFold(j.Location, c.Location)
		},
	},
	{
		criterion: CriterionExperience,
		active:    func(c Criteria) bool { return isSet(c.Experience) },
		match:     func(j engine.JobRecord, c Criteria) bool { return MatchesBucket(j, ParseBucket(c.Experience)) },
	},
	{
		criterion: CriterionCategory,
		active:    func(c Criteria) bool { return isSet(c.Category) },
		match: func(j engine.JobRecord, c Criteria) bool {
			if engine.Lower(c.Category) == "government" {
				return IsGovernment(j)
			}
			return engine.EqualFold(j.Category, c.Category)
		},
	},
	{
		criterion: CriterionSalary,
		active:    func(c Criteria) bool { return c.SalaryMin != nil || c.SalaryMax != nil },
		match:     func(j engine.JobRecord, c Criteria) bool { return SalaryWithin(j.Salary, c.SalaryMin, c.SalaryMax) },
	},
	{
		criterion: CriterionJobType,
		active:    func(c Criteria) bool { return isSet(c.JobType) },
		match:     func(j engine.JobRecord, c Criteria) bool { return engine.EqualFold(j.Type, c.JobType) },
	},
	{
		criterion: CriterionCompany,
		active:    func(c Criteria) bool { return isSet(c.Company) },
		match:     func(j engine.JobRecord, c Criteria) bool { return engine.ContainsFold(j.Company, c.Company) },
	},
}

func keywordMatch(j engine.JobRecord, keyword string) bool {
	if engine.ContainsFold(j.Title, keyword) || engine.ContainsFold(j.Company, keyword) ||
		engine.ContainsFold(j.Description, keyword) {
		return true
	}
	for _, s := range j.Skills {
		if engine.ContainsFold(s, keyword) {
			return true
		}
	}
	return false
}

// Options tunes a pipeline run.
type Options struct {
	// ServerApplied lists criteria the backend already applied to this collection.
	// Their predicates are skipped so the same criterion is never filtered twice.
	ServerApplied []Criterion
}

func (o Options) skips(c Criterion) bool {
	for _, s := range o.ServerApplied {
		if s == c {
			return true
		}
	}
	return false
}

// Apply filters jobs by every set criterion (logical AND).
// The input slice is not modified; result order follows input order but
// callers should not rely on it and sort explicitly.
func Apply(jobs []engine.JobRecord, c Criteria) []engine.JobRecord {
	return ApplyWith(jobs, c, Options{})
}

// ApplyWith is Apply with options.
func ApplyWith(jobs []engine.JobRecord, c Criteria, opts Options) []engine.JobRecord {
	engine.IncrFilterRuns()

	active := make([]predicate, 0, len(pipeline))
	for _, p := range pipeline {
		if p.active(c) && !opts.skips(p.criterion) {
			active = append(active, p)
		}
	}

	out := make([]engine.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if matchAll(active, j, c) {
			out = append(out, j)
		}
	}
	slog.Debug("filter: applied", slog.Int("in", len(jobs)), slog.Int("out", len(out)), slog.Int("predicates", len(active)))
	return out
}

func matchAll(preds []predicate, j engine.JobRecord, c Criteria) bool {
	for _, p := range preds {
		if !p.match(j, c) {
			return false
		}
	}
	return true
}

// ServerFiltersFor extracts the subset of criteria the backend can apply itself,
// along with the criteria it covers. Location "remote" and category "government"
// are heuristics evaluated locally, so they are never sent as plain filters.
func ServerFiltersFor(c Criteria, limit int) (engine.ServerFilters, []Criterion) {
	f := engine.ServerFilters{
		Search:   strings.TrimSpace(c.Keyword),
		Location: strings.TrimSpace(c.Location),
		Type:     strings.TrimSpace(c.JobType),
		Category: strings.TrimSpace(c.Category),
		IsRemote: c.IsRemote,
		Limit:    limit,
	}
	if engine.Lower(f.Location) == "remote" {
		f.Location = ""
	}
	if engine.Lower(f.Category) == "government" {
		f.Category = ""
	}
	var covered []Criterion
	if f.Search != "" {
		covered = append(covered, CriterionKeyword)
	}
	if f.Location != "" {
		covered = append(covered, CriterionLocation)
	}
	if f.Type != "" {
		covered = append(covered, CriterionJobType)
	}
	if f.Category != "" {
		covered = append(covered, CriterionCategory)
	}
	if f.IsRemote {
		covered = append(covered, CriterionRemote)
	}
	return f, covered
}
