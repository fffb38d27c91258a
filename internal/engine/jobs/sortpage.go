package jobs

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// SortKey selects a result ordering.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortSalaryHigh SortKey = "salary-high"
	SortSalaryLow  SortKey = "salary-low"
	SortCompanyAZ  SortKey = "company-az"
)

// SortKeys lists the supported orderings.
var SortKeys = []SortKey{SortNewest, SortOldest, SortSalaryHigh, SortSalaryLow, SortCompanyAZ}

// ParseSortKey returns the key for s, defaulting to SortNewest.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, k) {
		return k
	}
	return SortNewest
}

// postedAt parses a posted date. Missing or unparseable dates are the zero Unix time.
func postedAt(j engine.JobRecord) int64 {
	if j.PostedDate == "" {
		return 0
	}
	t, err := dateparse.ParseIn(j.PostedDate, time.UTC)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// salaryHigh is the value used for descending salary order: the upper bound,
// or the lower bound when only that is known.
func salaryHigh(j engine.JobRecord) float64 {
	lo, hi := salaryBounds(j.Salary)
	if hi > 0 {
		return hi
	}
	return lo
}

func salaryLow(j engine.JobRecord) float64 {
	lo, _ := salaryBounds(j.Salary)
	return lo
}

// SortJobs returns a sorted copy of jobs. The sort is stable, so equal keys
// keep their incoming order. Unknown keys sort newest first.
func SortJobs(jobs []engine.JobRecord, key SortKey) []engine.JobRecord {
	out := slices.Clone(jobs)

	switch key {
	case SortOldest:
		sortBy(out, postedAt, false)
	case SortSalaryHigh:
		sortBy(out, salaryHigh, true)
	case SortSalaryLow:
		sortBy(out, salaryLow, false)
	case SortCompanyAZ:
		slices.SortStableFunc(out, func(a, b engine.JobRecord) int {
			ka, kb := engine.FoldKey(a.Company), engine.FoldKey(b.Company)
			// Missing companies go last.
			if (ka == "") != (kb == "") {
				if ka == "" {
					return 1
				}
				return -1
			}
			return strings.Compare(ka, kb)
		})
	default:
		sortBy(out, postedAt, true)
	}
	return out
}

func sortBy[K cmp.Ordered](jobs []engine.JobRecord, key func(engine.JobRecord) K, desc bool) {
	slices.SortStableFunc(jobs, func(a, b engine.JobRecord) int {
		if desc {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	})
}

// Page is one page of results.
type Page struct {
	Items      []engine.JobRecord `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
	Total      int                `json:"total"`
}

// Paginate slices jobs into fixed-size pages. page is 1-based and is not clamped:
// an out-of-range page yields no items. pageSize <= 0 uses the configured default.
func Paginate(jobs []engine.JobRecord, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = engine.Cfg.PageSize
	}
	n := len(jobs)
	p := Page{
		Items:      []engine.JobRecord{},
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (n + pageSize - 1) / pageSize,
		Total:      n,
	}
	if page < 1 || page > p.TotalPages {
		return p
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, n)
	p.Items = jobs[start:end]
	return p
}

// Age reports how long ago a job was posted, or 0 when unknown.
func Age(j engine.JobRecord, now time.Time) time.Duration {
	ts := postedAt(j)
	if ts == 0 {
		return 0
	}
	return now.Sub(time.Unix(ts, 0))
}
