package jobs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// Bucket is a discrete experience-range label.
type Bucket string

const (
	BucketFresher Bucket = "fresher"
	Bucket1to3    Bucket = "1-3 yrs"
	Bucket3to5    Bucket = "3-5 yrs"
	Bucket5Plus   Bucket = "5+ yrs"
	BucketUnknown Bucket = "unknown"
)

// Buckets lists the selectable buckets in display order.
var Buckets = []Bucket{BucketFresher, Bucket1to3, Bucket3to5, Bucket5Plus}

// ExperienceRange is the canonical experience range. Nil bounds are unknown.
type ExperienceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Known reports whether any bound was recovered.
func (r ExperienceRange) Known() bool { return r.Min != nil || r.Max != nil }

const dashes = `-‐‑‒–—―−~`

var (
	expRangeRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:[` + dashes + `]|to)\s*(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)?`)
	expPlusRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+`)
	expSingleRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`)

	// Bounded single-digit mentions: "1" must not match inside "10", "11" or "21".
	mention1to3Re = regexp.MustCompile(`(?:^|[^0-9.])[123](?:[^0-9]|$)`)
	mention3to5Re = regexp.MustCompile(`(?:^|[^0-9.])[345](?:[^0-9]|$)`)
	// Two-digit-or-more year counts: "10 years", "12+ yrs".
	mentionManyRe = regexp.MustCompile(`(?i)(?:^|[^0-9.])\d{2,}\s*\+?\s*(?:years?|yrs?)`)
)

var (
	fresherKeywords   = []string{"fresher", "entry"}
	seniorityKeywords = []string{"senior", "lead", "executive", "manager", "director", "principal"}
)

// experienceText collects the free-text experience fields of a job.
func experienceText(job engine.JobRecord) string {
	parts := make([]string, 0, 2)
	if job.ExperienceLevel != "" {
		parts = append(parts, job.ExperienceLevel)
	}
	if job.Experience != nil && !job.Experience.Structured() && job.Experience.Text != "" {
		parts = append(parts, job.Experience.Text)
	}
	return strings.Join(parts, " ")
}

// NormalizeExperience reconciles structured and free-text experience into one range.
// Structured {min,max} wins; otherwise the text is parsed as a range ("2-4 years",
// "3 to 5 yrs"), then "N+", then "N years". An unparseable job yields an empty range.
func NormalizeExperience(job engine.JobRecord) ExperienceRange {
	if job.Experience.Structured() {
		return ExperienceRange{Min: job.Experience.Min, Max: job.Experience.Max}
	}
	return parseExperienceText(experienceText(job))
}

func parseExperienceText(text string) ExperienceRange {
	if text == "" {
		return ExperienceRange{}
	}
	if m := expRangeRe.FindStringSubmatch(text); m != nil {
		return ExperienceRange{Min: parseNum(m[1]), Max: parseNum(m[2])}
	}
	if m := expPlusRe.FindStringSubmatch(text); m != nil {
		return ExperienceRange{Min: parseNum(m[1])}
	}
	if m := expSingleRe.FindStringSubmatch(text); m != nil {
		n := parseNum(m[1])
		return ExperienceRange{Min: n, Max: n}
	}
	// Bare numbers, e.g. "experience": 3.
	if n := parseNum(strings.TrimSpace(text)); n != nil {
		return ExperienceRange{Min: n, Max: n}
	}
	return ExperienceRange{}
}

func parseNum(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// overlaps mirrors loose numeric comparison: a missing bound never satisfies it.
func overlaps(r ExperienceRange, lo, hi float64) bool {
	return r.Min != nil && r.Max != nil && *r.Max >= lo && *r.Min <= hi
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// MatchesBucket reports whether a job belongs to bucket b. Buckets are not
// exclusive: boundary years 3 and 5 belong to two buckets each, and a range
// can overlap several. BucketUnknown and unrecognized labels match nothing.
func MatchesBucket(job engine.JobRecord, b Bucket) bool {
	r := NormalizeExperience(job)
	text := engine.Lower(experienceText(job))

	switch b {
	case BucketFresher:
		if containsAny(text, fresherKeywords) {
			return true
		}
		return r.Min != nil && *r.Min == 0 && (r.Max == nil || *r.Max == 0 || *r.Max == 1)
	case Bucket1to3:
		if r.Min != nil && *r.Min >= 1 && *r.Min <= 3 {
			return true
		}
		return overlaps(r, 1, 3) || mention1to3Re.MatchString(text)
	case Bucket3to5:
		if r.Min != nil && *r.Min >= 3 && *r.Min <= 5 {
			return true
		}
		return overlaps(r, 3, 5) || mention3to5Re.MatchString(text)
	case Bucket5Plus:
		if r.Min != nil && *r.Min >= 5 {
			return true
		}
		return mentionManyRe.MatchString(text) || containsAny(text, seniorityKeywords)
	}
	return false
}

// ClassifyExperience returns the first bucket a job falls into, or BucketUnknown.
func ClassifyExperience(job engine.JobRecord) Bucket {
	for _, b := range Buckets {
		if MatchesBucket(job, b) {
			return b
		}
	}
	return BucketUnknown
}

// ParseBucket maps a user-facing label onto a Bucket. Empty input returns ""
// (no filter); anything unrecognized returns BucketUnknown.
func ParseBucket(label string) Bucket {
	l := strings.ReplaceAll(engine.Lower(label), " ", "")
	switch l {
	case "":
		return ""
	case "fresher", "freshers", "entry", "entrylevel", "0-1", "0-1yrs", "0-1years":
		return BucketFresher
	case "1-3", "1-3yrs", "1-3years":
		return Bucket1to3
	case "3-5", "3-5yrs", "3-5years":
		return Bucket3to5
	case "5+", "5+yrs", "5+years", "senior":
		return Bucket5Plus
	}
	return BucketUnknown
}
