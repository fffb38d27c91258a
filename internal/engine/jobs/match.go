package jobs

import (
	"sort"
	"strings"
	"unicode"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// matchStopWords filters common English words that add noise to keyword matching.
var matchStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
}

// Priority tiers derived from the match percentage.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// extractMatchKW tokenizes text into lowercase keywords, skipping stop words.
// Preserves tech suffixes like "c++", "c#", "node.js" by treating + # . as word chars.
func extractMatchKW(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := word.String()
		word.Reset()
		w = strings.TrimRight(w, ".")
		if len([]rune(w)) >= 2 && !matchStopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range engine.Lower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return kw
}

// criteriaKeywords returns the tokens a job is scored against for one session.
func criteriaKeywords(c Criteria) map[string]bool {
	return extractMatchKW(strings.Join([]string{c.Keyword, c.Company, c.Location, c.JobType}, " "))
}

func jobText(j engine.JobRecord) string {
	return strings.Join(append([]string{j.Title, j.Company, j.Location, j.Type, j.Category, j.Description}, j.Skills...), " ")
}

// ScoreMatch returns the share (0-100, one decimal) of query keywords found in the job,
// plus the matching keywords in sorted order.
func ScoreMatch(queryKW map[string]bool, job engine.JobRecord) (score float64, matching []string) {
	if len(queryKW) == 0 {
		return 0, nil
	}
	jobKW := extractMatchKW(jobText(job))
	for kw := range queryKW {
		if jobKW[kw] {
			matching = append(matching, kw)
		}
	}
	raw := float64(len(matching)) / float64(len(queryKW)) * 100
	score = float64(int(raw*10+0.5)) / 10
	sort.Strings(matching)
	return score, matching
}

// PriorityFor maps a match percentage onto a priority tier.
func PriorityFor(score float64) int {
	switch {
	case score >= 75:
		return PriorityHigh
	case score >= 40:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Annotate fills MatchPercentage and Priority on a copy of jobs. With no scoring
// keywords both fields are left zero.
func Annotate(jobs []engine.JobRecord, c Criteria) []engine.JobRecord {
	out := make([]engine.JobRecord, len(jobs))
	copy(out, jobs)
	kw := criteriaKeywords(c)
	for i := range out {
		out[i].MatchPercentage, out[i].Priority = 0, 0
		if len(kw) == 0 {
			continue
		}
		score, _ := ScoreMatch(kw, out[i])
		out[i].MatchPercentage = score
		out[i].Priority = PriorityFor(score)
	}
	return out
}
