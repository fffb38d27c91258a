package jobs

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

var uuidRe = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// slugify lowercases s, strips diacritics and punctuation and joins words with hyphens.
func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)

	var b strings.Builder
	pendingSep := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			pendingSep = true
		}
		// Everything else is punctuation and dropped without splitting words,
		// so "C++" → "c" and "Node.js" → "nodejs".
	}
	return b.String()
}

// EncodeSlug builds the canonical URL segment for a job:
// <title>[-<location-first-segment>]-at-<company>-<id>.
// The id is appended verbatim so that UUIDs survive DecodeSlug untouched.
func EncodeSlug(title, company, location, id string) string {
	parts := make([]string, 0, 5)
	if t := slugify(title); t != "" {
		parts = append(parts, t)
	}
	if loc, _, _ := strings.Cut(location, ","); loc != "" {
		if l := slugify(loc); l != "" {
			parts = append(parts, l)
		}
	}
	if c := slugify(company); c != "" {
		parts = append(parts, "at", c)
	}
	if id = strings.TrimSpace(id); id != "" {
		parts = append(parts, id)
	}
	return strings.Join(parts, "-")
}

// DecodeSlug recovers a job id from a slug (or a bare id).
//
// A UUID-shaped substring wins; the last one is used when several occur, since the id
// is always the trailing component. Otherwise the last hyphen-delimited token is
// returned, which truncates non-UUID ids that themselves contain hyphens. Bookmarked
// URLs depend on this, so it stays.
func DecodeSlug(slugOrID string) string {
	if ids := uuidRe.FindAllString(slugOrID, -1); len(ids) > 0 {
		return ids[len(ids)-1]
	}
	if i := strings.LastIndexByte(slugOrID, '-'); i >= 0 {
		if tok := slugOrID[i+1:]; tok != "" {
			return tok
		}
	}
	return slugOrID
}

// SlugFor returns the job's precomputed slug, or encodes one.
func SlugFor(job engine.JobRecord) string {
	if s := strings.TrimSpace(job.Slug); s != "" {
		return s
	}
	return EncodeSlug(job.Title, job.Company, job.Location, job.ID)
}
