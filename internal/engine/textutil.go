package engine

import (
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/text/unicode/norm"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// CleanHTML strips HTML tags and trims whitespace.
func CleanHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// LooksLikeHTML reports whether s carries markup worth converting.
func LooksLikeHTML(s string) bool {
	return strings.Contains(s, "</") || strings.Contains(s, "<br") || strings.Contains(s, "<p>")
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// Lower applies NFKC, lowercases and collapses runs of whitespace.
// Every case-insensitive comparison in the engine goes through it.
func Lower(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToLower(strings.Join(strings.Fields(norm.NFKC.String(s)), " "))
}

// ContainsFold reports whether needle occurs in haystack, case-insensitively.
// An empty needle never matches.
func ContainsFold(haystack, needle string) bool {
	needle = Lower(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(Lower(haystack), needle)
}

// EqualFold compares two strings after Lower.
func EqualFold(a, b string) bool {
	return Lower(a) == Lower(b)
}

// FoldKey returns a normalized dedup key: lowercase, alphanumerics only,
// single spaces between words.
func FoldKey(s string) string {
	s = Lower(s)
	var b strings.Builder
	prevSpace := true
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 0x7f {
			b.WriteRune(r)
			prevSpace = false
		} else if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}
