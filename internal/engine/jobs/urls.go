package jobs

import (
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// JobPath is the canonical job page path: /jobs/<slug>.
func JobPath(job engine.JobRecord) string {
	return "/jobs/" + SlugFor(job)
}

// SearchPath builds /search?q=<keyword>&location=<location>.
// Empty parameters are omitted; q always precedes location.
func SearchPath(keyword, location string) string {
	var params []string
	if k := strings.TrimSpace(keyword); k != "" {
		params = append(params, "q="+url.QueryEscape(k))
	}
	if l := strings.TrimSpace(location); l != "" {
		params = append(params, "location="+url.QueryEscape(l))
	}
	if len(params) == 0 {
		return "/search"
	}
	return "/search?" + strings.Join(params, "&")
}
