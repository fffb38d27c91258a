package jobs

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Criteria is the mutable set of user-entered filters. Zero values mean "unset";
// salary bounds are pointers because 0 is a meaningful bound.
type Criteria struct {
	Keyword    string   `json:"keyword,omitempty"`
	Location   string   `json:"location,omitempty"`
	JobType    string   `json:"jobType,omitempty"`
	Experience string   `json:"experience,omitempty"` // bucket label
	Category   string   `json:"category,omitempty"`
	Company    string   `json:"company,omitempty"`
	SalaryMin  *float64 `json:"salaryMin,omitempty"`
	SalaryMax  *float64 `json:"salaryMax,omitempty"`
	IsRemote   bool     `json:"isRemote,omitempty"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.Equal(Criteria{})
}

// Equal compares criteria by value, including salary bounds.
func (c Criteria) Equal(o Criteria) bool {
	return c.Keyword == o.Keyword && c.Location == o.Location && c.JobType == o.JobType &&
		c.Experience == o.Experience && c.Category == o.Category && c.Company == o.Company &&
		c.IsRemote == o.IsRemote && floatPtrEqual(c.SalaryMin, o.SalaryMin) && floatPtrEqual(c.SalaryMax, o.SalaryMax)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CriteriaFromQuery hydrates criteria from a search URL query string.
// Both the short names used by /search (q) and the long names are accepted.
func CriteriaFromQuery(v url.Values) Criteria {
	first := func(keys ...string) string {
		for _, k := range keys {
			if s := strings.TrimSpace(v.Get(k)); s != "" {
				return s
			}
		}
		return ""
	}
	c := Criteria{
		Keyword:    first("q", "keyword", "search"),
		Location:   first("location"),
		JobType:    first("type", "jobType"),
		Experience: first("experience"),
		Category:   first("category"),
		Company:    first("company"),
		SalaryMin:  parseBound(first("salaryMin")),
		SalaryMax:  parseBound(first("salaryMax")),
	}
	switch strings.ToLower(first("remote", "isRemote")) {
	case "1", "true", "yes", "on":
		c.IsRemote = true
	}
	return c
}

func parseBound(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Query serializes criteria back into query parameters understood by CriteriaFromQuery.
func (c Criteria) Query() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s = strings.TrimSpace(s); s != "" {
			v.Set(k, s)
		}
	}
	set("q", c.Keyword)
	set("location", c.Location)
	set("type", c.JobType)
	set("experience", c.Experience)
	set("category", c.Category)
	set("company", c.Company)
	if c.SalaryMin != nil {
		v.Set("salaryMin", strconv.FormatFloat(*c.SalaryMin, 'f', -1, 64))
	}
	if c.SalaryMax != nil {
		v.Set("salaryMax", strconv.FormatFloat(*c.SalaryMax, 'f', -1, 64))
	}
	if c.IsRemote {
		v.Set("remote", "true")
	}
	return v
}
