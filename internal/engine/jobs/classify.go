package jobs

import (
	"strings"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// field extracts one text attribute of a job for rule evaluation.
type field struct {
	name string
	get  func(engine.JobRecord) string
}

var (
	fieldCategory     = field{"category", func(j engine.JobRecord) string { return j.Category }}
	fieldCompany      = field{"company", func(j engine.JobRecord) string { return j.Company }}
	fieldTitle        = field{"title", func(j engine.JobRecord) string { return j.Title }}
	fieldLocation     = field{"location", func(j engine.JobRecord) string { return j.Location }}
	fieldLocationType = field{"locationType", func(j engine.JobRecord) string { return j.LocationType }}
	fieldType         = field{"type", func(j engine.JobRecord) string { return j.Type }}
)

// rule is one independent test in a classifier. Rules are OR-combined in order
// and evaluation stops at the first hit.
type rule struct {
	name  string
	match func(engine.JobRecord) bool
}

func oneOf(f field, values ...string) rule {
	return rule{name: f.name + " in " + strings.Join(values, "|"), match: func(j engine.JobRecord) bool {
		v := engine.Lower(f.get(j))
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}}
}

func contains(f field, needles ...string) rule {
	return rule{name: f.name + " contains " + strings.Join(needles, "|"), match: func(j engine.JobRecord) bool {
		v := engine.Lower(f.get(j))
		if v == "" {
			return false
		}
		for _, n := range needles {
			if strings.Contains(v, n) {
				return true
			}
		}
		return false
	}}
}

func equals(f field, want string) rule {
	return rule{name: f.name + " equals " + want, match: func(j engine.JobRecord) bool {
		return engine.Lower(f.get(j)) == want
	}}
}

// GovernmentCategories are category values that always mean a public-sector job.
var GovernmentCategories = []string{"central", "state", "banking", "psu", "defence", "university", "government"}

var governmentTerms = []string{"government", "govt", "public sector"}

// governmentRules over-include on purpose: recall beats precision here.
var governmentRules = []rule{
	oneOf(fieldCategory, GovernmentCategories...),
	contains(fieldCategory, governmentTerms...),
	contains(fieldCompany, governmentTerms...),
	contains(fieldTitle, governmentTerms...),
	contains(fieldCompany, "commission", "ministry", "board"),
}

var remoteRules = []rule{
	{name: "isRemote flag", match: func(j engine.JobRecord) bool { return j.IsRemote }},
	equals(fieldLocationType, "remote"),
	contains(fieldLocation, "remote"),
	equals(fieldType, "remote"),
}

func evalRules(rules []rule, job engine.JobRecord) bool {
	for _, r := range rules {
		if r.match(job) {
			return true
		}
	}
	return false
}

// IsGovernment reports whether a job looks like a public-sector posting.
func IsGovernment(job engine.JobRecord) bool { return evalRules(governmentRules, job) }

// IsRemote reports whether a job can be done remotely.
func IsRemote(job engine.JobRecord) bool { return evalRules(remoteRules, job) }

// MatchedRule returns the name of the first government rule a job hits, or "".
// Useful when auditing why a job landed in the government category.
func MatchedRule(job engine.JobRecord) string {
	for _, r := range governmentRules {
		if r.match(job) {
			return r.name
		}
	}
	return ""
}
