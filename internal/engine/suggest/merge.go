// Package suggest implements the search-box autocomplete: a debounced,
// cancellable fetch of four suggestion groups merged into one keyboard-navigable list.
package suggest

import (
	"strings"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

// Group identifies where a suggestion came from.
type Group string

const (
	GroupJob      Group = "job"
	GroupCompany  Group = "company"
	GroupLocation Group = "location"
	GroupSkill    Group = "skill"
)

// Item is one row of the merged list. Index is its position in the list.
type Item struct {
	Group Group  `json:"group"`
	Value string `json:"value"`
	Index int    `json:"index"`
}

type groupSpec struct {
	group Group
	cap   int // 0 = uncapped
	get   func(engine.Suggestions) []string
}

// mergeOrder is the fixed display order with per-group caps.
var mergeOrder = []groupSpec{
	{GroupJob, 3, func(s engine.Suggestions) []string { return s.Jobs }},
	{GroupCompany, 0, func(s engine.Suggestions) []string { return s.Companies }},
	{GroupLocation, 3, func(s engine.Suggestions) []string { return s.Locations }},
	{GroupSkill, 3, func(s engine.Suggestions) []string { return s.Skills }},
}

// Merge flattens suggestion groups into one indexed list:
// jobs (max 3), companies (all), locations (max 3), skills (max 3).
// Blank values are dropped; duplicates within a group are kept once.
func Merge(s engine.Suggestions) []Item {
	var out []Item
	for _, spec := range mergeOrder {
		seen := make(map[string]bool)
		n := 0
		for _, v := range spec.get(s) {
			v = strings.TrimSpace(v)
			if v == "" || seen[engine.Lower(v)] {
				continue
			}
			if spec.cap > 0 && n >= spec.cap {
				break
			}
			seen[engine.Lower(v)] = true
			out = append(out, Item{Group: spec.group, Value: v, Index: len(out)})
			n++
		}
	}
	return out
}
