package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

func TestMerge(t *testing.T) {
	got := Merge(engine.Suggestions{
		Jobs:      []string{"Go Developer", "Go Engineer", "Golang Lead", "Go Intern"},
		Companies: []string{"Google", "GoDaddy", "Gojek", "Gorgias"},
		Locations: []string{"Gothenburg", "Goa", "Gozo", "Gombe"},
		Skills:    []string{"go", "goroutines", "gorm", "gomock"},
	})

	var groups []Group
	for i, it := range got {
		assert.Equal(t, i, it.Index, "item %d index", i)
		groups = append(groups, it.Group)
	}
	assert.Equal(t, []Group{
		GroupJob, GroupJob, GroupJob,
		GroupCompany, GroupCompany, GroupCompany, GroupCompany,
		GroupLocation, GroupLocation, GroupLocation,
		GroupSkill, GroupSkill, GroupSkill,
	}, groups)
	assert.Equal(t, "Golang Lead", got[2].Value)
	assert.Equal(t, "Gorgias", got[6].Value)
}

func TestMerge_SkipsBlankAndDuplicates(t *testing.T) {
	got := Merge(engine.Suggestions{
		Jobs:   []string{"", "Go Dev", "go dev", "  ", "Go Lead", "Go Ops", "Go SRE"},
		Skills: []string{"Go"},
	})
	var values []string
	for _, it := range got {
		values = append(values, it.Value)
	}
	assert.Equal(t, []string{"Go Dev", "Go Lead", "Go Ops", "Go"}, values)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(engine.Suggestions{}))
}
