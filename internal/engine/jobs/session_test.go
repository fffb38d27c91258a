package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

func TestSession_PageResets(t *testing.T) {
	s := NewSession(12)
	s.SetJobs(makeJobs(25))
	s.SetPage(3)
	require.Len(t, s.Results().Items, 1)

	// Re-setting identical criteria or sort keeps the page.
	s.SetCriteria(Criteria{})
	s.SetSort(SortNewest)
	assert.Equal(t, 3, s.CurrentPage())

	// A new collection keeps the page too.
	s.SetJobs(makeJobs(30))
	assert.Equal(t, 3, s.CurrentPage())
	assert.Len(t, s.Results().Items, 6)

	s.SetSort(SortCompanyAZ)
	assert.Equal(t, 1, s.CurrentPage())

	s.SetPage(2)
	s.SetCriteria(Criteria{Keyword: "1"})
	assert.Equal(t, 1, s.CurrentPage())

	s.SetPage(2)
	s.SetCriteria(Criteria{Keyword: "1", SalaryMin: engine.Float(0)})
	assert.Equal(t, 1, s.CurrentPage(), "salary bound change must reset page")
}

func TestSession_Results(t *testing.T) {
	s := NewSession(0)
	s.SetJobs([]engine.JobRecord{
		{ID: "1", Title: "Go Engineer", PostedDate: "2024-01-01"},
		{ID: "2", Title: "Senior Go Developer", PostedDate: "2024-02-01"},
		{ID: "3", Title: "Designer", PostedDate: "2024-03-01"},
	})
	s.SetCriteria(Criteria{Keyword: "go"})

	page := s.Results()
	require.Equal(t, []string{"2", "1"}, ids(page.Items))
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, engine.DefaultPageSize, page.PageSize)
	for _, j := range page.Items {
		assert.Equal(t, 100.0, j.MatchPercentage)
		assert.Equal(t, PriorityHigh, j.Priority)
	}

	s.SetSort(SortOldest)
	assert.Equal(t, []string{"1", "2"}, ids(s.Results().Items))
}

func TestSession_ServerApplied(t *testing.T) {
	s := NewSession(12)
	s.SetCriteria(Criteria{Experience: "5+ yrs"})
	s.SetJobs([]engine.JobRecord{{ID: "1", ExperienceLevel: "fresher"}}, CriterionExperience)
	assert.Len(t, s.Filtered(), 1)

	s.SetJobs([]engine.JobRecord{{ID: "1", ExperienceLevel: "fresher"}})
	assert.Empty(t, s.Filtered())
}
