package jobs

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

var sortFixture = []engine.JobRecord{
	{ID: "a", Company: "Zeta", PostedDate: "2024-03-01", Salary: &engine.Salary{Min: 50000, Max: 70000}},
	{ID: "b", Company: "acme", PostedDate: "2024-05-20T10:00:00Z", Salary: &engine.Salary{Min: 90000}},
	{ID: "c", Company: "", PostedDate: "", Salary: nil},
	{ID: "d", Company: "Beta", PostedDate: "not a date", Salary: &engine.Salary{Text: "Competitive"}},
	{ID: "e", Company: "Acme", PostedDate: "2023-12-31", Salary: &engine.Salary{Min: 40000, Max: 120000}},
}

func TestSortJobs(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortNewest, []string{"b", "a", "e", "c", "d"}},
		{SortOldest, []string{"c", "d", "e", "a", "b"}},
		{SortSalaryHigh, []string{"e", "b", "a", "c", "d"}},
		{SortSalaryLow, []string{"c", "d", "e", "a", "b"}},
		{SortCompanyAZ, []string{"b", "e", "d", "a", "c"}},
		{SortKey("bogus"), []string{"b", "a", "e", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SortJobs(sortFixture, tt.key)))
		})
	}
}

func TestSortJobs_DoesNotMutateInput(t *testing.T) {
	before := ids(sortFixture)
	_ = SortJobs(sortFixture, SortCompanyAZ)
	assert.Equal(t, before, ids(sortFixture))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortSalaryHigh, ParseSortKey(" Salary-High "))
	assert.Equal(t, SortNewest, ParseSortKey(""))
	assert.Equal(t, SortNewest, ParseSortKey("relevance"))
}

func makeJobs(n int) []engine.JobRecord {
	out := make([]engine.JobRecord, n)
	for i := range out {
		out[i] = engine.JobRecord{ID: fmt.Sprint(i + 1)}
	}
	return out
}

func TestPaginate(t *testing.T) {
	jobs := makeJobs(25)
	tests := []struct {
		page      int
		wantLen   int
		wantFirst string
	}{
		{1, 12, "1"},
		{2, 12, "13"},
		{3, 1, "25"},
		{4, 0, ""},
		{0, 0, ""},
		{-1, 0, ""},
	}
	for _, tt := range tests {
		p := Paginate(jobs, tt.page, 12)
		if p.TotalPages != 3 {
			t.Errorf("page %d: TotalPages = %d, want 3", tt.page, p.TotalPages)
		}
		if p.Total != 25 {
			t.Errorf("page %d: Total = %d, want 25", tt.page, p.Total)
		}
		if len(p.Items) != tt.wantLen {
			t.Errorf("page %d: len(Items) = %d, want %d", tt.page, len(p.Items), tt.wantLen)
			continue
		}
		if tt.wantLen > 0 && p.Items[0].ID != tt.wantFirst {
			t.Errorf("page %d: first = %s, want %s", tt.page, p.Items[0].ID, tt.wantFirst)
		}
		if p.Items == nil {
			t.Errorf("page %d: Items is nil, want empty slice", tt.page)
		}
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(nil, 1, 12)
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Items)
}

func TestPaginate_DefaultPageSize(t *testing.T) {
	p := Paginate(makeJobs(13), 1, 0)
	assert.Equal(t, engine.DefaultPageSize, p.PageSize)
	assert.Equal(t, 2, p.TotalPages)
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10*24*time.Hour, Age(sortFixture[0], now))
	assert.Zero(t, Age(sortFixture[2], now))
}
