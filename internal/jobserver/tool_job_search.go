package jobserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
)

const (
	maxPageSize      = 100
	descriptionLimit = 600
)

func registerJobSearch(server *mcp.Server, t *toolset) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_search",
		Description: "Search the job board. Filters by keyword, location, job type, experience bucket, category, company, salary range and remote. Returns one sorted page of jobs with slug, URL, formatted salary, experience bucket, government/remote flags and keyword match percentage.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobSearchInput) (*mcp.CallToolResult, JobSearchOutput, error) {
		out, err := t.search(ctx, input)
		if err != nil {
			return nil, JobSearchOutput{}, err
		}
		return nil, out, nil
	})
}

// criteriaFor merges the query string with explicit fields; explicit fields win.
func criteriaFor(in JobSearchInput) (jobs.Criteria, error) {
	var c jobs.Criteria
	if q := strings.TrimPrefix(strings.TrimSpace(in.Query), "?"); q != "" {
		if i := strings.Index(q, "?"); i >= 0 {
			q = q[i+1:]
		}
		v, err := url.ParseQuery(q)
		if err != nil {
			return jobs.Criteria{}, fmt.Errorf("invalid query: %w", err)
		}
		c = jobs.CriteriaFromQuery(v)
	}
	override := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	override(&c.Keyword, in.Keyword)
	override(&c.Location, in.Location)
	override(&c.JobType, in.JobType)
	override(&c.Experience, in.Experience)
	override(&c.Category, in.Category)
	override(&c.Company, in.Company)
	if in.SalaryMin != nil {
		c.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		c.SalaryMax = in.SalaryMax
	}
	if in.Remote {
		c.IsRemote = true
	}
	if (c.SalaryMin != nil && *c.SalaryMin < 0) || (c.SalaryMax != nil && *c.SalaryMax < 0) {
		return jobs.Criteria{}, errors.New("salary bounds must not be negative")
	}
	return c, nil
}

func (t *toolset) search(ctx context.Context, in JobSearchInput) (JobSearchOutput, error) {
	if in.Page < 0 {
		return JobSearchOutput{}, errors.New("page must not be negative")
	}
	if in.PageSize < 0 || in.PageSize > maxPageSize {
		return JobSearchOutput{}, fmt.Errorf("page_size must be between 1 and %d", maxPageSize)
	}
	c, err := criteriaFor(in)
	if err != nil {
		return JobSearchOutput{}, err
	}
	engine.IncrSearchRequests()

	s := jobs.NewSession(in.PageSize)
	s.SetJobs(t.collection(ctx, c))
	s.SetCriteria(c)
	s.SetSort(jobs.ParseSortKey(in.Sort))
	if in.Page > 0 {
		s.SetPage(in.Page)
	}
	page := s.Results()

	now := t.now()
	views := make([]JobView, 0, len(page.Items))
	for _, j := range page.Items {
		views = append(views, viewOf(j, now))
	}

	t.record(ctx, c)

	slog.Info("search: done",
		slog.String("keyword", c.Keyword),
		slog.String("location", c.Location),
		slog.Int("total", page.Total),
		slog.Int("page", page.Page))

	return JobSearchOutput{
		Criteria:   c,
		Sort:       s.Sort(),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Total:      page.Total,
		Jobs:       views,
		SearchPath: jobs.SearchPath(c.Keyword, c.Location),
		Summary:    summarize(page),
	}, nil
}

// record adds the search to the history. Failures only cost the history entry.
func (t *toolset) record(ctx context.Context, c jobs.Criteria) {
	if t.searches == nil {
		return
	}
	if strings.TrimSpace(c.Keyword) == "" && strings.TrimSpace(c.Location) == "" {
		return
	}
	if _, err := t.searches.Record(ctx, c.Keyword, c.Location, c.JobType); err != nil {
		slog.Warn("search: history write failed", slog.Any("error", err))
	}
}

func summarize(p jobs.Page) string {
	switch {
	case p.Total == 0:
		return "No jobs match the current filters."
	case len(p.Items) == 0:
		return fmt.Sprintf("%d jobs match, but page %d is past the last page (%d).", p.Total, p.Page, p.TotalPages)
	default:
		return fmt.Sprintf("%d jobs match. Page %d of %d.", p.Total, p.Page, p.TotalPages)
	}
}

func viewOf(j engine.JobRecord, now time.Time) JobView {
	v := JobView{
		ID:                  j.ID,
		Slug:                jobs.SlugFor(j),
		URL:                 jobs.JobPath(j),
		Title:               j.Title,
		Company:             j.Company,
		Location:            j.Location,
		Description:         engine.TruncateRunes(j.Description, descriptionLimit, "..."),
		Skills:              j.Skills,
		Category:            j.Category,
		Type:                j.Type,
		ExperienceLevel:     j.ExperienceLevel,
		Bucket:              jobs.ClassifyExperience(j),
		SalaryText:          jobs.FormatSalary(j.Salary),
		IsGovernment:        jobs.IsGovernment(j),
		Remote:              jobs.IsRemote(j),
		PostedDate:          j.PostedDate,
		ApplicationDeadline: j.ApplicationDeadline,
		MatchPercentage:     j.MatchPercentage,
		Priority:            j.Priority,
	}
	if age := jobs.Age(j, now); age > 0 {
		v.AgeDays = int(age.Hours() / 24)
	}
	return v
}
