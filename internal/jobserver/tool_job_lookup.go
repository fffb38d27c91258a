package jobserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
)

func registerJobLookup(server *mcp.Server, t *toolset) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_lookup",
		Description: "Look up one job by its slug (the last segment of /jobs/<slug>) or by bare id. The id is recovered from the slug and matched against the job collection.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input JobLookupInput) (*mcp.CallToolResult, JobLookupOutput, error) {
		out, err := t.lookup(ctx, input)
		if err != nil {
			return nil, JobLookupOutput{}, err
		}
		return nil, out, nil
	})
}

func (t *toolset) lookup(ctx context.Context, in JobLookupInput) (JobLookupOutput, error) {
	slug := strings.TrimSpace(in.Slug)
	slug = strings.TrimPrefix(slug, "/")
	slug = strings.TrimPrefix(slug, "jobs/")
	if slug == "" {
		return JobLookupOutput{}, errors.New("slug is required")
	}
	id := jobs.DecodeSlug(slug)
	out := JobLookupOutput{ID: id}

	for _, j := range t.collection(ctx, jobs.Criteria{}) {
		if j.ID == id || (j.Slug != "" && j.Slug == slug) {
			v := viewOf(j, t.now())
			out.ID = j.ID
			out.Found = true
			out.Job = &v
			return out, nil
		}
	}
	slog.Debug("lookup: job not found", slog.String("slug", slug), slog.String("id", id))
	return out, nil
}
