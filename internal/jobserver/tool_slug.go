package jobserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
)

func registerSlug(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_slug",
		Description: "Encode a job (title, company, location, id) into its URL slug and /jobs/<slug> path, or decode a slug back to the job id.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input SlugInput) (*mcp.CallToolResult, SlugOutput, error) {
		out, err := slugOf(input)
		if err != nil {
			return nil, SlugOutput{}, err
		}
		return nil, out, nil
	})
}

func slugOf(in SlugInput) (SlugOutput, error) {
	if s := strings.TrimSpace(in.Slug); s != "" {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "/"), "jobs/")
		return SlugOutput{Slug: s, ID: jobs.DecodeSlug(s), Path: "/jobs/" + s}, nil
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return SlugOutput{}, errors.New("id or slug is required")
	}
	slug := jobs.EncodeSlug(in.Title, in.Company, in.Location, id)
	return SlugOutput{Slug: slug, ID: id, Path: "/jobs/" + slug}, nil
}
