package jobserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
)

var errNoStore = errors.New("saved searches are not configured")

func registerSavedSearches(server *mcp.Server, t *toolset) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "saved_search_add",
		Description: "Save a search (keyword and/or location, optional job type). The newest save goes first; an identical earlier save is replaced; at most 10 are kept.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SavedSearchAddInput) (*mcp.CallToolResult, SavedSearchResult, error) {
		out, err := t.saveSearch(ctx, input)
		if err != nil {
			return nil, SavedSearchResult{}, err
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "saved_search_list",
		Description: "List saved searches, newest first, each with its /search path.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ SavedSearchListInput) (*mcp.CallToolResult, SavedSearchListOutput, error) {
		out, err := t.listSaved(ctx)
		if err != nil {
			return nil, SavedSearchListOutput{}, err
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "saved_search_remove",
		Description: "Remove a saved search by id. Get ids from saved_search_list.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SavedSearchRemoveInput) (*mcp.CallToolResult, SavedSearchResult, error) {
		out, err := t.removeSaved(ctx, input)
		if err != nil {
			return nil, SavedSearchResult{}, err
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_history_list",
		Description: "List the 5 most recent searches made through job_search, newest first. Set clear to empty the history afterwards.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchHistoryListInput) (*mcp.CallToolResult, SavedSearchListOutput, error) {
		out, err := t.listHistory(ctx, input)
		if err != nil {
			return nil, SavedSearchListOutput{}, err
		}
		return nil, out, nil
	})
}

func savedView(s jobs.SavedSearch) SavedSearchView {
	return SavedSearchView{
		ID:        s.ID,
		Keyword:   s.Keyword,
		Location:  s.Location,
		JobType:   s.JobType,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		Path:      s.Path(),
	}
}

func viewsOf(list []jobs.SavedSearch) []SavedSearchView {
	out := make([]SavedSearchView, 0, len(list))
	for _, s := range list {
		out = append(out, savedView(s))
	}
	return out
}

func (t *toolset) saveSearch(ctx context.Context, in SavedSearchAddInput) (SavedSearchResult, error) {
	if t.searches == nil {
		return SavedSearchResult{}, errNoStore
	}
	s, err := t.searches.Save(ctx, in.Keyword, in.Location, in.JobType)
	if err != nil {
		return SavedSearchResult{}, err
	}
	v := savedView(s)
	return SavedSearchResult{Search: &v}, nil
}

func (t *toolset) listSaved(ctx context.Context) (SavedSearchListOutput, error) {
	if t.searches == nil {
		return SavedSearchListOutput{}, errNoStore
	}
	list, err := t.searches.Saved(ctx)
	if err != nil {
		return SavedSearchListOutput{}, err
	}
	return SavedSearchListOutput{Searches: viewsOf(list)}, nil
}

func (t *toolset) removeSaved(ctx context.Context, in SavedSearchRemoveInput) (SavedSearchResult, error) {
	if t.searches == nil {
		return SavedSearchResult{}, errNoStore
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return SavedSearchResult{}, errors.New("id is required")
	}
	removed, err := t.searches.RemoveSaved(ctx, id)
	if err != nil {
		return SavedSearchResult{}, err
	}
	return SavedSearchResult{Removed: removed}, nil
}

func (t *toolset) listHistory(ctx context.Context, in SearchHistoryListInput) (SavedSearchListOutput, error) {
	if t.searches == nil {
		return SavedSearchListOutput{}, errNoStore
	}
	list, err := t.searches.History(ctx)
	if err != nil {
		return SavedSearchListOutput{}, err
	}
	if in.Clear {
		if err := t.searches.ClearHistory(ctx); err != nil {
			return SavedSearchListOutput{}, err
		}
	}
	return SavedSearchListOutput{Searches: viewsOf(list)}, nil
}
