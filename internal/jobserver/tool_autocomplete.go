package jobserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_jobboard/internal/engine/suggest"
)

func registerAutocomplete(server *mcp.Server, t *toolset) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_autocomplete",
		Description: "Search-box autocomplete for the keyword or location input. Send the current text as query to get a merged suggestion list (jobs max 3, all companies, locations max 3, skills max 3). Send key (ArrowDown, ArrowUp, Enter, Escape) to move the highlight or select; Enter returns the selection and the /search path it navigates to.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AutocompleteInput) (*mcp.CallToolResult, AutocompleteOutput, error) {
		out, err := t.autocomplete(ctx, input)
		if err != nil {
			return nil, AutocompleteOutput{}, err
		}
		return nil, out, nil
	})
}

var navKeys = []suggest.Key{suggest.KeyArrowDown, suggest.KeyArrowUp, suggest.KeyEnter, suggest.KeyEscape}

func parseKind(s string) (suggest.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keyword", "q":
		return suggest.KindKeyword, nil
	case "location":
		return suggest.KindLocation, nil
	}
	return "", fmt.Errorf("unknown field %q: want keyword or location", s)
}

func parseKey(s string) (suggest.Key, error) {
	s = strings.TrimSpace(s)
	for _, k := range navKeys {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown key %q: want ArrowDown, ArrowUp, Enter or Escape", s)
}

func (t *toolset) autocomplete(ctx context.Context, in AutocompleteInput) (AutocompleteOutput, error) {
	kind, err := parseKind(in.Field)
	if err != nil {
		return AutocompleteOutput{}, err
	}
	f := t.fields[kind]

	if in.Key != "" {
		k, err := parseKey(in.Key)
		if err != nil {
			return AutocompleteOutput{}, err
		}
		sel, ok := f.Key(k)
		out := outputOf(kind, f.Snapshot(), false)
		if ok {
			out.Selection = &sel
			out.Path = t.takePath(kind)
		}
		return out, nil
	}

	snap, superseded, err := f.Query(ctx, in.Query)
	if err != nil {
		return AutocompleteOutput{}, fmt.Errorf("autocomplete: %w", err)
	}
	return outputOf(kind, snap, superseded), nil
}

func outputOf(kind suggest.Kind, s suggest.Snapshot, superseded bool) AutocompleteOutput {
	return AutocompleteOutput{
		Field:      kind,
		Query:      s.Query,
		State:      s.State,
		Items:      s.Items,
		Index:      s.Index,
		Superseded: superseded,
	}
}
