package tools

import (
	"context"
	"fmt"

	"github.com/orin-ai/orin"
)

// Search simulates a web search. No live index is wired in; the result is a
// fixed protocol banner carrying the query, which still lets plans exercise
// the search step.
type Search struct{}

// NewSearch creates a search tool.
func NewSearch() *Search {
	return &Search{}
}

func (t *Search) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "SEARCH",
		Description: "Simulates a web search query",
	}
}

func (t *Search) Run(ctx context.Context, params map[string]any) (string, error) {
	query, err := stringParam(params, "query")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`[SEARCH_PROTOCOL] Querying global network for: %q... Found 14,000 results. Top result: [Simulated Data]`, query), nil
}
