package orin

import (
	"context"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ToolSpec is the specification of a tool.
type ToolSpec struct {
	// Name is the unique identifier for the tool. Lookup is case-insensitive;
	// identifiers are normalized to upper case.
	Name string

	// Description is a human-readable description of what the tool does.
	Description string
}

// Tool is a named, opaque asynchronous capability invoked by the task
// executor with a parameter mapping. Tools validate their own parameters;
// the core passes them through unchanged.
type Tool interface {
	// Spec returns the specification of the tool.
	Spec() ToolSpec

	// Run executes the tool with the given parameters and returns a textual
	// result. A returned error marks the invoking task as failed.
	Run(ctx context.Context, params map[string]any) (string, error)
}

// noopTool is the designated fallback entry. Unknown tool identifiers resolve
// to it so that the executor's error path is reserved for genuine tool
// failures.
type noopTool struct{}

func (noopTool) Spec() ToolSpec {
	return ToolSpec{Name: "NONE", Description: "No tool needed, standard logic"}
}

func (noopTool) Run(ctx context.Context, params map[string]any) (string, error) {
	return "Processed.", nil
}

// Registry is a static dispatch table from tool identifier to capability.
// It owns no state across calls and is constructed once at startup.
type Registry struct {
	tools    map[string]Tool
	fallback Tool
}

// NewRegistry builds a registry from the given tools. The NONE fallback entry
// is always present; registering a tool named NONE overrides it.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools:    make(map[string]Tool, len(tools)),
		fallback: noopTool{},
	}

	for _, tool := range tools {
		name := strings.ToUpper(tool.Spec().Name)
		if name == "" {
			return nil, goerr.New("tool name is required", goerr.V("spec", tool.Spec()))
		}
		if _, ok := r.tools[name]; ok {
			return nil, goerr.Wrap(ErrToolNameConflict, "duplicate tool name", goerr.V("tool_name", name))
		}
		r.tools[name] = tool
	}

	return r, nil
}

// Lookup resolves a tool identifier, falling back to the NONE entry for
// unknown names. It never fails.
func (r *Registry) Lookup(name string) Tool {
	if tool, ok := r.tools[strings.ToUpper(name)]; ok {
		return tool
	}
	return r.fallback
}

// Names returns the registered tool identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
