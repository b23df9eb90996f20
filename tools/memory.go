package tools

import (
	"context"
	"fmt"

	"github.com/orin-ai/orin"
)

// ArtifactStore persists content archived through the memory tool.
type ArtifactStore interface {
	SaveArtifact(ctx context.Context, content string) error
}

// Memory archives content to long-term storage.
type Memory struct {
	store ArtifactStore
}

// NewMemory creates a memory archival tool backed by the given store. A nil
// store is allowed; archival then only acknowledges.
func NewMemory(store ArtifactStore) *Memory {
	return &Memory{store: store}
}

func (t *Memory) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "MEMORY",
		Description: "Saves data to long-term storage",
	}
}

func (t *Memory) Run(ctx context.Context, params map[string]any) (string, error) {
	content, err := stringParam(params, "content")
	if err != nil {
		return "", err
	}

	if t.store != nil {
		if err := t.store.SaveArtifact(ctx, content); err != nil {
			return "", err
		}
	}

	preview := content
	if len(preview) > 20 {
		preview = preview[:20]
	}
	return fmt.Sprintf(`[MEMORY_WRITE] Content archived: "%s..."`, preview), nil
}
