package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/orin-ai/orin"
)

// Files creates text files inside a sandbox directory. Filenames are reduced
// to their base name so plan parameters cannot escape the sandbox.
type Files struct {
	baseDir string
}

// NewFiles creates a file tool writing under baseDir.
func NewFiles(baseDir string) *Files {
	return &Files{baseDir: baseDir}
}

func (t *Files) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "FILES",
		Description: "Creates files",
	}
}

func (t *Files) Run(ctx context.Context, params map[string]any) (string, error) {
	if optionalString(params, "action", "") != "create" {
		return "", goerr.Wrap(orin.ErrInvalidParams, "invalid file action")
	}

	filename, err := stringParam(params, "filename")
	if err != nil {
		return "", err
	}
	content, err := stringParam(params, "content")
	if err != nil {
		return "", err
	}

	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		return "", goerr.Wrap(orin.ErrInvalidParams, "invalid filename", goerr.V("filename", filename))
	}

	if err := os.MkdirAll(t.baseDir, 0o755); err != nil {
		return "", goerr.Wrap(err, "failed to prepare sandbox directory", goerr.V("dir", t.baseDir))
	}
	path := filepath.Join(t.baseDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", goerr.Wrap(err, "failed to write file", goerr.V("path", path))
	}

	return fmt.Sprintf("File %q created.", name), nil
}
