package tools

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"

	"github.com/m-mizutani/goerr/v2"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/orin-ai/orin"
)

// Stdlib packages a script may import. Filesystem, network and process
// control stay out.
var scriptAllowedImports = map[string]bool{
	"strings":         true,
	"strconv":         true,
	"fmt":             true,
	"math":            true,
	"regexp":          true,
	"encoding/json":   true,
	"encoding/base64": true,
	"time":            true,
	"sort":            true,
	"bytes":           true,
	"unicode":         true,
}

// Script evaluates Go snippets in an interpreted sandbox.
type Script struct{}

// NewScript creates a script evaluation tool.
func NewScript() *Script {
	return &Script{}
}

func (t *Script) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "SCRIPT",
		Description: "Executes Go code snippets",
	}
}

func (t *Script) Run(ctx context.Context, params map[string]any) (string, error) {
	code, err := stringParam(params, "code")
	if err != nil {
		return "", err
	}
	if err := validateImports(code); err != nil {
		return "", err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return "", goerr.Wrap(err, "failed to load interpreter symbols")
	}

	v, err := i.EvalWithContext(ctx, code)
	if err != nil {
		return "", goerr.Wrap(err, "script evaluation failed")
	}
	if !v.IsValid() {
		return "Script executed successfully.", nil
	}
	return fmt.Sprintf("%v", v.Interface()), nil
}

// validateImports rejects snippets importing packages outside the allowlist
// before the interpreter ever sees them.
func validateImports(code string) error {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "script.go", "package main\n"+code, parser.ImportsOnly)
	if err != nil {
		// Bare expressions and statement snippets carry no import clause.
		return nil
	}
	for _, imp := range f.Imports {
		path := imp.Path.Value
		path = path[1 : len(path)-1]
		if !scriptAllowedImports[path] {
			return goerr.Wrap(orin.ErrInvalidParams, "import not allowed in scripts", goerr.V("import", path))
		}
	}
	return nil
}
