package tools

import (
	"context"
	"fmt"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/traefik/yaegi/interp"

	"github.com/orin-ai/orin"
)

// Arithmetic only. Anything beyond digits, operators and parentheses is
// rejected before it reaches the interpreter.
var calculatorCharset = regexp.MustCompile(`^[0-9+\-*/%().\s]+$`)

// Calculator evaluates arithmetic expressions.
type Calculator struct{}

// NewCalculator creates a calculator tool.
func NewCalculator() *Calculator {
	return &Calculator{}
}

func (t *Calculator) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "CALCULATOR",
		Description: "Evaluates mathematical expressions",
	}
}

func (t *Calculator) Run(ctx context.Context, params map[string]any) (string, error) {
	expr, err := stringParam(params, "expression")
	if err != nil {
		return "", err
	}
	if !calculatorCharset.MatchString(expr) {
		return "", goerr.Wrap(orin.ErrInvalidParams, "expression contains disallowed characters", goerr.V("expression", expr))
	}

	i := interp.New(interp.Options{})
	v, err := i.Eval(expr)
	if err != nil {
		return "", goerr.Wrap(err, "failed to evaluate expression", goerr.V("expression", expr))
	}

	return fmt.Sprintf("Result: %v", v.Interface()), nil
}
