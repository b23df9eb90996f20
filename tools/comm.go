package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/orin-ai/orin"
)

// Comm queues outbound SMS and email messages. Delivery is simulated; the
// message is logged and acknowledged with its payload size.
type Comm struct{}

// NewComm creates a communications tool.
func NewComm() *Comm {
	return &Comm{}
}

func (t *Comm) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "COMM",
		Description: "SMS/Email tools",
	}
}

func (t *Comm) Run(ctx context.Context, params map[string]any) (string, error) {
	kind, err := stringParam(params, "type")
	if err != nil {
		return "", err
	}
	kind = strings.ToUpper(kind)
	if kind != "SMS" && kind != "EMAIL" {
		return "", goerr.Wrap(orin.ErrInvalidParams, "unknown comm type", goerr.V("type", kind))
	}

	recipient, err := stringParam(params, "recipient")
	if err != nil {
		return "", err
	}
	content := optionalString(params, "content", "")

	return fmt.Sprintf("[SIMULATION] %s queued for %s. Content payload size: %d bytes.", kind, recipient, len(content)), nil
}
