package orin

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
)

//go:embed templates/system_prompt.md
var systemPromptTemplate string

//go:embed templates/context_block.md
var contextBlockTemplate string

var (
	systemTmpl  *template.Template
	contextTmpl *template.Template
)

func init() {
	systemTmpl = template.Must(template.New("system").Parse(systemPromptTemplate))
	contextTmpl = template.Must(template.New("context").Parse(contextBlockTemplate))
}

type systemTemplateData struct {
	Tools  []ToolSpec
	Custom string
}

type contextTemplateData struct {
	Intent        Intent
	Sentiment     Sentiment
	Mode          ReasoningMode
	MemoryContext string
	Query         string
}

// buildSystemPrompt renders the system instruction advertising the available
// tools and the thought/plan wire protocol.
func buildSystemPrompt(tools []ToolSpec, custom string) (string, error) {
	var buf bytes.Buffer
	if err := systemTmpl.Execute(&buf, systemTemplateData{Tools: tools, Custom: custom}); err != nil {
		return "", goerr.Wrap(err, "failed to render system prompt")
	}
	return buf.String(), nil
}

// buildTurnPrompt renders the per-turn prompt: the context layer block
// followed by the user query.
func buildTurnPrompt(data contextTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := contextTmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render turn prompt")
	}
	return buf.String(), nil
}
