package orin

import (
	"fmt"
	"strings"
)

// ThoughtLayer identifies which stage of reasoning a thought step belongs to.
type ThoughtLayer string

const (
	LayerAnalysis ThoughtLayer = "ANALYSIS"
	LayerPlanner  ThoughtLayer = "PLANNER"
	LayerCritique ThoughtLayer = "CRITIQUE"
)

// StepStatus is the lifecycle state of a thought step.
type StepStatus string

const (
	StepPending  StepStatus = "PENDING"
	StepActive   StepStatus = "ACTIVE"
	StepComplete StepStatus = "COMPLETE"
)

// ThoughtStep is one decoded reasoning step. Content holds the human-readable
// text; for the PLANNER layer, Source additionally keeps the verbatim inner
// markup of the plan section so the plan compiler can recover tool names and
// parameters from it.
type ThoughtStep struct {
	ID      string
	Layer   ThoughtLayer
	Content string
	Source  string
	Status  StepStatus
}

// ThoughtProcess is the backend's self-reported reasoning for one turn,
// decoded into ordered steps. Read-only after creation.
type ThoughtProcess struct {
	Mode  ReasoningMode
	Steps []ThoughtStep
}

// PlannerStep returns the PLANNER thought step, or nil if the process has none.
func (p *ThoughtProcess) PlannerStep() *ThoughtStep {
	if p == nil {
		return nil
	}
	for i := range p.Steps {
		if p.Steps[i].Layer == LayerPlanner {
			return &p.Steps[i]
		}
	}
	return nil
}

// extractSection locates the first <tag>…</tag> pair in s and returns the
// inner content. An opening marker without a matching close counts as absent,
// which is what drives the degrade-to-raw behavior of Decode.
func extractSection(s, tag string) (string, bool) {
	open := "<" + tag + ">"
	i := strings.Index(s, open)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(open):]
	j := strings.Index(rest, "</"+tag+">")
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

// removeSection cuts the first <tag>…</tag> pair (markers included) out of s.
func removeSection(s, tag string) string {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"
	i := strings.Index(s, open)
	if i < 0 {
		return s
	}
	j := strings.Index(s[i:], closing)
	if j < 0 {
		return s
	}
	return s[:i] + s[i+j+len(closing):]
}

// rawPlanStep is one <step …>…</step> element lifted out of a plan section.
type rawPlanStep struct {
	tool        string
	params      string
	description string
}

// attrValue scans an attribute region for name=<quote>value<quote>. The plan
// grammar double-quotes tool names and single-quotes the params JSON object
// (the JSON itself contains double quotes).
func attrValue(attrs, name string, quote byte) (string, bool) {
	key := name + "=" + string(quote)
	i := strings.Index(attrs, key)
	if i < 0 {
		return "", false
	}
	rest := attrs[i+len(key):]
	j := strings.IndexByte(rest, quote)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

// parsePlanSteps walks a plan section and collects its step elements in
// source order. Scanning stops at the first unterminated element; whatever
// was parsed before it is kept (best effort, never an error).
func parsePlanSteps(src string) []rawPlanStep {
	var steps []rawPlanStep
	for {
		i := strings.Index(src, "<step")
		if i < 0 {
			return steps
		}
		rest := src[i+len("<step"):]
		if len(rest) == 0 {
			return steps
		}
		// Reject lookalike tags such as <steps>.
		if rest[0] != '>' && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\n' && rest[0] != '\r' {
			src = rest
			continue
		}
		gt := strings.IndexByte(rest, '>')
		if gt < 0 {
			return steps
		}
		attrs := rest[:gt]
		body := rest[gt+1:]
		end := strings.Index(body, "</step>")
		if end < 0 {
			return steps
		}

		step := rawPlanStep{description: strings.TrimSpace(body[:end])}
		if tool, ok := attrValue(attrs, "tool", '"'); ok {
			step.tool = tool
		}
		if params, ok := attrValue(attrs, "params", '\''); ok {
			step.params = params
		}
		steps = append(steps, step)

		src = body[end+len("</step>"):]
	}
}

// Decode parses raw backend output into the final user-visible response and
// an optional thought process. Decoding is best effort: text without a
// complete thought block is returned verbatim with no thoughts.
func Decode(raw string) (string, *ThoughtProcess) {
	inner, ok := extractSection(raw, "thought_process")
	if !ok {
		return raw, nil
	}

	var steps []ThoughtStep
	addStep := func(layer ThoughtLayer, content, source string) {
		steps = append(steps, ThoughtStep{
			ID:      fmt.Sprintf("step_%d", len(steps)+1),
			Layer:   layer,
			Content: content,
			Source:  source,
			Status:  StepComplete,
		})
	}

	// Sections are emitted in the fixed order ANALYSIS, PLANNER, CRITIQUE
	// regardless of where they appear in the source text.
	if analysis, ok := extractSection(inner, "analysis"); ok {
		addStep(LayerAnalysis, strings.TrimSpace(analysis), "")
	}
	if plan, ok := extractSection(inner, "plan"); ok {
		descriptions := make([]string, 0, 4)
		for _, s := range parsePlanSteps(plan) {
			descriptions = append(descriptions, s.description)
		}
		addStep(LayerPlanner, strings.Join(descriptions, "\n"), plan)
	}
	if critique, ok := extractSection(inner, "critique"); ok {
		addStep(LayerCritique, strings.TrimSpace(critique), "")
	}

	final := strings.TrimSpace(removeSection(raw, "thought_process"))
	if response, ok := extractSection(final, "response"); ok {
		final = strings.TrimSpace(response)
	}

	return final, &ThoughtProcess{Mode: ModeDeep, Steps: steps}
}
