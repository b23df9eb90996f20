package orin_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/orin-ai/orin"
)

func compileFromMarkup(t *testing.T, raw string) *orin.Plan {
	t.Helper()
	_, thoughts := orin.Decode(raw)
	gt.NotNil(t, thoughts)
	return orin.Compile(context.Background(), thoughts)
}

func TestCompile(t *testing.T) {
	plan := compileFromMarkup(t, planMarkup)

	gt.NotNil(t, plan)
	gt.Equal(t, plan.Status, orin.PlanPending)
	gt.Equal(t, plan.Progress, 0)
	gt.A(t, plan.Tasks).Length(2)

	first := plan.Tasks[0]
	gt.Equal(t, first.ID, plan.ID+":1")
	gt.Equal(t, first.Tool, "CALCULATOR")
	gt.Equal(t, first.Description, "Compute the sum")
	gt.Equal(t, first.Status, orin.TaskPending)
	gt.Equal(t, first.Params["expression"], any("2+2"))

	second := plan.Tasks[1]
	gt.Equal(t, second.ID, plan.ID+":2")
	gt.Equal(t, second.Tool, "MEMORY")
}

func TestCompileToolDefaultsToNone(t *testing.T) {
	raw := `<thought_process><plan><step>just think</step></plan></thought_process>ok`
	plan := compileFromMarkup(t, raw)

	gt.A(t, plan.Tasks).Length(1)
	gt.Equal(t, plan.Tasks[0].Tool, "NONE")
}

func TestCompileToolNameIsUppercased(t *testing.T) {
	raw := `<thought_process><plan><step tool="calculator">count</step></plan></thought_process>ok`
	plan := compileFromMarkup(t, raw)

	gt.Equal(t, plan.Tasks[0].Tool, "CALCULATOR")
}

func TestCompileBadParamsDegradeToEmpty(t *testing.T) {
	raw := `<thought_process><plan><step tool="SEARCH" params='{broken'>look it up</step></plan></thought_process>ok`
	plan := compileFromMarkup(t, raw)

	gt.A(t, plan.Tasks).Length(1)
	gt.NotNil(t, plan.Tasks[0].Params)
	gt.Equal(t, len(plan.Tasks[0].Params), 0)
}

func TestCompileWithoutPlannerStep(t *testing.T) {
	raw := `<thought_process><analysis>no plan here</analysis></thought_process>ok`
	plan := compileFromMarkup(t, raw)
	gt.Nil(t, plan)
}

func TestCompileEmptyPlanSection(t *testing.T) {
	raw := `<thought_process><plan>   </plan></thought_process>ok`
	plan := compileFromMarkup(t, raw)
	gt.Nil(t, plan)
}

func TestCompileKeepsSourceOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<thought_process><plan>")
	sb.WriteString(`<step tool="SEARCH">first</step>`)
	sb.WriteString(`<step tool="MEMORY">second</step>`)
	sb.WriteString(`<step tool="COMM">third</step>`)
	sb.WriteString("</plan></thought_process>ok")

	plan := compileFromMarkup(t, sb.String())
	gt.A(t, plan.Tasks).Length(3)
	gt.Equal(t, plan.Tasks[0].Description, "first")
	gt.Equal(t, plan.Tasks[1].Description, "second")
	gt.Equal(t, plan.Tasks[2].Description, "third")
}
