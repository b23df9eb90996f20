package orin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/orin-ai/orin"
)

type stubTool struct {
	name    string
	runFunc func(ctx context.Context, params map[string]any) (string, error)
}

func (t *stubTool) Spec() orin.ToolSpec {
	return orin.ToolSpec{Name: t.name, Description: "stub"}
}

func (t *stubTool) Run(ctx context.Context, params map[string]any) (string, error) {
	return t.runFunc(ctx, params)
}

func echoTool(name string) *stubTool {
	return &stubTool{
		name: name,
		runFunc: func(ctx context.Context, params map[string]any) (string, error) {
			return "done: " + name, nil
		},
	}
}

func newTestPlan(tools ...string) *orin.Plan {
	plan := &orin.Plan{ID: "plan-1", Status: orin.PlanPending}
	for i, tool := range tools {
		plan.Tasks = append(plan.Tasks, orin.Task{
			ID:          "plan-1:" + string(rune('1'+i)),
			Description: "step " + tool,
			Tool:        tool,
			Params:      map[string]any{},
			Status:      orin.TaskPending,
		})
	}
	return plan
}

func TestExecutorRunsTasksInOrder(t *testing.T) {
	registry := gt.R1(orin.NewRegistry(echoTool("ALPHA"), echoTool("BETA"))).NoError(t)
	exec := orin.NewExecutor(registry)
	plan := newTestPlan("ALPHA", "BETA")
	ctx := context.Background()

	exec.Advance(ctx, plan)
	gt.Equal(t, plan.Status, orin.PlanInProgress)
	gt.Equal(t, plan.Tasks[0].Status, orin.TaskCompleted)
	gt.Equal(t, plan.Tasks[0].Result, "done: ALPHA")
	gt.Equal(t, plan.Tasks[1].Status, orin.TaskPending)
	gt.Equal(t, plan.Progress, 50)

	exec.Advance(ctx, plan)
	gt.Equal(t, plan.Status, orin.PlanCompleted)
	gt.Equal(t, plan.Tasks[1].Status, orin.TaskCompleted)
	gt.Equal(t, plan.Progress, 100)
}

func TestExecutorFailsFast(t *testing.T) {
	boom := &stubTool{
		name: "BOOM",
		runFunc: func(ctx context.Context, params map[string]any) (string, error) {
			return "", goerr.New("tool exploded")
		},
	}
	registry := gt.R1(orin.NewRegistry(echoTool("ALPHA"), boom)).NoError(t)
	exec := orin.NewExecutor(registry)
	plan := newTestPlan("ALPHA", "BOOM", "ALPHA")
	ctx := context.Background()

	exec.Advance(ctx, plan)
	exec.Advance(ctx, plan)

	gt.Equal(t, plan.Status, orin.PlanFailed)
	gt.Equal(t, plan.Tasks[1].Status, orin.TaskFailed)
	gt.True(t, strings.HasPrefix(plan.Tasks[1].Result, "Error: "))
	gt.Equal(t, plan.Tasks[2].Status, orin.TaskPending)

	// Terminal plans never advance again.
	exec.Advance(ctx, plan)
	gt.Equal(t, plan.Tasks[2].Status, orin.TaskPending)
}

func TestExecutorUnknownToolFallsBack(t *testing.T) {
	registry := gt.R1(orin.NewRegistry()).NoError(t)
	exec := orin.NewExecutor(registry)
	plan := newTestPlan("NO_SUCH_TOOL")

	exec.Advance(context.Background(), plan)

	gt.Equal(t, plan.Tasks[0].Status, orin.TaskCompleted)
	gt.Equal(t, plan.Tasks[0].Result, "Processed.")
	gt.Equal(t, plan.Status, orin.PlanCompleted)
}

func TestExecutorAbort(t *testing.T) {
	registry := gt.R1(orin.NewRegistry(echoTool("ALPHA"))).NoError(t)
	exec := orin.NewExecutor(registry)
	plan := newTestPlan("ALPHA", "ALPHA")
	ctx := context.Background()

	exec.Advance(ctx, plan)
	exec.Abort(plan)

	gt.Equal(t, plan.Status, orin.PlanFailed)
	gt.Equal(t, plan.Tasks[1].Status, orin.TaskPending)

	exec.Advance(ctx, plan)
	gt.Equal(t, plan.Tasks[1].Status, orin.TaskPending)
}

func TestRegistryConflict(t *testing.T) {
	_, err := orin.NewRegistry(echoTool("ALPHA"), echoTool("alpha"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, orin.ErrToolNameConflict))
}

func TestRegistryNames(t *testing.T) {
	registry := gt.R1(orin.NewRegistry(echoTool("BETA"), echoTool("ALPHA"))).NoError(t)
	gt.Equal(t, registry.Names(), []string{"ALPHA", "BETA"})
}
