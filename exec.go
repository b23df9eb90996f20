package orin

import (
	"context"
	"fmt"
)

// Executor advances plans one task at a time against a tool registry. It is
// designed to be driven on a fixed cadence by the host rather than run to
// completion, so the host can interleave other work and stop between steps.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor bound to a tool registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Advance executes exactly one pending task of the plan, in strict list
// order, and recomputes plan status and progress. Calling Advance on a
// terminal plan is a no-op. Tool errors are recorded on the task and fail
// the plan; they are never returned to the caller.
func (e *Executor) Advance(ctx context.Context, plan *Plan) {
	if plan == nil || plan.Status.Terminal() {
		return
	}
	logger := LoggerFromContext(ctx)

	next := -1
	for i := range plan.Tasks {
		if plan.Tasks[i].Status == TaskPending {
			next = i
			break
		}
	}
	if next < 0 {
		plan.Status = PlanCompleted
		plan.Progress = 100
		return
	}

	task := &plan.Tasks[next]
	task.Status = TaskInProgress
	plan.Status = PlanInProgress

	tool := e.registry.Lookup(task.Tool)
	logger.Info("executing task",
		"plan_id", plan.ID,
		"task_id", task.ID,
		"tool", tool.Spec().Name,
	)

	result, err := tool.Run(ctx, task.Params)
	if err != nil {
		task.Status = TaskFailed
		task.Result = fmt.Sprintf("Error: %v", err)
		// Fail fast: remaining tasks stay PENDING and are never executed.
		plan.Status = PlanFailed
		plan.recomputeProgress()
		logger.Warn("task failed", "plan_id", plan.ID, "task_id", task.ID, "error", err)
		return
	}

	task.Status = TaskCompleted
	task.Result = result
	plan.recomputeProgress()

	if plan.Progress == 100 {
		plan.Status = PlanCompleted
		logger.Info("plan completed", "plan_id", plan.ID)
	}
}

// Abort forces the plan to a terminal FAILED state without invoking any
// remaining tools. Pending tasks are left untouched.
func (e *Executor) Abort(plan *Plan) {
	if plan == nil || plan.Status.Terminal() {
		return
	}
	plan.Status = PlanFailed
}
