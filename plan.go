package orin

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a single task. Transitions only move
// forward: PENDING -> IN_PROGRESS -> COMPLETED or FAILED.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
	TaskSkipped    TaskStatus = "SKIPPED"
)

// PlanStatus is the lifecycle state of an action plan.
type PlanStatus string

const (
	PlanPending    PlanStatus = "PENDING"
	PlanInProgress PlanStatus = "IN_PROGRESS"
	PlanCompleted  PlanStatus = "COMPLETED"
	PlanFailed     PlanStatus = "FAILED"
)

// Terminal reports whether the plan can no longer change state.
func (s PlanStatus) Terminal() bool {
	return s == PlanCompleted || s == PlanFailed
}

// Task is one tool invocation inside a plan. It is owned by its parent plan
// and mutated only by the executor.
type Task struct {
	ID          string
	Description string
	Tool        string
	Params      map[string]any
	Status      TaskStatus
	Result      string
}

// Plan is an ordered list of tool invocations compiled from a PLANNER
// thought step. Task order is execution order and is fixed at compile time.
type Plan struct {
	ID       string
	Goal     string
	Tasks    []Task
	Status   PlanStatus
	Progress int
}

// recomputeProgress updates Progress from the completed-task count. Failed
// tasks do not count toward progress.
func (p *Plan) recomputeProgress() {
	if len(p.Tasks) == 0 {
		return
	}
	completed := 0
	for _, t := range p.Tasks {
		if t.Status == TaskCompleted {
			completed++
		}
	}
	p.Progress = int(math.Round(100 * float64(completed) / float64(len(p.Tasks))))
}

const defaultPlanGoal = "Execute complex user request"

// Compile converts a thought process into an executable plan. It re-parses
// the PLANNER step's plan markup for step elements; a missing tool attribute
// defaults to NONE and an unparsable params attribute degrades to an empty
// parameter map. A thought process without a PLANNER step, or whose PLANNER
// step yields zero tasks, compiles to nil: a plan must have at least one task.
func Compile(ctx context.Context, thoughts *ThoughtProcess) *Plan {
	planner := thoughts.PlannerStep()
	if planner == nil {
		return nil
	}

	source := planner.Source
	if source == "" {
		source = planner.Content
	}

	logger := LoggerFromContext(ctx)
	planID := uuid.New().String()

	var tasks []Task
	for i, raw := range parsePlanSteps(source) {
		tool := strings.ToUpper(strings.TrimSpace(raw.tool))
		if tool == "" {
			tool = "NONE"
		}

		params := map[string]any{}
		if raw.params != "" {
			if err := json.Unmarshal([]byte(raw.params), &params); err != nil {
				logger.Warn("failed to parse task params, using empty params",
					"params", raw.params, "error", err)
				params = map[string]any{}
			}
		}

		tasks = append(tasks, Task{
			ID:          fmt.Sprintf("%s:%d", planID, i+1),
			Description: raw.description,
			Tool:        tool,
			Params:      params,
			Status:      TaskPending,
		})
	}

	if len(tasks) == 0 {
		return nil
	}

	return &Plan{
		ID:     planID,
		Goal:   defaultPlanGoal,
		Tasks:  tasks,
		Status: PlanPending,
	}
}

// planStore holds compiled plans keyed by id along with the single current
// plan pointer. At most one plan is active at a time: registering a new plan
// while the current one is still live aborts the old plan first.
type planStore struct {
	mu      sync.Mutex
	plans   map[string]*Plan
	current string
}

func newPlanStore() *planStore {
	return &planStore{plans: make(map[string]*Plan)}
}

// put registers a plan and makes it current. The previous current plan, if
// not yet terminal, is forced to FAILED without running any of its tools.
func (s *planStore) put(plan *Plan) (replaced *Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.plans[s.current]; ok && !prev.Status.Terminal() {
		prev.Status = PlanFailed
		replaced = prev
	}

	s.plans[plan.ID] = plan
	s.current = plan.ID
	return replaced
}

func (s *planStore) get(id string) (*Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[id]
	return plan, ok
}

func (s *planStore) currentPlan() *Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plans[s.current]
}
