package orin

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Fixed responses for the two locally recovered failure classes: the safety
// gate and the backend. Neither is surfaced as an error to the caller.
const (
	RejectionResponse = "Input rejected. Security protocol violation detected."
	DegradedResponse  = "Critical failure in reasoning engine. Connection unstable."
)

// Generation parameters for deep-mode turns. Shallow turns use the session
// defaults.
const (
	deepTemperature = 0.7
	deepMaxTokens   = 2000
)

// DefaultRetrievalLimit bounds how many memory records are folded into the
// context block of one turn.
const DefaultRetrievalLimit = 5

// Metric is one interaction outcome record, kept for later analysis.
type Metric struct {
	ID        string
	Timestamp time.Time
	Intent    Intent
	Sentiment Sentiment
	Success   bool
	Engine    string
}

// MetricStore persists interaction metrics.
type MetricStore interface {
	SaveMetric(ctx context.Context, metric Metric) error
}

// Turn is the outcome of processing one user input.
type Turn struct {
	Input    ClassifiedInput
	Mode     ReasoningMode
	Response string
	Thoughts *ThoughtProcess
	PlanID   string
}

type assistantConfig struct {
	logger         *slog.Logger
	tools          []Tool
	records        RecordStore
	metrics        MetricStore
	retrievalLimit int
	customPrompt   string
}

// Option configures an Assistant.
type Option func(*assistantConfig)

// WithLogger sets the logger for the assistant. Default is a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *assistantConfig) {
		c.logger = logger
	}
}

// WithTools registers tools in the assistant's registry.
func WithTools(tools ...Tool) Option {
	return func(c *assistantConfig) {
		c.tools = append(c.tools, tools...)
	}
}

// WithRecordStore sets the episodic record store used for memory retrieval
// and turn logging. Without it the assistant runs memoryless.
func WithRecordStore(store RecordStore) Option {
	return func(c *assistantConfig) {
		c.records = store
	}
}

// WithMetricStore sets the store for interaction metrics.
func WithMetricStore(store MetricStore) Option {
	return func(c *assistantConfig) {
		c.metrics = store
	}
}

// WithRetrievalLimit bounds the number of memory records per turn.
func WithRetrievalLimit(limit int) Option {
	return func(c *assistantConfig) {
		c.retrievalLimit = limit
	}
}

// WithCustomInstructions appends user-provided overrides to the system
// prompt.
func WithCustomInstructions(custom string) Option {
	return func(c *assistantConfig) {
		c.customPrompt = custom
	}
}

// Assistant is the core structure of the package. It runs the full turn
// pipeline: classify, select reasoning depth, retrieve memory, call the
// backend, decode the response and compile plans for the executor.
type Assistant struct {
	llm LLMClient

	assistantConfig

	registry     *Registry
	executor     *Executor
	retriever    *Retriever
	plans        *planStore
	systemPrompt string

	mu      sync.Mutex
	session Session
}

// New creates a new assistant for the given backend client.
func New(llmClient LLMClient, options ...Option) (*Assistant, error) {
	cfg := assistantConfig{
		logger:         slog.New(slog.DiscardHandler),
		retrievalLimit: DefaultRetrievalLimit,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	registry, err := NewRegistry(cfg.tools...)
	if err != nil {
		return nil, err
	}

	specs := make([]ToolSpec, 0, len(cfg.tools))
	for _, tool := range cfg.tools {
		specs = append(specs, tool.Spec())
	}
	systemPrompt, err := buildSystemPrompt(specs, cfg.customPrompt)
	if err != nil {
		return nil, err
	}

	a := &Assistant{
		llm:             llmClient,
		assistantConfig: cfg,
		registry:        registry,
		executor:        NewExecutor(registry),
		retriever:       NewRetriever(cfg.records),
		plans:           newPlanStore(),
		systemPrompt:    systemPrompt,
	}

	a.logger.Info("assistant created",
		"tools_count", len(cfg.tools),
		"has_record_store", cfg.records != nil,
		"has_metric_store", cfg.metrics != nil,
		"retrieval_limit", cfg.retrievalLimit,
	)

	return a, nil
}

// Registry returns the assistant's tool registry.
func (a *Assistant) Registry() *Registry {
	return a.registry
}

type turnConfig struct {
	hasAttachments bool
}

// TurnOption configures a single Respond call.
type TurnOption func(*turnConfig)

// WithAttachments marks the turn as carrying attachments, which forces the
// ANALYSIS intent.
func WithAttachments() TurnOption {
	return func(c *turnConfig) {
		c.hasAttachments = true
	}
}

// Respond processes one user turn end to end and returns the outcome. All
// collaborator failures below the turn boundary degrade the turn instead of
// failing it: the only error returns are internal invariant breaks.
func (a *Assistant) Respond(ctx context.Context, input string, options ...TurnOption) (*Turn, error) {
	var tc turnConfig
	for _, opt := range options {
		opt(&tc)
	}

	logger := a.logger.With("orin.turn_id", uuid.New().String())
	ctx = ctxWithLogger(ctx, logger)

	in := Classify(input, tc.hasAttachments)
	mode := SelectMode(in)
	turn := &Turn{Input: in, Mode: mode}

	logger.Info("turn classified",
		"intent", in.Intent,
		"sentiment", in.Sentiment,
		"mode", mode,
		"safe", in.Safe,
	)

	if !in.Safe {
		turn.Response = RejectionResponse
		a.saveMetric(ctx, in, false, "SAFETY_GATE")
		return turn, nil
	}

	a.appendRecord(ctx, "user", in.OriginalText)

	memory := a.retriever.Retrieve(ctx, in.NormalizedText, a.retrievalLimit)

	prompt, err := buildTurnPrompt(contextTemplateData{
		Intent:        in.Intent,
		Sentiment:     in.Sentiment,
		Mode:          mode,
		MemoryContext: strings.Join(memory, "\n"),
		Query:         in.NormalizedText,
	})
	if err != nil {
		return nil, err
	}

	raw := a.generate(ctx, prompt, mode)
	final, thoughts := Decode(raw)
	turn.Response = final
	turn.Thoughts = thoughts

	engine := "CHAT_ENGINE"
	if mode == ModeDeep && thoughts != nil {
		if plan := Compile(ctx, thoughts); plan != nil {
			plan.Goal = in.NormalizedText
			// The compiler hands back a PENDING plan; starting execution is
			// the caller's job.
			plan.Status = PlanInProgress
			if replaced := a.plans.put(plan); replaced != nil {
				logger.Warn("active plan replaced and aborted", "aborted_plan_id", replaced.ID)
			}
			turn.PlanID = plan.ID
			engine = "COMPLEX_TASK"
			logger.Info("plan compiled", "plan_id", plan.ID, "tasks_count", len(plan.Tasks))
		}
	}

	a.appendRecord(ctx, "assistant", final)
	a.saveMetric(ctx, in, true, engine)

	return turn, nil
}

// generate calls the backend and converts any failure into the fixed
// degraded response. Nothing at this boundary is allowed to propagate.
func (a *Assistant) generate(ctx context.Context, prompt string, mode ReasoningMode) string {
	logger := LoggerFromContext(ctx)

	session, err := a.sessionFor(ctx)
	if err != nil {
		logger.Error("backend session unavailable", "error", err)
		return DegradedResponse
	}

	var opts []GenerateOption
	if mode == ModeDeep {
		opts = append(opts, WithTemperature(deepTemperature), WithMaxTokens(deepMaxTokens))
	}

	resp, err := session.GenerateContent(ctx, prompt, opts...)
	if err != nil {
		logger.Error("backend generation failed", "error", err)
		return DegradedResponse
	}
	if resp.Text == "" {
		return DegradedResponse
	}
	return resp.Text
}

func (a *Assistant) sessionFor(ctx context.Context) (Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		return a.session, nil
	}

	session, err := a.llm.NewSession(ctx, WithSessionSystemPrompt(a.systemPrompt))
	if err != nil {
		return nil, err
	}
	a.session = session
	return session, nil
}

func (a *Assistant) appendRecord(ctx context.Context, role, content string) {
	if a.records == nil {
		return
	}
	record := MemoryRecord{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Role:      role,
		Content:   "[" + strings.ToUpper(role) + "] " + content,
	}
	if err := a.records.AppendRecord(ctx, record); err != nil {
		LoggerFromContext(ctx).Warn("failed to append episodic record", "error", err)
	}
}

func (a *Assistant) saveMetric(ctx context.Context, in ClassifiedInput, success bool, engine string) {
	if a.metrics == nil {
		return
	}
	metric := Metric{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Intent:    in.Intent,
		Sentiment: in.Sentiment,
		Success:   success,
		Engine:    engine,
	}
	if err := a.metrics.SaveMetric(ctx, metric); err != nil {
		LoggerFromContext(ctx).Warn("failed to save interaction metric", "error", err)
	}
}

// CurrentPlan returns the active plan, or nil when none has been compiled.
func (a *Assistant) CurrentPlan() *Plan {
	return a.plans.currentPlan()
}

// PlanByID looks up a plan in the plan repository.
func (a *Assistant) PlanByID(id string) (*Plan, bool) {
	return a.plans.get(id)
}

// AdvancePlan runs one execution step of the current plan. It is meant to be
// invoked on a fixed cadence by the host; execution pauses whenever the host
// stops calling it.
func (a *Assistant) AdvancePlan(ctx context.Context) (*Plan, error) {
	plan := a.plans.currentPlan()
	if plan == nil {
		return nil, ErrNoActivePlan
	}
	ctx = ctxWithLogger(ctx, a.logger)
	a.executor.Advance(ctx, plan)
	return plan, nil
}

// AbortPlan forces the identified plan to a terminal FAILED state without
// invoking any remaining tools.
func (a *Assistant) AbortPlan(id string) error {
	plan, ok := a.plans.get(id)
	if !ok {
		return ErrPlanNotFound
	}
	if plan.Status.Terminal() {
		return ErrPlanTerminal
	}
	a.executor.Abort(plan)
	return nil
}
