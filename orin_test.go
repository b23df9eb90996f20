package orin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/orin-ai/orin"
	"github.com/orin-ai/orin/mock"
)

func newMockLLM(generate func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error)) *mock.LLMClientMock {
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...orin.SessionOption) (orin.Session, error) {
			return &mock.SessionMock{GenerateContentFunc: generate}, nil
		},
	}
}

func TestRespondShallowChat(t *testing.T) {
	var gotPrompt string
	llmClient := newMockLLM(func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
		gotPrompt = prompt
		return &orin.Response{Text: "Hello back."}, nil
	})

	assistant := gt.R1(orin.New(llmClient)).NoError(t)
	turn := gt.R1(assistant.Respond(context.Background(), "hey there")).NoError(t)

	gt.Equal(t, turn.Mode, orin.ModeShallow)
	gt.Equal(t, turn.Response, "Hello back.")
	gt.Nil(t, turn.Thoughts)
	gt.Equal(t, turn.PlanID, "")
	gt.True(t, strings.Contains(gotPrompt, "USER QUERY: hey there"))
	gt.True(t, strings.Contains(gotPrompt, "INTENT: CHAT"))
}

func TestRespondSessionGetsSystemPrompt(t *testing.T) {
	var systemPrompt string
	llmClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...orin.SessionOption) (orin.Session, error) {
			cfg := orin.NewSessionConfig(options...)
			systemPrompt = cfg.SystemPrompt()
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
					return &orin.Response{Text: "ok"}, nil
				},
			}, nil
		},
	}

	assistant := gt.R1(orin.New(llmClient,
		orin.WithTools(echoTool("SEARCH")),
		orin.WithCustomInstructions("Answer in haiku."),
	)).NoError(t)
	gt.R1(assistant.Respond(context.Background(), "hi")).NoError(t)

	gt.True(t, strings.Contains(systemPrompt, "ORIN"))
	gt.True(t, strings.Contains(systemPrompt, `"SEARCH"`))
	gt.True(t, strings.Contains(systemPrompt, `"NONE"`))
	gt.True(t, strings.Contains(systemPrompt, "Answer in haiku."))
}

func TestRespondDeepTurnCompilesPlan(t *testing.T) {
	calc := &stubTool{
		name: "CALCULATOR",
		runFunc: func(ctx context.Context, params map[string]any) (string, error) {
			gt.Equal(t, params["expression"], any("2+2"))
			return "Result: 4", nil
		},
	}
	archive := echoTool("MEMORY")

	var gotOptions []orin.GenerateOption
	llmClient := newMockLLM(func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
		gotOptions = options
		return &orin.Response{Text: planMarkup}, nil
	})

	assistant := gt.R1(orin.New(llmClient, orin.WithTools(calc, archive))).NoError(t)
	ctx := context.Background()

	turn := gt.R1(assistant.Respond(ctx, "analyze this system and calculate the load")).NoError(t)

	gt.Equal(t, turn.Mode, orin.ModeDeep)
	gt.Equal(t, turn.Response, "The sum is 4 and has been archived.")
	gt.NotEqual(t, turn.PlanID, "")

	// Deep turns override the session generation defaults.
	cfg := orin.NewGenerateConfig(gotOptions...)
	gt.Equal(t, cfg.Temperature(orin.DefaultTemperature), 0.7)
	gt.Equal(t, cfg.MaxTokens(orin.DefaultMaxTokens), 2000)

	plan := assistant.CurrentPlan()
	gt.NotNil(t, plan)
	gt.Equal(t, plan.ID, turn.PlanID)
	gt.Equal(t, plan.Goal, "analyze this system and calculate the load")
	gt.Equal(t, plan.Status, orin.PlanInProgress)
	gt.A(t, plan.Tasks).Length(2)

	gt.R1(assistant.AdvancePlan(ctx)).NoError(t)
	gt.R1(assistant.AdvancePlan(ctx)).NoError(t)

	gt.Equal(t, plan.Status, orin.PlanCompleted)
	gt.Equal(t, plan.Progress, 100)
	gt.Equal(t, plan.Tasks[0].Result, "Result: 4")
}

func TestRespondNewPlanReplacesActiveOne(t *testing.T) {
	llmClient := newMockLLM(func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
		return &orin.Response{Text: planMarkup}, nil
	})

	assistant := gt.R1(orin.New(llmClient)).NoError(t)
	ctx := context.Background()

	first := gt.R1(assistant.Respond(ctx, "analyze the logs and calculate totals")).NoError(t)
	second := gt.R1(assistant.Respond(ctx, "analyze the report and calculate costs")).NoError(t)

	firstPlan, ok := assistant.PlanByID(first.PlanID)
	gt.True(t, ok)
	gt.Equal(t, firstPlan.Status, orin.PlanFailed)
	gt.Equal(t, firstPlan.Tasks[0].Status, orin.TaskPending)

	gt.Equal(t, assistant.CurrentPlan().ID, second.PlanID)
}

func TestRespondUnsafeInputSkipsBackend(t *testing.T) {
	backendCalled := false
	llmClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...orin.SessionOption) (orin.Session, error) {
			backendCalled = true
			return nil, goerr.New("should not be reached")
		},
	}

	assistant := gt.R1(orin.New(llmClient)).NoError(t)
	turn := gt.R1(assistant.Respond(context.Background(), `<script>alert(1)</script>`)).NoError(t)

	gt.False(t, backendCalled)
	gt.Equal(t, turn.Response, orin.RejectionResponse)
	gt.False(t, turn.Input.Safe)
	gt.Equal(t, turn.Input.NormalizedText, orin.RedactionMarker)
}

func TestRespondBackendFailureDegrades(t *testing.T) {
	llmClient := newMockLLM(func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
		return nil, goerr.New("connection reset")
	})

	assistant := gt.R1(orin.New(llmClient)).NoError(t)
	turn := gt.R1(assistant.Respond(context.Background(), "hello")).NoError(t)

	gt.Equal(t, turn.Response, orin.DegradedResponse)
	gt.Nil(t, turn.Thoughts)
}

func TestRespondAppendsRecords(t *testing.T) {
	var appended []orin.MemoryRecord
	store := &mock.RecordStoreMock{
		AppendRecordFunc: func(ctx context.Context, record orin.MemoryRecord) error {
			appended = append(appended, record)
			return nil
		},
	}
	llmClient := newMockLLM(func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
		return &orin.Response{Text: "noted"}, nil
	})

	assistant := gt.R1(orin.New(llmClient, orin.WithRecordStore(store))).NoError(t)
	gt.R1(assistant.Respond(context.Background(), "remember the milk")).NoError(t)

	gt.A(t, appended).Length(2)
	gt.True(t, strings.HasPrefix(appended[0].Content, "[USER] "))
	gt.True(t, strings.HasPrefix(appended[1].Content, "[ASSISTANT] "))
}

func TestRespondSavesMetrics(t *testing.T) {
	var metrics []orin.Metric
	store := &mock.MetricStoreMock{
		SaveMetricFunc: func(ctx context.Context, metric orin.Metric) error {
			metrics = append(metrics, metric)
			return nil
		},
	}
	llmClient := newMockLLM(func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
		return &orin.Response{Text: "sure"}, nil
	})

	assistant := gt.R1(orin.New(llmClient, orin.WithMetricStore(store))).NoError(t)
	gt.R1(assistant.Respond(context.Background(), "What time is it?")).NoError(t)

	gt.A(t, metrics).Length(1)
	gt.Equal(t, metrics[0].Intent, orin.IntentQuery)
	gt.True(t, metrics[0].Success)
	gt.Equal(t, metrics[0].Engine, "CHAT_ENGINE")
}

func TestAdvancePlanWithoutActivePlan(t *testing.T) {
	llmClient := newMockLLM(func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
		return &orin.Response{Text: "hi"}, nil
	})

	assistant := gt.R1(orin.New(llmClient)).NoError(t)
	_, err := assistant.AdvancePlan(context.Background())
	gt.True(t, errors.Is(err, orin.ErrNoActivePlan))
}

func TestAbortPlan(t *testing.T) {
	llmClient := newMockLLM(func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
		return &orin.Response{Text: planMarkup}, nil
	})

	assistant := gt.R1(orin.New(llmClient)).NoError(t)
	ctx := context.Background()

	turn := gt.R1(assistant.Respond(ctx, "analyze everything and calculate it all")).NoError(t)
	gt.NoError(t, assistant.AbortPlan(turn.PlanID))

	plan, ok := assistant.PlanByID(turn.PlanID)
	gt.True(t, ok)
	gt.Equal(t, plan.Status, orin.PlanFailed)

	gt.True(t, errors.Is(assistant.AbortPlan(turn.PlanID), orin.ErrPlanTerminal))
	gt.True(t, errors.Is(assistant.AbortPlan("missing"), orin.ErrPlanNotFound))
}
