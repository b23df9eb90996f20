package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/orin-ai/orin"
	"github.com/orin-ai/orin/llm/claude"
	"github.com/orin-ai/orin/llm/gemini"
	"github.com/orin-ai/orin/llm/openai"
	"github.com/orin-ai/orin/store/sqlite"
	"github.com/orin-ai/orin/tools"
)

var (
	chatProvider   string
	chatModel      string
	chatDBPath     string
	chatSandbox    string
	chatCustom     string
	chatLogLevel   string
	chatTickMillis int
)

// planTick is how often the REPL advances an active plan. One task runs per
// tick.
const defaultPlanTickMillis = 750

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatProvider, "provider", "gemini", "LLM backend: gemini, openai or claude")
	chatCmd.Flags().StringVar(&chatModel, "model", "", "model name (backend default when empty)")
	chatCmd.Flags().StringVar(&chatDBPath, "db", defaultDBPath(), "SQLite database path")
	chatCmd.Flags().StringVar(&chatSandbox, "sandbox", defaultSandboxDir(), "directory for files created by tools")
	chatCmd.Flags().StringVar(&chatCustom, "instructions", "", "extra system prompt instructions")
	chatCmd.Flags().StringVar(&chatLogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	chatCmd.Flags().IntVar(&chatTickMillis, "tick", defaultPlanTickMillis, "plan execution tick in milliseconds")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "orin.db"
	}
	return home + "/.orin/orin.db"
}

func defaultSandboxDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "orin-files"
	}
	return home + "/.orin/files"
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(chatLogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newLLMClient(ctx context.Context) (orin.LLMClient, error) {
	switch strings.ToLower(chatProvider) {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		var opts []gemini.Option
		if chatModel != "" {
			opts = append(opts, gemini.WithModel(chatModel))
		}
		return gemini.New(ctx, apiKey, opts...)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		var opts []openai.Option
		if chatModel != "" {
			opts = append(opts, openai.WithModel(chatModel))
		}
		return openai.New(ctx, apiKey, opts...)
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		var opts []claude.Option
		if chatModel != "" {
			opts = append(opts, claude.WithModel(anthropic.Model(chatModel)))
		}
		return claude.New(ctx, apiKey, opts...)
	default:
		return nil, goerr.New("unknown provider", goerr.V("provider", chatProvider))
	}
}

func runChat(ctx context.Context) error {
	logger := newLogger()

	store, err := sqlite.New(chatDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	llmClient, err := newLLMClient(ctx)
	if err != nil {
		return err
	}

	notify := func(label string) {
		fmt.Printf("\n[ALERT] %s\n> ", label)
	}

	assistant, err := orin.New(llmClient,
		orin.WithLogger(logger),
		orin.WithRecordStore(store),
		orin.WithMetricStore(store),
		orin.WithCustomInstructions(chatCustom),
		orin.WithTools(
			tools.NewCalculator(),
			tools.NewSearch(),
			tools.NewSystem(),
			tools.NewMemory(store),
			tools.NewClock(notify),
			tools.NewFiles(chatSandbox),
			tools.NewScript(),
			tools.NewWeather(),
			tools.NewMusic(nil),
			tools.NewComm(),
		),
	)
	if err != nil {
		return err
	}

	fmt.Println("orin online. Type your request, or 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		turn, err := assistant.Respond(ctx, input)
		if err != nil {
			return err
		}

		fmt.Println(turn.Response)

		if turn.PlanID != "" {
			drivePlan(ctx, assistant)
		}
	}

	return scanner.Err()
}

// drivePlan advances the active plan on a fixed cadence until it reaches a
// terminal state, reporting each task outcome.
func drivePlan(ctx context.Context, assistant *orin.Assistant) {
	ticker := time.NewTicker(time.Duration(chatTickMillis) * time.Millisecond)
	defer ticker.Stop()

	seen := make(map[string]orin.TaskStatus)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		plan, err := assistant.AdvancePlan(ctx)
		if err != nil {
			return
		}

		for _, task := range plan.Tasks {
			if seen[task.ID] == task.Status {
				continue
			}
			seen[task.ID] = task.Status
			switch task.Status {
			case orin.TaskCompleted:
				fmt.Printf("  [%s] %s -> %s\n", task.Tool, task.Description, task.Result)
			case orin.TaskFailed:
				fmt.Printf("  [%s] %s -> %s\n", task.Tool, task.Description, task.Result)
			}
		}

		if plan.Status.Terminal() {
			fmt.Printf("Plan %s: %s (%d%%)\n", plan.ID, plan.Status, plan.Progress)
			return
		}
	}
}
