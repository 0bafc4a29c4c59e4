package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/wintermute/cmd/wintermute/internal"
	"github.com/zero-day-ai/wintermute/internal/agent"
	"github.com/zero-day-ai/wintermute/internal/config"
	"github.com/zero-day-ai/wintermute/internal/engine"
	"github.com/zero-day-ai/wintermute/internal/llm"
	"github.com/zero-day-ai/wintermute/internal/memory"
	"github.com/zero-day-ai/wintermute/internal/memory/embedder"
	"github.com/zero-day-ai/wintermute/internal/memory/vector"
	"github.com/zero-day-ai/wintermute/internal/observability"
	"github.com/zero-day-ai/wintermute/internal/task"
	"github.com/zero-day-ai/wintermute/internal/thought"
	"github.com/zero-day-ai/wintermute/internal/types"
)

var runFlags struct {
	objective   string
	initialTask string
	join        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent loop against an objective",
	Long: `Run seeds the task queue with the initial task and iterates until
every thought in the tree has been explored: pop a task, execute it
against the language model with related prior results as context,
persist the result to semantic memory, and expand follow-up tasks.

With --join the process attaches to a run already in progress on a
shared SQLite task store and leaves seeding and prioritization to the
peers that own the queue.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.objective, "objective", "", "Objective to work toward (overrides config)")
	runCmd.Flags().StringVar(&runFlags.initialTask, "initial-task", "", "Task seeding the run (overrides config)")
	runCmd.Flags().BoolVar(&runFlags.join, "join", false, "Join a run already in progress on a shared task store")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(globalFlags)
	if err != nil {
		return err
	}

	if runFlags.objective != "" {
		cfg.Objective = runFlags.objective
	}
	if runFlags.initialTask != "" {
		cfg.InitialTask = runFlags.initialTask
	}
	if runFlags.join {
		cfg.JoinExisting = true
	}

	// Flag overrides can invalidate combinations the file alone allowed,
	// e.g. --join with an in-process task store.
	if err := config.NewValidator().Validate(cfg); err != nil {
		return err
	}
	if cfg.Objective == "" {
		return internal.NewCLIError(internal.ExitConfigError,
			"an objective is required (set --objective or objective in the config file)")
	}

	level := cfg.Logging.Level
	if globalFlags.IsVerbose() {
		level = "debug"
	} else if globalFlags.IsQuiet() {
		level = "error"
	}
	runID := types.NewRunID()
	handler := observability.NewHandler(os.Stderr, cfg.Logging.Format, level)
	logger := observability.NewTracedLogger(handler, runID.String(), cfg.AgentName)

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRate:  cfg.Tracing.SampleRate,
		ServiceName: cfg.AgentName,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownTracing(shutdownCtx, tp); err != nil {
			logger.Warn(shutdownCtx, "failed to shut down tracing", "error", err)
		}
	}()

	completer, err := llm.NewCompleter(cfg.LLM, logger.Slog())
	if err != nil {
		return err
	}

	emb, err := embedder.NewEmbedder(cfg.Memory.Embedder)
	if err != nil {
		return err
	}

	vecStore, err := openVectorStore(cfg)
	if err != nil {
		return err
	}
	defer vecStore.Close()

	namespace := memory.Namespace(cfg.Objective, cfg.Memory.Store.Table)
	results := memory.NewSemanticMemory(emb, vecStore, namespace)

	taskStore, err := openTaskStore(cfg)
	if err != nil {
		return err
	}
	defer taskStore.Close()

	policy, err := agent.NewCreationPolicy(cfg.Creation.Policy, cfg.Creation.PlaybookPath, completer)
	if err != nil {
		return err
	}

	executor := agent.NewExecutionAgent(completer, results, cfg.Engine.RecallTopK, logger.Slog())

	var prioritizer engine.Prioritizer
	if !cfg.JoinExisting {
		prioritizer = agent.NewPrioritizationAgent(completer, taskStore, logger.Slog())
	}

	suppress := globalFlags.GetOutputFormat() == internal.FormatJSON || globalFlags.IsQuiet()
	reporter := engine.NewConsoleReporter(os.Stdout, cfg.AgentName, suppress)
	reporter.Configuration(cfg.LLM.Model, runMode(cfg))
	reporter.Objective(cfg.Objective, cfg.InitialTask, cfg.JoinExisting)

	eng, err := engine.New(engine.Config{
		Objective:      cfg.Objective,
		InitialTask:    cfg.InitialTask,
		JoinExisting:   cfg.JoinExisting,
		IterationDelay: cfg.Engine.IterationDelay,
		Tree:           thought.New(),
		Store:          taskStore,
		Executor:       executor,
		Policy:         policy,
		Prioritizer:    prioritizer,
		Memory:         results,
		Reporter:       reporter,
		Logger:         logger,
		Tracer:         tp.Tracer("wintermute"),
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "starting run",
		"objective", cfg.Objective,
		"initial_task", cfg.InitialTask,
		"mode", runMode(cfg),
		"namespace", namespace,
	)

	if err := eng.Run(ctx); err != nil {
		return err
	}

	if globalFlags.GetOutputFormat() == internal.FormatJSON {
		count, countErr := results.Count(ctx)
		out := map[string]interface{}{
			"run_id":    runID.String(),
			"state":     eng.State().String(),
			"namespace": namespace,
		}
		if countErr == nil {
			out["results"] = count
		}
		return internal.NewJSONFormatter(os.Stdout).PrintJSON(out)
	}

	return nil
}

// runMode names the run topology for banners and logs.
func runMode(cfg *config.Config) string {
	switch {
	case cfg.JoinExisting:
		return "join"
	case cfg.TaskStore.Driver == "sqlite":
		return "shared"
	default:
		return "solo"
	}
}

// openVectorStore builds the vector store named by the config.
func openVectorStore(cfg *config.Config) (vector.Store, error) {
	switch cfg.Memory.Store.Driver {
	case "sqlite":
		return vector.NewSQLiteStore(vector.SQLiteConfig{
			DBPath:    cfg.Memory.Store.Path,
			TableName: cfg.Memory.Store.Table,
			Dims:      cfg.Memory.Embedder.Dimensions,
		})
	default:
		return vector.NewMemoryStore(cfg.Memory.Embedder.Dimensions), nil
	}
}

// openTaskStore builds the task store named by the config.
func openTaskStore(cfg *config.Config) (task.Store, error) {
	switch cfg.TaskStore.Driver {
	case "sqlite":
		return task.NewSQLiteStore(task.SQLiteStoreConfig{
			DBPath:    cfg.TaskStore.Path,
			TableName: cfg.TaskStore.Table,
		})
	default:
		return task.NewListStore(), nil
	}
}
