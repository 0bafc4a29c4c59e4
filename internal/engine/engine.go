// Package engine implements the driver loop of a run: a single-threaded
// state machine that explores the thought tree depth-first, executes one
// task per iteration, persists results to semantic memory, grows the tree
// through the creation policy, and reprioritizes the task queue.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/zero-day-ai/wintermute/internal/agent"
	"github.com/zero-day-ai/wintermute/internal/observability"
	"github.com/zero-day-ai/wintermute/internal/task"
	"github.com/zero-day-ai/wintermute/internal/thought"
	"github.com/zero-day-ai/wintermute/internal/types"
)

// DefaultIterationDelay paces the loop between iterations.
const DefaultIterationDelay = 5 * time.Second

const tracerName = "wintermute/engine"

// Executor runs one task against the objective and returns its result.
// Satisfied by agent.ExecutionAgent.
type Executor interface {
	Execute(ctx context.Context, objective, taskName string) (string, error)
}

// Prioritizer reorders the task queue for the objective. Satisfied by
// agent.PrioritizationAgent.
type Prioritizer interface {
	Prioritize(ctx context.Context, objective string, startID int) error
}

// ResultMemory persists completed task results. Satisfied by
// memory.SemanticMemory.
type ResultMemory interface {
	PersistResult(ctx context.Context, taskID int, taskName, result string) error
}

// Config assembles the collaborators and run parameters for an Engine.
type Config struct {
	// Objective is the top-level goal, immutable for the run.
	Objective string

	// InitialTask names the root thought and the seed task.
	InitialTask string

	// JoinExisting skips the store seed and prioritization so
	// cooperating peers keep ownership of the shared queue.
	JoinExisting bool

	// IterationDelay is the pause between iterations. Zero means
	// DefaultIterationDelay.
	IterationDelay time.Duration

	Tree        *thought.Tree
	Store       task.Store
	Executor    Executor
	Policy      agent.CreationPolicy
	Prioritizer Prioritizer
	Memory      ResultMemory

	// Reporter prints progress banners. Optional.
	Reporter *Reporter

	// Logger receives run logs. Defaults to a logger over
	// slog.Default's handler with a fresh run ID.
	Logger *observability.TracedLogger

	// Tracer creates run and iteration spans. Defaults to the global
	// tracer provider.
	Tracer trace.Tracer
}

// Engine drives a run to completion. It is the sole mutator of the thought
// tree and, together with the prioritizer, of the task store. Not safe for
// concurrent use; Run may be called once.
type Engine struct {
	objective   string
	initialTask string
	join        bool

	tree        *thought.Tree
	store       task.Store
	executor    Executor
	policy      agent.CreationPolicy
	prioritizer Prioritizer
	memory      ResultMemory
	reporter    *Reporter

	limiter *rate.Limiter
	logger  *observability.TracedLogger
	tracer  trace.Tracer

	state RunState
}

// New validates the configuration and returns an Engine in the seeded
// state.
func New(cfg Config) (*Engine, error) {
	if cfg.Objective == "" {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires an objective")
	}
	if cfg.InitialTask == "" {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires an initial task")
	}
	if cfg.Tree == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires a thought tree")
	}
	if cfg.Store == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires a task store")
	}
	if cfg.Executor == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires an executor")
	}
	if cfg.Policy == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires a creation policy")
	}
	if cfg.Memory == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires a result memory")
	}
	if cfg.Prioritizer == nil && !cfg.JoinExisting {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "engine requires a prioritizer")
	}

	delay := cfg.IterationDelay
	if delay <= 0 {
		delay = DefaultIterationDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewTracedLogger(slog.Default().Handler(), types.NewRunID().String(), "wintermute")
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Engine{
		objective:   cfg.Objective,
		initialTask: cfg.InitialTask,
		join:        cfg.JoinExisting,
		tree:        cfg.Tree,
		store:       cfg.Store,
		executor:    cfg.Executor,
		policy:      cfg.Policy,
		prioritizer: cfg.Prioritizer,
		memory:      cfg.Memory,
		reporter:    cfg.Reporter,
		limiter:     rate.NewLimiter(rate.Every(delay), 1),
		logger:      logger,
		tracer:      tracer,
		state:       RunStateSeeded,
	}, nil
}

// State returns the current run state.
func (e *Engine) State() RunState {
	return e.state
}

// Run seeds the tree and store and iterates until the tree holds no
// unexplored leaf, which is the run's only normal termination. Fatal
// errors and context cancellation move the run to the failed state and
// surface to the caller. Run is single-shot: a second call fails with
// ENGINE_INVALID_TRANSITION.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.transition(RunStateLooping); err != nil {
		return err
	}

	ctx, span := e.tracer.Start(ctx, "wintermute.run",
		trace.WithAttributes(
			attribute.String("objective", e.objective),
			attribute.Bool("join_existing", e.join),
		))
	defer span.End()

	if err := e.seed(ctx); err != nil {
		return e.fail(ctx, span, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return e.fail(ctx, span, err)
		}

		idx, ok := e.tree.NextUnexplored()
		if !ok {
			if err := e.transition(RunStateDone); err != nil {
				return err
			}
			span.SetAttributes(attribute.Int("thoughts", e.tree.Len()))
			e.logger.Info(ctx, "thought tree exhausted, run complete", "thoughts", e.tree.Len())
			return nil
		}

		if err := e.iterate(ctx, idx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return e.fail(ctx, span, err)
			}
			return e.fail(ctx, span, types.WrapError(types.ENGINE_ITERATION_FAILED,
				"iteration failed", err))
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return e.fail(ctx, span, err)
		}
	}
}

// seed roots the tree with the initial task. The matching seed task is
// appended to the store only when starting a fresh objective; joiners
// leave the shared queue to their peers.
func (e *Engine) seed(ctx context.Context) error {
	if _, err := e.tree.Add(e.initialTask, thought.NoParent); err != nil {
		return err
	}

	if e.join {
		e.logger.Info(ctx, "joining existing objective", "objective", e.objective)
		return nil
	}

	id, err := e.store.NextTaskID(ctx)
	if err != nil {
		return err
	}
	if err := e.store.Append(ctx, task.Task{ID: id, Name: e.initialTask}); err != nil {
		return err
	}

	e.logger.Info(ctx, "seeded run", "initial_task", e.initialTask, "task_id", id)
	return nil
}

// iterate performs one full loop iteration for the thought at idx.
func (e *Engine) iterate(ctx context.Context, idx int) error {
	th, err := e.tree.Node(idx)
	if err != nil {
		return err
	}

	ctx, span := e.tracer.Start(ctx, "wintermute.iteration")
	defer span.End()

	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	names, err := e.store.TaskNames(ctx)
	if err != nil {
		return fail(err)
	}
	e.reporter.TaskList(names)

	current, err := e.popTask(ctx, th)
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(
		attribute.Int("task.id", current.ID),
		attribute.String("task.name", current.Name),
	)
	e.reporter.NextTask(current)

	e.logger.Info(ctx, "executing task", "task_id", current.ID, "task", th.Name)
	result, err := e.executor.Execute(ctx, e.objective, th.Name)
	if err != nil {
		return fail(err)
	}
	e.reporter.Result(result)

	if err := e.tree.MarkExplored(idx); err != nil {
		return fail(err)
	}
	if err := e.memory.PersistResult(ctx, current.ID, current.Name, result); err != nil {
		return fail(err)
	}

	children, err := e.policy.GenerateChildren(ctx, e.objective, th.Name, result)
	if err != nil {
		return fail(err)
	}
	for _, name := range children {
		if _, err := e.tree.Add(name, idx); err != nil {
			return fail(err)
		}
		id, err := e.store.NextTaskID(ctx)
		if err != nil {
			return fail(err)
		}
		if err := e.store.Append(ctx, task.Task{ID: id, Name: name}); err != nil {
			return fail(err)
		}
	}
	if len(children) > 0 {
		e.logger.Debug(ctx, "created child tasks", "parent", th.Name, "count", len(children))
	}

	if !e.join {
		startID, err := e.store.NextTaskID(ctx)
		if err != nil {
			return fail(err)
		}
		if err := e.prioritizer.Prioritize(ctx, e.objective, startID); err != nil {
			return fail(err)
		}
	}

	return nil
}

// popTask takes the head of the queue. The store can legitimately run dry
// while the tree still holds unexplored leaves (prioritization and peers
// mutate it independently), so an empty store synthesizes the task from
// the selected thought instead of aborting.
func (e *Engine) popTask(ctx context.Context, th thought.Thought) (task.Task, error) {
	current, err := e.store.PopFront(ctx)
	if err == nil {
		return current, nil
	}
	if !types.HasCode(err, types.TASK_STORE_EMPTY) {
		return task.Task{}, err
	}

	id, err := e.store.NextTaskID(ctx)
	if err != nil {
		return task.Task{}, err
	}
	e.logger.Warn(ctx, "task store empty with unexplored thoughts, synthesizing task",
		"task_id", id, "task", th.Name)
	return task.Task{ID: id, Name: th.Name}, nil
}

// fail moves the run to the failed state and records the error on the run
// span.
func (e *Engine) fail(ctx context.Context, span trace.Span, err error) error {
	_ = e.transition(RunStateFailed)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.logger.Error(ctx, "run failed", "error", err.Error())
	return err
}

// transition moves the state machine to target, enforcing the allowed
// transitions.
func (e *Engine) transition(target RunState) error {
	if !e.state.CanTransitionTo(target) {
		return types.NewError(types.ENGINE_INVALID_TRANSITION,
			fmt.Sprintf("cannot transition from %s to %s", e.state, target))
	}
	e.state = target
	return nil
}
