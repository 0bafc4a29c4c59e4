package config

import (
	"time"

	"github.com/zero-day-ai/wintermute/internal/llm"
	"github.com/zero-day-ai/wintermute/internal/memory/embedder"
)

// Config is the root configuration for a wintermute run. It is loaded once
// at startup, validated, and threaded through constructors as an immutable
// value; nothing below the CLI reads ambient process state.
type Config struct {
	// Objective is the goal the agent works toward. Required before a run
	// starts; commands that only inspect stored state work without it.
	Objective string `mapstructure:"objective" yaml:"objective"`

	// InitialTask seeds the thought tree and the task queue.
	InitialTask string `mapstructure:"initial_task" yaml:"initial_task"`

	// AgentName is the display name used in banners and log records.
	AgentName string `mapstructure:"agent_name" yaml:"agent_name"`

	// JoinExisting joins a run already in progress on a shared task store:
	// seeding and prioritization are skipped so peers keep queue ownership.
	JoinExisting bool `mapstructure:"join_existing" yaml:"join_existing"`

	LLM       llm.ClientConfig `mapstructure:"llm" yaml:"llm"`
	Memory    MemoryConfig     `mapstructure:"memory" yaml:"memory"`
	TaskStore TaskStoreConfig  `mapstructure:"task_store" yaml:"task_store"`
	Creation  CreationConfig   `mapstructure:"creation" yaml:"creation"`
	Engine    EngineConfig     `mapstructure:"engine" yaml:"engine"`
	Logging   LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Tracing   TracingConfig    `mapstructure:"tracing" yaml:"tracing"`
}

// MemoryConfig groups the semantic memory settings.
type MemoryConfig struct {
	Store    VectorStoreConfig `mapstructure:"store" yaml:"store"`
	Embedder embedder.Config   `mapstructure:"embedder" yaml:"embedder"`
}

// VectorStoreConfig selects and configures the vector store backend.
type VectorStoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver" validate:"required,oneof=memory sqlite"`

	// Path is the SQLite database file. Required for the sqlite driver.
	Path string `mapstructure:"path" yaml:"path"`

	// Table names the vectors table and doubles as the namespace fallback
	// when the objective sanitizes to an empty string.
	Table string `mapstructure:"table" yaml:"table"`
}

// TaskStoreConfig selects and configures the task queue backend.
type TaskStoreConfig struct {
	// Driver is "list" (in-process) or "sqlite" (shared across processes).
	Driver string `mapstructure:"driver" yaml:"driver" validate:"required,oneof=list sqlite"`

	// Path is the SQLite database file. Required for the sqlite driver.
	Path string `mapstructure:"path" yaml:"path"`

	// Table names the tasks table.
	Table string `mapstructure:"table" yaml:"table"`
}

// CreationConfig selects how child tasks are generated after each execution.
type CreationConfig struct {
	// Policy is "playbook" (deterministic lookup table) or "oracle"
	// (completion-driven).
	Policy string `mapstructure:"policy" yaml:"policy" validate:"required,oneof=playbook oracle"`

	// PlaybookPath optionally replaces the built-in playbook table with a
	// YAML file mapping task names to child task names.
	PlaybookPath string `mapstructure:"playbook_path" yaml:"playbook_path"`
}

// EngineConfig contains driver loop settings.
type EngineConfig struct {
	// IterationDelay paces the loop; one iteration per delay.
	IterationDelay time.Duration `mapstructure:"iteration_delay" yaml:"iteration_delay"`

	// RecallTopK is how many prior results are retrieved as context for
	// each execution.
	RecallTopK int `mapstructure:"recall_top_k" yaml:"recall_top_k" validate:"gte=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=json text"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address. Required when
	// tracing is enabled.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables transport security, for local collectors.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate" validate:"gte=0,lte=1"`
}
