package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/zero-day-ai/wintermute/internal/llm"
	"github.com/zero-day-ai/wintermute/internal/memory/embedder"
)

// DefaultConfig returns a Config with sensible default values. Loading a
// config file overlays onto these, so partial files stay valid.
func DefaultConfig() *Config {
	homeDir := DefaultHomeDir()

	return &Config{
		Objective:    "",
		InitialTask:  "Develop a task list",
		AgentName:    "wintermute",
		JoinExisting: false,
		LLM:          llm.DefaultClientConfig(),
		Memory: MemoryConfig{
			Store: VectorStoreConfig{
				Driver: "memory",
				Path:   filepath.Join(homeDir, "memory.db"),
				Table:  "wintermute-results",
			},
			Embedder: embedder.DefaultConfig(),
		},
		TaskStore: TaskStoreConfig{
			Driver: "list",
			Path:   filepath.Join(homeDir, "tasks.db"),
			Table:  "tasks",
		},
		Creation: CreationConfig{
			Policy:       "playbook",
			PlaybookPath: "",
		},
		Engine: EngineConfig{
			IterationDelay: 5 * time.Second,
			RecallTopK:     5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Endpoint:   "",
			Insecure:   false,
			SampleRate: 1.0,
		},
	}
}

// DefaultHomeDir returns the default wintermute home directory.
// It uses ~/.wintermute or falls back to a temporary directory if the user
// home cannot be determined.
func DefaultHomeDir() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".wintermute")
	}
	return filepath.Join(userHome, ".wintermute")
}

// DefaultConfigPath returns the default config file path for a given home
// directory.
func DefaultConfigPath(homeDir string) string {
	return filepath.Join(homeDir, "config.yaml")
}
