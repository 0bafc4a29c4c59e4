package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/wintermute/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "wintermute",
	Short: "Wintermute - autonomous task-planning agent",
	Long: `Wintermute works toward an objective by maintaining a task queue,
executing one task per iteration against a language model, remembering
results in a semantic store, and spawning follow-up tasks until its
tree of thoughts is exhausted.

Start a run with 'wintermute run --objective "..."'. Point several
processes at the same SQLite task store and pass --join to have them
cooperate on one objective.`,
	PersistentPreRunE: preRun,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// preRun is called before any command runs. It validates global flags and
// points out a missing config file early; commands that can work without
// one still proceed.
func preRun(cmd *cobra.Command, args []string) error {
	flags, err := ParseGlobalFlags(cmd)
	if err != nil {
		return err
	}

	if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	configFile := resolveConfigPath(flags)
	if _, err := os.Stat(configFile); err != nil {
		if os.IsNotExist(err) && flags.IsVerbose() {
			cmd.PrintErrf("Config file not found at %s, using defaults\n", configFile)
		}
	}

	return nil
}

// resolveConfigPath determines the config file path from flags, the
// WINTERMUTE_HOME environment variable, and the default home directory, in
// that order.
func resolveConfigPath(flags *GlobalFlags) string {
	if flags.ConfigFile != "" {
		return flags.ConfigFile
	}

	homeDir := flags.HomeDir
	if homeDir == "" {
		homeDir = os.Getenv("WINTERMUTE_HOME")
	}
	if homeDir == "" {
		homeDir = config.DefaultHomeDir()
	}

	return config.DefaultConfigPath(homeDir)
}

// loadConfig loads and validates the effective configuration for a command.
// A missing file falls back to defaults so flag-driven runs work without
// any setup.
func loadConfig(flags *GlobalFlags) (*config.Config, error) {
	path := resolveConfigPath(flags)

	loader := config.NewConfigLoader(config.NewValidator())
	cfg, err := loader.LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}

	if flags.HomeDir != "" {
		// An explicit home moves the default store paths with it.
		if cfg.Memory.Store.Path == filepath.Join(config.DefaultHomeDir(), "memory.db") {
			cfg.Memory.Store.Path = filepath.Join(flags.HomeDir, "memory.db")
		}
		if cfg.TaskStore.Path == filepath.Join(config.DefaultHomeDir(), "tasks.db") {
			cfg.TaskStore.Path = filepath.Join(flags.HomeDir, "tasks.db")
		}
	}

	return cfg, nil
}

func init() {
	RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for wintermute.

To load completions:

Bash:

  $ source <(wintermute completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wintermute completion bash > /etc/bash_completion.d/wintermute
  # macOS:
  $ wintermute completion bash > $(brew --prefix)/etc/bash_completion.d/wintermute

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ wintermute completion zsh > "${fpath[1]}/_wintermute"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ wintermute completion fish | source

  # To load completions for each session, execute once:
  $ wintermute completion fish > ~/.config/fish/completions/wintermute.fish

PowerShell:

  PS> wintermute completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> wintermute completion powershell > wintermute.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			_ = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			_ = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			_ = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			_ = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}
