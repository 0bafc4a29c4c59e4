package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/wintermute/cmd/wintermute/internal"
	"github.com/zero-day-ai/wintermute/internal/config"
	"github.com/zero-day-ai/wintermute/internal/memory"
	"github.com/zero-day-ai/wintermute/internal/memory/embedder"
	"github.com/zero-day-ai/wintermute/internal/memory/vector"
)

var memoryFlags struct {
	objective string
	topK      int
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect the semantic result store",
	Long: `Inspect results persisted by past or in-progress runs. Records are
namespaced by objective, so pass the objective the run used (or set it
in the config file) to look inside the right namespace.`,
}

var memoryQueryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Find stored results similar to a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryQuery,
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many results the namespace holds",
	RunE:  runMemoryStats,
}

func init() {
	memoryCmd.PersistentFlags().StringVar(&memoryFlags.objective, "objective", "", "Objective whose namespace to inspect (overrides config)")
	memoryQueryCmd.Flags().IntVar(&memoryFlags.topK, "top-k", 0, "Number of results to return (default: engine recall_top_k)")

	memoryCmd.AddCommand(memoryQueryCmd)
	memoryCmd.AddCommand(memoryStatsCmd)
}

func runMemoryQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, namespace, err := memoryTarget()
	if err != nil {
		return err
	}

	topK := memoryFlags.topK
	if topK <= 0 {
		topK = cfg.Engine.RecallTopK
	}

	emb, err := embedder.NewEmbedder(cfg.Memory.Embedder)
	if err != nil {
		return err
	}

	store, err := openVectorStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	queryVec, err := emb.Embed(ctx, args[0])
	if err != nil {
		return err
	}

	matches, err := store.Query(ctx, namespace, vector.Query{
		Embedding: queryVec,
		TopK:      topK,
	})
	if err != nil {
		return err
	}

	formatter := internal.NewFormatter(globalFlags.GetOutputFormat(), os.Stdout)
	if len(matches) == 0 {
		return formatter.PrintSuccess(fmt.Sprintf("no results in namespace %q", namespace))
	}

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		task, _ := m.Record.Metadata["task"].(string)
		rows = append(rows, []string{
			m.Record.ID,
			fmt.Sprintf("%.3f", m.Score),
			task,
			m.Record.Content,
		})
	}
	return formatter.PrintTable([]string{"id", "score", "task", "result"}, rows)
}

func runMemoryStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, namespace, err := memoryTarget()
	if err != nil {
		return err
	}

	store, err := openVectorStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count(ctx, namespace)
	if err != nil {
		return err
	}

	formatter := internal.NewFormatter(globalFlags.GetOutputFormat(), os.Stdout)
	return formatter.PrintTable(
		[]string{"namespace", "driver", "results"},
		[][]string{{namespace, cfg.Memory.Store.Driver, fmt.Sprintf("%d", count)}},
	)
}

// memoryTarget resolves the config and result namespace the memory
// commands operate on.
func memoryTarget() (*config.Config, string, error) {
	cfg, err := loadConfig(globalFlags)
	if err != nil {
		return nil, "", err
	}

	if memoryFlags.objective != "" {
		cfg.Objective = memoryFlags.objective
	}

	namespace := memory.Namespace(cfg.Objective, cfg.Memory.Store.Table)
	return cfg, namespace, nil
}
