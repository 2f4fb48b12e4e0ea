package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linktask/internal/adapters/driven/jsonl"
	"github.com/custodia-labs/linktask/internal/core/domain"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage persisted datasets",
	Long: `Datasets hold annotated tasks. Runs started with --resume or --exclude
never offer an input that a dataset already contains.`,
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	Args:  cobra.NoArgs,
	RunE:  runDatasetList,
}

var datasetImportCmd = &cobra.Command{
	Use:   "import [name] [file]",
	Short: "Append annotated tasks from a JSONL export",
	Args:  cobra.ExactArgs(2),
	RunE:  runDatasetImport,
}

var datasetStatsCmd = &cobra.Command{
	Use:   "stats [name]",
	Short: "Summarise the annotations of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetStats,
}

var datasetDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetDelete,
}

func init() {
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetImportCmd)
	datasetCmd.AddCommand(datasetStatsCmd)
	datasetCmd.AddCommand(datasetDeleteCmd)
	rootCmd.AddCommand(datasetCmd)
}

func runDatasetList(cmd *cobra.Command, _ []string) error {
	svc, err := datasetService()
	if err != nil {
		return err
	}

	list, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if len(list) == 0 {
		cmd.Println("No datasets.")
		return nil
	}

	for _, ds := range list {
		cmd.Printf("  %-24s %6d tasks  updated %s\n", ds.Name, ds.TaskCount, ds.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runDatasetImport(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	svc, err := datasetService()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	tasks, err := jsonl.ReadTasks(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	n, err := svc.Import(cmd.Context(), name, tasks)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d tasks into %s.\n", n, name)
	return nil
}

func runDatasetStats(cmd *cobra.Command, args []string) error {
	svc, err := datasetService()
	if err != nil {
		return err
	}

	stats, err := svc.Stats(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Dataset %s\n", stats.Dataset)
	cmd.Println()
	cmd.Printf("  Tasks:       %d (%d distinct texts)\n", stats.Total, stats.Texts)
	cmd.Printf("  Linked:      %d\n", stats.Linked)
	cmd.Printf("  NIL:         %d\n", stats.NilTotal())
	for _, n := range domain.AllNilSentinels() {
		if c := stats.Nil[n]; c > 0 {
			cmd.Printf("    %-16s %d\n", n, c)
		}
	}
	// Sentinels outside the known vocabulary still count.
	var other []string
	for n := range stats.Nil {
		if !n.IsValid() {
			other = append(other, string(n))
		}
	}
	slices.Sort(other)
	for _, n := range other {
		cmd.Printf("    %-16s %d\n", n, stats.Nil[domain.NilSentinel(n)])
	}
	cmd.Printf("  Unanswered:  %d\n", stats.Unanswered)
	cmd.Printf("  Ignored:     %d\n", stats.Ignored)
	cmd.Printf("  Rejected:    %d\n", stats.Rejected)
	return nil
}

func runDatasetDelete(cmd *cobra.Command, args []string) error {
	svc, err := datasetService()
	if err != nil {
		return err
	}

	if err := svc.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	cmd.Printf("Dataset %s deleted.\n", args[0])
	return nil
}
