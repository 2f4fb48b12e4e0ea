package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linktask/internal/adapters/driven/jsonl"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

var (
	annotateFlags  pipelineFlags
	annotateOutput string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Build annotation tasks from a mention source",
	Long: `Reads mention records as JSON Lines, resolves knowledge base candidates for
every span and writes one annotation task per span.

Recipes set the defaults for ordering, empty-candidate handling, dedup and
NIL options:
  manual   - sorted options, drop spans without candidates, otherLink and ambiguous
  eval     - shuffled options, keep empty spans, dedup by task, all NIL options
  annotate - shuffled options, keep empty spans, dedup by input, all NIL options
  match    - shuffled options, drop empty spans, no NIL options

Any flag given explicitly overrides the recipe and the configuration file.`,
	Args: cobra.NoArgs,
	RunE: runAnnotate,
}

func init() {
	annotateFlags.register(annotateCmd)
	annotateCmd.Flags().StringVarP(&annotateOutput, "output", "o", "-", "task output file, - for stdout")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, _ []string) error {
	settings, adapters, err := annotateFlags.settings(cmd)
	if err != nil {
		return err
	}

	pipeline, source, cleanup, err := annotateFlags.pipeline(cmd, settings, adapters)
	defer cleanup()
	if err != nil {
		return err
	}

	var sink driven.TaskSink
	if annotateOutput == "" || annotateOutput == "-" {
		sink = jsonl.NewSink(cmd.OutOrStdout())
	} else {
		fileSink, err := jsonl.NewFileSink(annotateOutput)
		if err != nil {
			return err
		}
		sink = fileSink
	}

	stats, runErr := pipeline.Run(cmd.Context(), settings, source, sink)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("closing output: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("annotate failed: %w", runErr)
	}

	cmd.PrintErrf("Wrote %d tasks (%d records skipped, %d tasks seeded from datasets)\n",
		stats.Emitted, stats.Skipped, stats.Seeded)
	return nil
}
