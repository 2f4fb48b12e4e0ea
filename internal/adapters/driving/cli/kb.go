package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linktask/internal/adapters/driven/kb"
)

var (
	kbImportDelimiter string
	kbLookupFlags     kbFlags
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Work with knowledge base alias tables",
}

var kbImportCmd = &cobra.Command{
	Use:   "import [alias-file] [database]",
	Short: "Load a delimited alias file into a SQLite alias table",
	Long: `Reads rows of alias, entity id and an optional prior probability and writes
them into the aliases table of a SQLite database, creating it when needed.
Pass the database to annotate with --kb.`,
	Args: cobra.ExactArgs(2),
	RunE: runKBImport,
}

var kbLookupCmd = &cobra.Command{
	Use:   "lookup [mention]",
	Short: "Show the candidates of a mention",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBLookup,
}

func init() {
	kbImportCmd.Flags().StringVar(&kbImportDelimiter, "delimiter", "\t", "column delimiter of the alias file")
	kbLookupFlags.register(kbLookupCmd)
	kbCmd.AddCommand(kbImportCmd)
	kbCmd.AddCommand(kbLookupCmd)
	rootCmd.AddCommand(kbCmd)
}

func runKBImport(cmd *cobra.Command, args []string) error {
	delim, err := parseDelimiter(kbImportDelimiter)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	aliases, err := kb.ReadAliases(f, delim)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	n, err := kb.BuildSQLite(cmd.Context(), args[1], aliases)
	if err != nil {
		return err
	}

	cmd.Printf("Wrote %d aliases to %s.\n", n, args[1])
	return nil
}

func runKBLookup(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	adapters := settingsService.Adapters()
	kbLookupFlags.apply(cmd, &adapters)

	knowledgeBase, cleanup, err := kbLookupFlags.open(adapters)
	defer cleanup()
	if err != nil {
		return err
	}
	if knowledgeBase == nil {
		return errors.New("no knowledge base configured: set --kb, --kb-url or kb.path")
	}

	candidates, err := knowledgeBase.GetCandidates(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if len(candidates) == 0 {
		cmd.Println("No candidates.")
		return nil
	}
	for _, c := range candidates {
		if c.Score != nil {
			cmd.Printf("  %-12s %.4f\n", c.ID, *c.Score)
		} else {
			cmd.Printf("  %s\n", c.ID)
		}
	}
	return nil
}
