package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linktask/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the configuration file.

Keys use dot notation, for example pipeline.recipe or kb.path. Command-line
flags override these values for a single run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

List keys (pipeline.nil_set, pipeline.labels, pipeline.ignore_labels,
pipeline.exclude) take comma-separated values. Numbers and true/false are
stored with their type.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

// listKeys hold string lists.
var listKeys = []string{
	services.KeyNilSet,
	services.KeyLabels,
	services.KeyIgnoreLabels,
	services.KeyExclude,
}

// stringKeys are never converted to numbers or booleans.
var stringKeys = []string{
	services.KeyRecipe,
	services.KeyDataset,
	services.KeyDescDelimiter,
	services.KeyURLPrefix,
	services.KeyKBPath,
	services.KeyKBURL,
	services.KeyDescPath,
	services.KeyStorageDir,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	pipeline, err := settingsService.Pipeline("")
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	adapters := settingsService.Adapters()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Recipe: %s\n", pipeline.Recipe)
	cmd.Printf("  Ordering: %s\n", pipeline.Ordering.Description())
	cmd.Printf("  Empty candidates: %s\n", pipeline.Drop)
	cmd.Printf("  Dedup: %s\n", pipeline.Dedup)
	nilNames := make([]string, len(pipeline.NilSet))
	for i, n := range pipeline.NilSet {
		nilNames[i] = n.String()
	}
	cmd.Printf("  NIL options: %s\n", valueOrNone(strings.Join(nilNames, ", ")))
	cmd.Printf("  Ignored labels: %s\n", valueOrNone(strings.Join(pipeline.IgnoreLabels, ", ")))
	cmd.Printf("  Excluded datasets: %s\n", valueOrNone(strings.Join(pipeline.Exclude, ", ")))
	cmd.Println()

	cmd.Println("[Render]")
	cmd.Printf("  Mode: %s\n", pipeline.Render)
	cmd.Printf("  URL prefix: %s\n", pipeline.URLPrefix)
	cmd.Println()

	cmd.Println("[Knowledge base]")
	cmd.Printf("  Path: %s\n", valueOrNone(adapters.KBPath))
	cmd.Printf("  URL: %s\n", valueOrNone(adapters.KBURL))
	cmd.Printf("  Timeout: %s\n", pipeline.ResolverTimeout)
	cmd.Println()

	cmd.Println("[Descriptions]")
	cmd.Printf("  Path: %s\n", valueOrNone(adapters.Descriptions.Path))
	cmd.Printf("  Delimiter: %q\n", adapters.Descriptions.Delimiter)
	cmd.Printf("  Columns: id %d, description %d\n", adapters.Descriptions.IDColumn, adapters.Descriptions.DescriptionColumn)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Directory: %s\n", adapters.StorageDir)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	value := parseSettingValue(key, args[1])
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	// Surface invalid pipeline values now rather than on the next run.
	if strings.HasPrefix(key, "pipeline.") || strings.HasPrefix(key, "render.") {
		if _, err := settingsService.Pipeline(""); err != nil {
			cmd.PrintErrf("Warning: %v\n", err)
		}
	}

	cmd.Printf("%s = %v\n", key, value)
	return nil
}

func parseSettingValue(key, raw string) any {
	raw = strings.TrimSpace(raw)
	if slices.Contains(listKeys, key) {
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	if slices.Contains(stringKeys, key) {
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	return raw
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
