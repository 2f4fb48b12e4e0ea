package cli

import (
	"fmt"
	"html"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

var (
	previewFlags pipelineFlags
	previewLimit int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the first tasks a run would produce",
	Long: `Runs the pipeline like annotate but prints the first tasks in a readable
form instead of JSON Lines. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewFlags.register(previewCmd)
	previewCmd.Flags().IntVarP(&previewLimit, "limit", "n", 3, "number of tasks to show")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	if previewLimit <= 0 {
		return fmt.Errorf("%w: --limit must be positive", domain.ErrInvalidInput)
	}

	settings, adapters, err := previewFlags.settings(cmd)
	if err != nil {
		return err
	}

	pipeline, source, cleanup, err := previewFlags.pipeline(cmd, settings, adapters)
	defer cleanup()
	if err != nil {
		return err
	}

	stream, err := pipeline.Stream(cmd.Context(), settings, source)
	if err != nil {
		return err
	}

	styles := stylesFor(cmd.OutOrStderr())
	shown := 0
	for task, err := range stream {
		if err != nil {
			if skip, ok := domain.IsSkip(err); ok {
				cmd.PrintErrln(skip.Error())
				continue
			}
			return fmt.Errorf("preview failed: %w", err)
		}
		shown++
		cmd.Println(renderTask(styles, shown, task))
		if shown == previewLimit {
			break
		}
	}

	if shown == 0 {
		cmd.Println("No tasks.")
	}
	return nil
}

// renderTask formats one task with its mention highlighted.
func renderTask(styles *Styles, n int, task domain.Task) string {
	var b strings.Builder

	span := domain.MentionSpan{}
	if len(task.Spans) > 0 {
		span = task.Spans[0]
	}

	b.WriteString(styles.Title.Render(fmt.Sprintf("Task %d", n)))
	b.WriteString(" ")
	b.WriteString(styles.Muted.Render(task.InputHash.String()))
	b.WriteString("\n")
	b.WriteString(highlight(styles, task.Text, span))
	b.WriteString("\n")

	meta := fmt.Sprintf("[%d:%d]", span.Start, span.End)
	if span.Label != "" {
		meta += " " + span.Label
	}
	if span.ParsedID != "" {
		meta += " parsed " + span.ParsedID
	}
	b.WriteString(styles.Muted.Render(meta))
	b.WriteString("\n")

	for i, o := range task.Options {
		style := styles.Option
		if domain.IsNilID(o.ID) {
			style = styles.NilOption
		}
		fmt.Fprintf(&b, "\n  %d. %s", i+1, style.Render(optionLabel(o)))
	}

	return styles.Card.Render(b.String())
}

func highlight(styles *Styles, text string, span domain.MentionSpan) string {
	if span.Validate(text) != nil {
		return text
	}
	runes := []rune(text)
	return string(runes[:span.Start]) +
		styles.Mention.Render(string(runes[span.Start:span.End])) +
		string(runes[span.End:])
}

// optionLabel returns the visible text of an option, unwrapping html links.
func optionLabel(o domain.Option) string {
	inner := o.Display()
	if o.HTML == "" {
		return inner
	}
	if i := strings.Index(inner, ">"); i >= 0 {
		inner = inner[i+1:]
	}
	inner = strings.TrimSuffix(inner, "</a>")
	return html.UnescapeString(inner)
}
