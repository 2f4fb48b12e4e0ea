package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme defines the colour palette of styled output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary marks knowledge base options.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Warning marks NIL options.
	Warning lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles renders preview output. Zero-value styles print text unchanged.
type Styles struct {
	// Title style for task headers.
	Title lipgloss.Style

	// Mention highlights the span inside the text.
	Mention lipgloss.Style

	// Option style for knowledge base options.
	Option lipgloss.Style

	// NilOption style for NIL options.
	NilOption lipgloss.Style

	// Muted style for labels and offsets.
	Muted lipgloss.Style

	// Card frames one task.
	Card lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Mention: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Option: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		NilOption: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}

// PlainStyles returns styles that add no markup.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Title:     plain,
		Mention:   plain,
		Option:    plain,
		NilOption: plain,
		Muted:     plain,
		Card:      plain,
	}
}

// stylesFor picks coloured styles only when w is a terminal.
func stylesFor(w io.Writer) *Styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewStyles(DefaultTheme())
	}
	return PlainStyles()
}
