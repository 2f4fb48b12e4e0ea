package domain

import (
	"fmt"
	"unicode/utf8"
)

// MentionRecord is one input record read from a mention source.
// It is treated as immutable once read.
type MentionRecord struct {
	// Text is the full text the spans point into.
	Text string

	// Spans are the mentions within Text, in source order.
	Spans []MentionSpan

	// Meta holds every other top-level field of the record.
	// It is copied onto each task built from the record.
	Meta map[string]any
}

// MentionSpan is a contiguous mention inside a record's text.
// Start and End are Unicode code point offsets.
type MentionSpan struct {
	// Start is the inclusive start offset.
	Start int

	// End is the exclusive end offset.
	End int

	// ParsedID is the entity previously predicted for this span by an
	// evaluation harness. Empty means absent.
	ParsedID string

	// Label is the NER label of the span, if any.
	Label string

	// Text is the surface form, if the source supplied one.
	Text string
}

// Validate checks 0 <= Start < End <= len(text) in code points.
func (s MentionSpan) Validate(text string) error {
	n := utf8.RuneCountInString(text)
	if s.Start < 0 || s.Start >= s.End || s.End > n {
		return fmt.Errorf("%w: [%d, %d) outside text of length %d", ErrMalformedSpan, s.Start, s.End, n)
	}
	return nil
}

// Mention returns the slice of text covered by the span.
// The span must have been validated against text.
func (s MentionSpan) Mention(text string) string {
	runes := []rune(text)
	return string(runes[s.Start:s.End])
}

// Validate checks every span of the record.
func (r MentionRecord) Validate() error {
	for i, span := range r.Spans {
		if err := span.Validate(r.Text); err != nil {
			return fmt.Errorf("span %d: %w", i, err)
		}
	}
	return nil
}
