package domain

import (
	"fmt"
	"strconv"
)

// Hash is a stable content fingerprint.
type Hash uint64

// String renders the hash as 16 lower-case hex digits.
func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(b []byte) error {
	v, err := strconv.ParseUint(string(b), 16, 64)
	if err != nil {
		return fmt.Errorf("%w: hash %q", ErrInvalidInput, b)
	}
	*h = Hash(v)
	return nil
}

// Option is one selectable answer of a task.
// Exactly one of Text and HTML is set.
type Option struct {
	// ID is the entity identifier or NIL sentinel the option stands for.
	ID string

	// Text is the plain-text rendering.
	Text string

	// HTML is the markup rendering.
	HTML string
}

// Display returns whichever rendering is set.
func (o Option) Display() string {
	if o.HTML != "" {
		return o.HTML
	}
	return o.Text
}

// Task is an annotation-ready unit handed to the annotation UI.
type Task struct {
	// InputHash fingerprints what was shown (text and span offsets).
	InputHash Hash

	// TaskHash fingerprints the whole task including its options.
	TaskHash Hash

	// Text is the record text.
	Text string

	// Spans holds the mention this task asks about.
	Spans []MentionSpan

	// Options are the answers in presentation order.
	Options []Option

	// Meta is copied from the source record.
	Meta map[string]any

	// Answer is the annotator's verdict ("accept", "reject", "ignore").
	// Only present on tasks loaded from an annotated dataset.
	Answer string

	// Accept lists the chosen option ids of an annotated task.
	Accept []string
}

// OptionIDs returns the option ids in order.
func (t Task) OptionIDs() []string {
	ids := make([]string, len(t.Options))
	for i, o := range t.Options {
		ids[i] = o.ID
	}
	return ids
}
