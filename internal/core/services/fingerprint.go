package services

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

// Fingerprinter computes stable content hashes for records and tasks.
// Hashes are derived from a canonical JSON encoding, so equal content
// hashes equally across processes.
type Fingerprinter struct{}

// NewFingerprinter creates a fingerprinter.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

type inputKey struct {
	Text  string   `json:"text"`
	Spans [][2]int `json:"spans"`
}

type spanKey struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	ParsedID string `json:"parsed_id,omitempty"`
	Label    string `json:"label,omitempty"`
}

type optionKey struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`
}

type taskKey struct {
	Text    string      `json:"text"`
	Spans   []spanKey   `json:"spans"`
	Options []optionKey `json:"options"`
}

// Input fingerprints what is shown: the text and the span offsets.
func (f *Fingerprinter) Input(text string, spans []domain.MentionSpan) (domain.Hash, error) {
	if text == "" {
		return 0, fmt.Errorf("%w: input has no text", domain.ErrUnhashableInput)
	}
	key := inputKey{Text: text, Spans: make([][2]int, len(spans))}
	for i, s := range spans {
		key.Spans[i] = [2]int{s.Start, s.End}
	}
	return hashJSON(key)
}

// Task fingerprints the assembled task including its options. Options are
// hashed as a set, so a shuffled presentation of the same candidates
// fingerprints equally.
func (f *Fingerprinter) Task(task domain.Task) (domain.Hash, error) {
	if task.Text == "" {
		return 0, fmt.Errorf("%w: task has no text", domain.ErrUnhashableInput)
	}
	if len(task.Options) == 0 {
		return 0, fmt.Errorf("%w: task has no options", domain.ErrUnhashableInput)
	}
	key := taskKey{
		Text:    task.Text,
		Spans:   make([]spanKey, len(task.Spans)),
		Options: make([]optionKey, len(task.Options)),
	}
	for i, s := range task.Spans {
		key.Spans[i] = spanKey{Start: s.Start, End: s.End, ParsedID: s.ParsedID, Label: s.Label}
	}
	for i, o := range task.Options {
		key.Options[i] = optionKey{ID: o.ID, Text: o.Text, HTML: o.HTML}
	}
	slices.SortFunc(key.Options, func(a, b optionKey) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Text, b.Text), cmp.Compare(a.HTML, b.HTML))
	})
	return hashJSON(key)
}

// Fingerprint computes the hash of task for a single granularity.
func (f *Fingerprinter) Fingerprint(task domain.Task, mode domain.DedupMode) (domain.Hash, error) {
	switch mode {
	case domain.DedupByInput:
		return f.Input(task.Text, task.Spans)
	case domain.DedupByTask:
		return f.Task(task)
	default:
		return 0, fmt.Errorf("%w: fingerprint mode %s", domain.ErrUnsupportedType, mode)
	}
}

// Stamp sets both hashes on task.
func (f *Fingerprinter) Stamp(task *domain.Task) error {
	in, err := f.Input(task.Text, task.Spans)
	if err != nil {
		return err
	}
	th, err := f.Task(*task)
	if err != nil {
		return err
	}
	task.InputHash = in
	task.TaskHash = th
	return nil
}

func hashJSON(v any) (domain.Hash, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrUnhashableInput, err)
	}
	return domain.Hash(xxhash.Sum64(b)), nil
}
