package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

func TestFingerprinter_InputIsStable(t *testing.T) {
	f := NewFingerprinter()
	spans := []domain.MentionSpan{{Start: 0, End: 12}}

	h1, err := f.Input("Barack Obama was born in Hawaii.", spans)
	require.NoError(t, err)
	h2, err := NewFingerprinter().Input("Barack Obama was born in Hawaii.", []domain.MentionSpan{{Start: 0, End: 12}})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotZero(t, h1)
}

func TestFingerprinter_InputIgnoresOptionsAndHints(t *testing.T) {
	f := NewFingerprinter()
	a := domain.Task{
		Text:    "Paris is big.",
		Spans:   []domain.MentionSpan{{Start: 0, End: 5}},
		Options: []domain.Option{{ID: "Q90"}},
	}
	b := a
	b.Spans = []domain.MentionSpan{{Start: 0, End: 5, ParsedID: "Q167646", Label: "GPE"}}
	b.Options = []domain.Option{{ID: "Q167646"}}

	ha, err := f.Fingerprint(a, domain.DedupByInput)
	require.NoError(t, err)
	hb, err := f.Fingerprint(b, domain.DedupByInput)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	ta, err := f.Fingerprint(a, domain.DedupByTask)
	require.NoError(t, err)
	tb, err := f.Fingerprint(b, domain.DedupByTask)
	require.NoError(t, err)
	assert.NotEqual(t, ta, tb)
}

func TestFingerprinter_InputDependsOnOffsets(t *testing.T) {
	f := NewFingerprinter()
	h1, _ := f.Input("Paris Hilton", []domain.MentionSpan{{Start: 0, End: 5}})
	h2, _ := f.Input("Paris Hilton", []domain.MentionSpan{{Start: 0, End: 12}})
	assert.NotEqual(t, h1, h2)
}

func TestFingerprinter_TaskIgnoresMeta(t *testing.T) {
	f := NewFingerprinter()
	task := domain.Task{
		Text:    "Paris",
		Spans:   []domain.MentionSpan{{Start: 0, End: 5}},
		Options: []domain.Option{{ID: "Q90", HTML: "<a>Q90</a>"}},
		Meta:    map[string]any{"article_id": 1},
	}
	other := task
	other.Meta = map[string]any{"article_id": 2}

	h1, err := f.Task(task)
	require.NoError(t, err)
	h2, err := f.Task(other)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestFingerprinter_Unhashable(t *testing.T) {
	f := NewFingerprinter()

	_, err := f.Input("", nil)
	assert.ErrorIs(t, err, domain.ErrUnhashableInput)

	_, err = f.Task(domain.Task{Text: "Paris"})
	assert.ErrorIs(t, err, domain.ErrUnhashableInput)

	_, err = f.Fingerprint(domain.Task{Text: "Paris"}, domain.DedupNone)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestFingerprinter_Stamp(t *testing.T) {
	f := NewFingerprinter()
	task := domain.Task{
		Text:    "Paris",
		Spans:   []domain.MentionSpan{{Start: 0, End: 5}},
		Options: []domain.Option{{ID: "Q90"}},
	}

	require.NoError(t, f.Stamp(&task))
	assert.NotZero(t, task.InputHash)
	assert.NotZero(t, task.TaskHash)
	assert.NotEqual(t, task.InputHash, task.TaskHash)
}

func TestFingerprinter_TaskIgnoresOptionOrder(t *testing.T) {
	f := NewFingerprinter()
	task := domain.Task{
		Text:  "Paris is big.",
		Spans: []domain.MentionSpan{{Start: 0, End: 5}},
		Options: []domain.Option{
			{ID: "Q90", HTML: "<a>Q90</a>"},
			{ID: "Q167646", HTML: "<a>Q167646</a>"},
			{ID: "NIL_otherLink", Text: "Link not in options"},
		},
	}
	shuffled := task
	shuffled.Options = []domain.Option{task.Options[2], task.Options[1], task.Options[0]}

	h1, err := f.Task(task)
	require.NoError(t, err)
	h2, err := f.Task(shuffled)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Equal(t, "Q90", task.Options[0].ID, "hashing must not reorder the task's options")

	fewer := task
	fewer.Options = task.Options[:2]
	h3, err := f.Task(fewer)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
