package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMentionSpan_Validate(t *testing.T) {
	text := "Barack Obama was born in Hawaii."

	tests := []struct {
		name  string
		span  MentionSpan
		valid bool
	}{
		{"whole name", MentionSpan{Start: 0, End: 12}, true},
		{"end of text", MentionSpan{Start: 25, End: 32}, true},
		{"negative start", MentionSpan{Start: -1, End: 4}, false},
		{"empty span", MentionSpan{Start: 4, End: 4}, false},
		{"reversed", MentionSpan{Start: 6, End: 2}, false},
		{"past end", MentionSpan{Start: 25, End: 33}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.span.Validate(text)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMalformedSpan)
			}
		})
	}
}

func TestMentionSpan_MentionUsesCodePoints(t *testing.T) {
	text := "Zoë Saldaña speaks."
	span := MentionSpan{Start: 4, End: 11}

	assert.NoError(t, span.Validate(text))
	assert.Equal(t, "Saldaña", span.Mention(text))
}

func TestMentionRecord_Validate(t *testing.T) {
	rec := MentionRecord{
		Text:  "Paris",
		Spans: []MentionSpan{{Start: 0, End: 5}, {Start: 3, End: 9}},
	}
	err := rec.Validate()
	assert.ErrorIs(t, err, ErrMalformedSpan)
	assert.Contains(t, err.Error(), "span 1")
}

func TestParseNilSentinel(t *testing.T) {
	n, ok := ParseNilSentinel("unsure")
	assert.True(t, ok)
	assert.Equal(t, NilUnsure, n)

	n, ok = ParseNilSentinel("NIL_noNE")
	assert.True(t, ok)
	assert.Equal(t, NilNoNE, n)

	_, ok = ParseNilSentinel("maybe")
	assert.False(t, ok)
}

func TestNilSentinel_Label(t *testing.T) {
	assert.Equal(t, "Link not in options", NilOtherLink.Label())
	assert.Equal(t, "Need more context", NilAmbiguous.Label())
	assert.Equal(t, "Not a named entity", NilNoNE.Label())
	assert.Equal(t, "Not a proper sentence", NilNoSentence.Label())
	assert.Equal(t, "Unsure", NilUnsure.Label())
}

func TestHash_TextRoundTrip(t *testing.T) {
	h := Hash(0xdeadbeef)
	b, err := h.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "00000000deadbeef", string(b))

	var back Hash
	assert.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, h, back)
	assert.ErrorIs(t, back.UnmarshalText([]byte("zz")), ErrInvalidInput)
}
