package domain

import "strings"

// CandidateEntity is a knowledge base entity proposed for a mention.
type CandidateEntity struct {
	// ID is the opaque entity identifier (e.g. "Q42").
	ID string

	// Score is the prior reported by the knowledge base, if any.
	Score *float64
}

// NilSentinel is a reserved non-KB identifier meaning that no KB candidate
// applies. The literal values are part of the task wire format.
type NilSentinel string

// NIL sentinels, in their default presentation order.
const (
	NilOtherLink  NilSentinel = "NIL_otherLink"
	NilAmbiguous  NilSentinel = "NIL_ambiguous"
	NilNoNE       NilSentinel = "NIL_noNE"
	NilNoSentence NilSentinel = "NIL_noSentence"
	NilUnsure     NilSentinel = "NIL_unsure"
)

// nilPrefix marks identifiers that never come from the knowledge base.
const nilPrefix = "NIL_"

// AllNilSentinels returns every sentinel in default order.
func AllNilSentinels() []NilSentinel {
	return []NilSentinel{NilOtherLink, NilAmbiguous, NilNoNE, NilNoSentence, NilUnsure}
}

// IsValid returns true if the sentinel is one of the known values.
func (n NilSentinel) IsValid() bool {
	switch n {
	case NilOtherLink, NilAmbiguous, NilNoNE, NilNoSentence, NilUnsure:
		return true
	default:
		return false
	}
}

// String returns the wire identifier.
func (n NilSentinel) String() string {
	return string(n)
}

// Label returns the text shown to the annotator.
func (n NilSentinel) Label() string {
	switch n {
	case NilOtherLink:
		return "Link not in options"
	case NilAmbiguous:
		return "Need more context"
	case NilNoNE:
		return "Not a named entity"
	case NilNoSentence:
		return "Not a proper sentence"
	case NilUnsure:
		return "Unsure"
	default:
		return unknownDescription
	}
}

// ParseNilSentinel accepts either the full identifier ("NIL_unsure")
// or its suffix ("unsure").
func ParseNilSentinel(s string) (NilSentinel, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, nilPrefix) {
		s = nilPrefix + s
	}
	n := NilSentinel(s)
	return n, n.IsValid()
}

// IsNilID reports whether id belongs to the NIL family.
func IsNilID(id string) bool {
	return strings.HasPrefix(id, nilPrefix)
}
