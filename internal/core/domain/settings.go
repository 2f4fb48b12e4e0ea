package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// OrderingPolicy decides how KB-derived options are ordered.
type OrderingPolicy string

// Available ordering policies.
const (
	// OrderDeterministic sorts options by the numeric part of their id so
	// repeated passes over a mention show the same order.
	OrderDeterministic OrderingPolicy = "deterministic"

	// OrderShuffle draws a fresh random permutation per task to avoid
	// position bias in evaluation.
	OrderShuffle OrderingPolicy = "shuffle"
)

// IsValid returns true if the ordering policy is recognised.
func (p OrderingPolicy) IsValid() bool {
	return p == OrderDeterministic || p == OrderShuffle
}

// String returns the string representation.
func (p OrderingPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p OrderingPolicy) Description() string {
	switch p {
	case OrderDeterministic:
		return "Deterministic (sorted by entity id)"
	case OrderShuffle:
		return "Shuffle (random per task)"
	default:
		return unknownDescription
	}
}

// DropPolicy decides whether spans without KB candidates produce tasks.
type DropPolicy string

// Available drop policies.
const (
	// DropIfNoCandidates emits nothing for spans without KB candidates.
	DropIfNoCandidates DropPolicy = "drop_empty"

	// KeepIfNoCandidates emits a NIL-only task for such spans.
	KeepIfNoCandidates DropPolicy = "keep_empty"
)

// IsValid returns true if the drop policy is recognised.
func (p DropPolicy) IsValid() bool {
	return p == DropIfNoCandidates || p == KeepIfNoCandidates
}

// String returns the string representation.
func (p DropPolicy) String() string {
	return string(p)
}

// RenderMode decides how option labels are rendered.
type RenderMode string

// Available render modes.
const (
	// RenderHTML renders KB options as hyperlinks.
	RenderHTML RenderMode = "html"

	// RenderText renders KB options as plain text.
	RenderText RenderMode = "text"
)

// IsValid returns true if the render mode is recognised.
func (m RenderMode) IsValid() bool {
	return m == RenderHTML || m == RenderText
}

// String returns the string representation.
func (m RenderMode) String() string {
	return string(m)
}

// DedupMode selects which fingerprints suppress repeats. It is a bit set:
// both granularities may be enabled together.
type DedupMode uint8

// Dedup granularities.
const (
	// DedupByInput never re-shows the same text and span offsets.
	DedupByInput DedupMode = 1 << iota

	// DedupByTask suppresses only exact repeats including options.
	DedupByTask
)

// DedupNone disables deduplication.
const DedupNone DedupMode = 0

// Has reports whether m enables granularity g.
func (m DedupMode) Has(g DedupMode) bool {
	return m&g != 0
}

// String returns a comma separated list of enabled granularities.
func (m DedupMode) String() string {
	var parts []string
	if m.Has(DedupByInput) {
		parts = append(parts, "input")
	}
	if m.Has(DedupByTask) {
		parts = append(parts, "task")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseDedupMode parses "input", "task", "input,task" or "none".
func ParseDedupMode(s string) (DedupMode, error) {
	var m DedupMode
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "input", "by_input":
			m |= DedupByInput
		case "task", "by_task":
			m |= DedupByTask
		case "none", "":
		default:
			return DedupNone, fmt.Errorf("%w: dedup mode %q", ErrUnsupportedType, part)
		}
	}
	return m, nil
}

// Recipe names a preset of pipeline policies.
type Recipe string

// Available recipes.
const (
	// RecipeManual is editorial review of NER output.
	RecipeManual Recipe = "manual"

	// RecipeEval reviews machine-linked evaluation data.
	RecipeEval Recipe = "eval"

	// RecipeAnnotate collects fresh annotations on NER output.
	RecipeAnnotate Recipe = "annotate"

	// RecipeMatch offers KB candidates only, without NIL fallbacks.
	RecipeMatch Recipe = "match"
)

// IsValid returns true if the recipe is recognised.
func (r Recipe) IsValid() bool {
	switch r {
	case RecipeManual, RecipeEval, RecipeAnnotate, RecipeMatch:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Recipe) String() string {
	return string(r)
}

// Preset returns the policy defaults of the recipe.
func (r Recipe) Preset() PipelineSettings {
	s := PipelineSettings{
		Recipe:    r,
		Render:    RenderHTML,
		URLPrefix: DefaultURLPrefix,
	}
	switch r {
	case RecipeEval:
		s.Ordering = OrderShuffle
		s.Drop = KeepIfNoCandidates
		s.Dedup = DedupByTask
		s.NilSet = AllNilSentinels()
	case RecipeAnnotate:
		s.Ordering = OrderShuffle
		s.Drop = KeepIfNoCandidates
		s.Dedup = DedupByInput
		s.NilSet = AllNilSentinels()
	case RecipeMatch:
		s.Ordering = OrderShuffle
		s.Drop = DropIfNoCandidates
		s.Dedup = DedupByInput
		s.NilSet = nil
	default:
		s.Recipe = RecipeManual
		s.Ordering = OrderDeterministic
		s.Drop = DropIfNoCandidates
		s.Dedup = DedupByInput
		s.NilSet = []NilSentinel{NilOtherLink, NilAmbiguous}
	}
	return s
}

// DefaultURLPrefix is the entity page prefix used in rendered options.
const DefaultURLPrefix = "https://www.wikidata.org/wiki/"

// DefaultIgnoreLabels are NER labels that never name a linkable entity.
func DefaultIgnoreLabels() []string {
	return []string{"CARDINAL", "DATE", "MONEY", "ORDINAL", "QUANTITY", "TIME", "PERCENT"}
}

// PipelineSettings configures one annotation run.
type PipelineSettings struct {
	// Recipe is the preset the policies were derived from.
	Recipe Recipe

	// Dataset is the dataset name the run annotates into.
	Dataset string

	// Ordering orders KB options.
	Ordering OrderingPolicy

	// Drop decides whether spans without candidates emit tasks.
	Drop DropPolicy

	// Dedup selects the dedup granularities.
	Dedup DedupMode

	// NilSet is appended after KB options, in this order.
	NilSet []NilSentinel

	// Render selects html or plain text options.
	Render RenderMode

	// URLPrefix is prepended to entity ids in rendered links.
	URLPrefix string

	// Labels, if non-empty, keeps only spans with one of these labels.
	Labels []string

	// IgnoreLabels drops spans with one of these labels.
	IgnoreLabels []string

	// Resume seeds dedup from Dataset when it already exists.
	Resume bool

	// Exclude lists further datasets whose tasks are never re-offered.
	Exclude []string

	// ResolverTimeout bounds each knowledge base query.
	ResolverTimeout time.Duration
}

// Validate checks that all policies are recognised.
func (s PipelineSettings) Validate() error {
	if !s.Ordering.IsValid() {
		return fmt.Errorf("%w: ordering %q", ErrUnsupportedType, s.Ordering)
	}
	if !s.Drop.IsValid() {
		return fmt.Errorf("%w: drop policy %q", ErrUnsupportedType, s.Drop)
	}
	if !s.Render.IsValid() {
		return fmt.Errorf("%w: render mode %q", ErrUnsupportedType, s.Render)
	}
	for _, n := range s.NilSet {
		if !n.IsValid() {
			return fmt.Errorf("%w: nil sentinel %q", ErrUnsupportedType, n)
		}
	}
	if s.Resume && s.Dataset == "" {
		return fmt.Errorf("%w: resume requires a dataset name", ErrInvalidInput)
	}
	return nil
}

// KeepsLabel applies the label filters to a span label. Spans without a
// label pass an allow-list only when it is empty.
func (s PipelineSettings) KeepsLabel(label string) bool {
	for _, l := range s.IgnoreLabels {
		if strings.EqualFold(l, label) {
			return false
		}
	}
	if len(s.Labels) == 0 {
		return true
	}
	for _, l := range s.Labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// AdapterSettings locates the collaborators of a run.
type AdapterSettings struct {
	// KBPath is a sqlite knowledge base file.
	KBPath string

	// KBURL is the base URL of an HTTP candidate service.
	// It takes precedence over KBPath when both are set.
	KBURL string

	// KBRate limits HTTP KB queries per second. Zero means unlimited.
	KBRate float64

	// Descriptions configures the entity description table.
	Descriptions DescriptionTable

	// StorageDir holds the dataset database.
	StorageDir string
}

// DescriptionTable describes the layout of a delimited description file.
type DescriptionTable struct {
	// Path is the file location. Empty disables descriptions.
	Path string

	// Delimiter separates columns.
	Delimiter rune

	// Header skips the first row when true.
	Header bool

	// IDColumn is the zero-based column holding the entity id.
	IDColumn int

	// DescriptionColumn is the zero-based column holding the description.
	DescriptionColumn int
}

// DefaultDescriptionTable matches the pipe-separated export with a header
// row and the description in the second column.
func DefaultDescriptionTable() DescriptionTable {
	return DescriptionTable{
		Delimiter:         '|',
		Header:            true,
		IDColumn:          0,
		DescriptionColumn: 1,
	}
}

// DefaultResolverTimeout bounds a single knowledge base query.
const DefaultResolverTimeout = 2 * time.Second
