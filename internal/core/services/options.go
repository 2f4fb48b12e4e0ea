package services

import (
	"cmp"
	"html"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// NoDescription is shown for entities missing from the description table.
const NoDescription = "No description"

// OptionBuilder turns candidates into the presented option list.
type OptionBuilder struct {
	describe  driven.DescriptionLookup
	render    domain.RenderMode
	urlPrefix string
	rng       *rand.Rand
}

// NewOptionBuilder creates a builder. describe may be nil. If rng is nil a
// source seeded from the clock is used, so shuffles differ between runs.
func NewOptionBuilder(
	describe driven.DescriptionLookup,
	render domain.RenderMode,
	urlPrefix string,
	rng *rand.Rand,
) *OptionBuilder {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if !render.IsValid() {
		render = domain.RenderHTML
	}
	return &OptionBuilder{
		describe:  describe,
		render:    render,
		urlPrefix: urlPrefix,
		rng:       rng,
	}
}

// Build returns the KB options ordered by policy followed by the NIL
// options in nilSet order.
func (b *OptionBuilder) Build(
	candidates []domain.CandidateEntity,
	ordering domain.OrderingPolicy,
	nilSet []domain.NilSentinel,
) []domain.Option {
	return b.AppendNil(b.KBOptions(candidates, ordering), nilSet)
}

// AppendNil appends the NIL options to kbOptions, leaving out any sentinel
// whose id is already present (a gold id may itself be a NIL answer).
func (b *OptionBuilder) AppendNil(kbOptions []domain.Option, nilSet []domain.NilSentinel) []domain.Option {
	options := slices.Clip(kbOptions)
	for _, o := range b.NilOptions(nilSet) {
		if slices.ContainsFunc(kbOptions, func(k domain.Option) bool { return k.ID == o.ID }) {
			continue
		}
		options = append(options, o)
	}
	return options
}

// KBOptions renders the candidates, keeping only the first occurrence of
// each id, and orders them by policy.
func (b *OptionBuilder) KBOptions(candidates []domain.CandidateEntity, ordering domain.OrderingPolicy) []domain.Option {
	seen := make(map[string]struct{}, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}

	switch ordering {
	case domain.OrderShuffle:
		b.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	default:
		slices.SortFunc(ids, compareEntityIDs)
	}

	options := make([]domain.Option, len(ids))
	for i, id := range ids {
		options[i] = b.renderOption(id)
	}
	return options
}

// NilOptions renders the NIL sentinels in the given order. Repeated
// sentinels are listed once.
func (b *OptionBuilder) NilOptions(nilSet []domain.NilSentinel) []domain.Option {
	options := make([]domain.Option, 0, len(nilSet))
	for i, n := range nilSet {
		if slices.Contains(nilSet[:i], n) {
			continue
		}
		options = append(options, domain.Option{ID: n.String(), Text: n.Label()})
	}
	return options
}

func (b *OptionBuilder) renderOption(id string) domain.Option {
	desc := NoDescription
	if b.describe != nil {
		if d, ok := b.describe.Describe(id); ok && d != "" {
			desc = d
		}
	}

	if b.render == domain.RenderText {
		return domain.Option{ID: id, Text: id + ": " + desc}
	}
	return domain.Option{
		ID:   id,
		HTML: "<a href='" + html.EscapeString(b.urlPrefix+id) + "'>" + html.EscapeString(id+": "+desc) + "</a>",
	}
}

// compareEntityIDs orders ids by the integer after their first character
// ("Q76" < "Q1000"). Ids without such a number sort after all numeric ids,
// lexically.
func compareEntityIDs(a, b string) int {
	na, okA := entityNumber(a)
	nb, okB := entityNumber(b)
	switch {
	case okA && okB:
		return cmp.Or(cmp.Compare(na, nb), cmp.Compare(a, b))
	case okA:
		return -1
	case okB:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

func entityNumber(id string) (int64, bool) {
	if len(id) < 2 {
		return 0, false
	}
	n, err := strconv.ParseInt(id[1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
