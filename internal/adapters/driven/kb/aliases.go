package kb

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

// Alias links a surface form to one entity with an optional prior.
type Alias struct {
	Alias    string
	EntityID string
	Prior    *float64
}

// ReadAliases parses rows of alias, entity id and an optional prior
// probability. Lines starting with '#' are comments.
func ReadAliases(r io.Reader, delimiter rune) ([]Alias, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var aliases []Alias
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading aliases: %w", domain.ErrInvalidInput, err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: alias line %d: expected alias and entity id", domain.ErrInvalidInput, line)
		}

		a := Alias{Alias: strings.TrimSpace(row[0]), EntityID: strings.TrimSpace(row[1])}
		if a.Alias == "" || a.EntityID == "" {
			return nil, fmt.Errorf("%w: alias line %d: empty field", domain.ErrInvalidInput, line)
		}
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			p, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: alias line %d: prior %q", domain.ErrInvalidInput, line, row[2])
			}
			a.Prior = &p
		}
		aliases = append(aliases, a)
	}
	return aliases, nil
}

// sortByPrior orders candidates by descending prior; candidates without a
// prior keep their relative order after those with one.
func sortByPrior(candidates []domain.CandidateEntity) {
	slices.SortStableFunc(candidates, func(a, b domain.CandidateEntity) int {
		switch {
		case a.Score == nil && b.Score == nil:
			return 0
		case a.Score == nil:
			return 1
		case b.Score == nil:
			return -1
		default:
			return cmp.Compare(*b.Score, *a.Score)
		}
	})
}
