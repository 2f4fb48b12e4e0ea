package kb

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// Ensure Memory implements the interface.
var _ driven.KnowledgeBase = (*Memory)(nil)

// Memory is an in-memory alias table.
type Memory struct {
	mu      sync.RWMutex
	aliases map[string][]domain.CandidateEntity
}

// NewMemory creates an empty alias table.
func NewMemory() *Memory {
	return &Memory{aliases: make(map[string][]domain.CandidateEntity)}
}

// LoadMemory reads a delimited alias file into a new table.
func LoadMemory(path string, delimiter rune) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening alias file: %w", err)
	}
	defer f.Close()

	aliases, err := ReadAliases(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m := NewMemory()
	m.Add(aliases...)
	return m, nil
}

// Add registers aliases. A repeated alias and entity pair keeps the first
// prior seen.
func (m *Memory) Add(aliases ...Alias) {
	m.mu.Lock()
	defer m.mu.Unlock()

	touched := make(map[string]struct{})
	for _, a := range aliases {
		existing := m.aliases[a.Alias]
		if slices.ContainsFunc(existing, func(c domain.CandidateEntity) bool { return c.ID == a.EntityID }) {
			continue
		}
		m.aliases[a.Alias] = append(existing, domain.CandidateEntity{ID: a.EntityID, Score: a.Prior})
		touched[a.Alias] = struct{}{}
	}
	for alias := range touched {
		sortByPrior(m.aliases[alias])
	}
}

// Len returns the number of distinct aliases.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.aliases)
}

// GetCandidates returns the entities registered for mention.
func (m *Memory) GetCandidates(ctx context.Context, mention string) ([]domain.CandidateEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.aliases[mention]), nil
}
