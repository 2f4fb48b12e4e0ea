// Package memory provides in-memory implementations of driven storage
// ports, used by tests and by runs started with --in-memory.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

type dataset struct {
	tasks     []domain.Task
	createdAt time.Time
	updatedAt time.Time
}

// DatasetStore is an in-memory implementation of driven.DatasetStore.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*dataset
}

// NewDatasetStore creates a new in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*dataset),
	}
}

// Contains reports whether a dataset exists.
func (s *DatasetStore) Contains(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.datasets[name]
	return ok, nil
}

// Load returns a copy of the dataset's tasks.
func (s *DatasetStore) Load(_ context.Context, name string) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(ds.tasks), nil
}

// Save appends tasks, creating the dataset if needed.
func (s *DatasetStore) Save(_ context.Context, name string, tasks []domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	ds, ok := s.datasets[name]
	if !ok {
		ds = &dataset{createdAt: now}
		s.datasets[name] = ds
	}
	ds.tasks = append(ds.tasks, tasks...)
	ds.updatedAt = now
	return nil
}

// List returns dataset summaries sorted by name.
func (s *DatasetStore) List(_ context.Context) ([]domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Dataset, 0, len(s.datasets))
	for name, ds := range s.datasets {
		result = append(result, domain.Dataset{
			Name:      name,
			TaskCount: len(ds.tasks),
			CreatedAt: ds.createdAt,
			UpdatedAt: ds.updatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Delete removes a dataset.
func (s *DatasetStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, name)
	return nil
}
