package driven

import (
	"context"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

// DatasetStore persists named collections of tasks.
// The pipeline only reads from it to seed deduplication.
type DatasetStore interface {
	// Contains reports whether a dataset with the given name exists.
	Contains(ctx context.Context, name string) (bool, error)

	// Load returns every task stored under name, in insertion order.
	// Returns domain.ErrNotFound if the dataset does not exist.
	Load(ctx context.Context, name string) ([]domain.Task, error)

	// Save appends tasks to the named dataset, creating it if needed.
	Save(ctx context.Context, name string, tasks []domain.Task) error

	// List returns a summary of every dataset.
	List(ctx context.Context) ([]domain.Dataset, error)

	// Delete removes a dataset and its tasks.
	Delete(ctx context.Context, name string) error
}
