package driving

import (
	"context"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

// DatasetService manages persisted datasets.
type DatasetService interface {
	// List returns all datasets.
	List(ctx context.Context) ([]domain.Dataset, error)

	// Import appends annotated tasks to a dataset and returns how many
	// were stored.
	Import(ctx context.Context, name string, tasks []domain.Task) (int, error)

	// Delete removes a dataset.
	Delete(ctx context.Context, name string) error

	// Stats analyses the decisions recorded in a dataset.
	Stats(ctx context.Context, name string) (*domain.AnnotationStats, error)
}
