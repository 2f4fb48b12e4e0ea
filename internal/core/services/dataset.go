package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
	"github.com/custodia-labs/linktask/internal/core/ports/driving"
	"github.com/custodia-labs/linktask/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// DatasetService manages persisted datasets.
type DatasetService struct {
	store       driven.DatasetStore
	fingerprint *Fingerprinter
}

// NewDatasetService creates a dataset service.
func NewDatasetService(store driven.DatasetStore) *DatasetService {
	return &DatasetService{store: store, fingerprint: NewFingerprinter()}
}

// List returns all datasets.
func (s *DatasetService) List(ctx context.Context) ([]domain.Dataset, error) {
	return s.store.List(ctx)
}

// Import stamps missing fingerprints and appends tasks to the dataset.
func (s *DatasetService) Import(ctx context.Context, name string, tasks []domain.Task) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: dataset name is required", domain.ErrInvalidInput)
	}

	for i := range tasks {
		if tasks[i].InputHash != 0 && tasks[i].TaskHash != 0 {
			continue
		}
		if err := s.fingerprint.Stamp(&tasks[i]); err != nil {
			// Still stored; dedup recomputes and reports it when seeding.
			logger.Warn("task %d of %s: %v", i, name, err)
		}
	}

	if err := s.store.Save(ctx, name, tasks); err != nil {
		return 0, fmt.Errorf("save dataset %s: %w", name, err)
	}
	return len(tasks), nil
}

// Delete removes a dataset.
func (s *DatasetService) Delete(ctx context.Context, name string) error {
	ok, err := s.store.Contains(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("dataset %s: %w", name, domain.ErrNotFound)
	}
	return s.store.Delete(ctx, name)
}

// Stats counts the decisions recorded in an annotated dataset.
func (s *DatasetService) Stats(ctx context.Context, name string) (*domain.AnnotationStats, error) {
	tasks, err := s.store.Load(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		return nil, err
	}
	return AnalyseAnnotations(name, tasks), nil
}

// AnalyseAnnotations tallies accepted KB links, NIL choices per sentinel,
// unanswered, ignored and rejected tasks.
func AnalyseAnnotations(name string, tasks []domain.Task) *domain.AnnotationStats {
	stats := &domain.AnnotationStats{
		Dataset: name,
		Nil:     make(map[domain.NilSentinel]int),
	}
	texts := make(map[string]struct{})

	for _, task := range tasks {
		stats.Total++
		texts[task.Text] = struct{}{}

		switch task.Answer {
		case domain.AnswerAccept:
		case domain.AnswerIgnore:
			stats.Ignored++
			continue
		default:
			stats.Rejected++
			continue
		}
		if len(task.Accept) == 0 {
			stats.Unanswered++
			continue
		}

		choice := task.Accept[0]
		if domain.IsNilID(choice) {
			stats.Nil[domain.NilSentinel(choice)]++
		} else {
			stats.Linked++
		}
	}

	stats.Texts = len(texts)
	return stats
}
