package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
	"github.com/custodia-labs/linktask/internal/logger"
)

// ResumeManager seeds a Deduplicator from persisted datasets once, at the
// start of a run.
type ResumeManager struct {
	store driven.DatasetStore
}

// NewResumeManager creates a resume manager. store may be nil when neither
// resuming nor exclusion is used.
func NewResumeManager(store driven.DatasetStore) *ResumeManager {
	return &ResumeManager{store: store}
}

// Seed loads the run's own dataset (when settings.Resume is set) and every
// excluded dataset into dedup. Datasets that do not exist yet are skipped.
// Returns the number of tasks seeded.
func (m *ResumeManager) Seed(ctx context.Context, dedup *Deduplicator, settings domain.PipelineSettings) (int, error) {
	var names []string
	if settings.Resume {
		names = append(names, settings.Dataset)
	}
	names = append(names, settings.Exclude...)
	if len(names) == 0 {
		return 0, nil
	}

	if m.store == nil {
		return 0, fmt.Errorf("%w: resume and exclude need a dataset store", domain.ErrInvalidInput)
	}

	logger.Section("Resume")
	seeded := 0
	for _, name := range names {
		ok, err := m.store.Contains(ctx, name)
		if err != nil {
			return seeded, fmt.Errorf("check dataset %s: %w", name, err)
		}
		if !ok {
			logger.Info("Dataset %s does not exist yet, nothing to seed", name)
			continue
		}

		existing, err := m.store.Load(ctx, name)
		if err != nil {
			return seeded, fmt.Errorf("load dataset %s: %w", name, err)
		}
		if err := dedup.Seed(existing); err != nil {
			return seeded, fmt.Errorf("seed from dataset %s: %w", name, err)
		}
		logger.Info("Seeded %d tasks from dataset %s", len(existing), name)
		seeded += len(existing)
	}
	return seeded, nil
}
