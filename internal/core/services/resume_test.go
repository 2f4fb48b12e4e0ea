package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linktask/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/linktask/internal/core/domain"
)

// failingStore implements driven.DatasetStore and fails every lookup.
type failingStore struct {
	*memory.DatasetStore
	err error
}

func (s *failingStore) Contains(context.Context, string) (bool, error) {
	return false, s.err
}

func TestResumeManager_NothingToSeed(t *testing.T) {
	dedup := NewDeduplicator(domain.DedupByInput, NewFingerprinter())

	n, err := NewResumeManager(nil).Seed(context.Background(), dedup, domain.RecipeManual.Preset())

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResumeManager_SeedsOwnAndExcludedDatasets(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDatasetStore()
	require.NoError(t, store.Save(ctx, "run", []domain.Task{
		{Text: "Paris is big.", Spans: []domain.MentionSpan{{Start: 0, End: 5}}},
	}))
	require.NoError(t, store.Save(ctx, "gold", []domain.Task{
		{Text: "Rome is old.", Spans: []domain.MentionSpan{{Start: 0, End: 4}}},
		{Text: "Oslo is cold.", Spans: []domain.MentionSpan{{Start: 0, End: 4}}},
	}))

	settings := domain.RecipeManual.Preset()
	settings.Dataset = "run"
	settings.Resume = true
	settings.Exclude = []string{"gold"}
	dedup := NewDeduplicator(domain.DedupByInput, NewFingerprinter())

	n, err := NewResumeManager(store).Seed(ctx, dedup, settings)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, dedup.Len(domain.DedupByInput))
}

func TestResumeManager_StoreError(t *testing.T) {
	boom := errors.New("disk I/O error")
	store := &failingStore{DatasetStore: memory.NewDatasetStore(), err: boom}
	settings := domain.RecipeManual.Preset()
	settings.Exclude = []string{"gold"}

	_, err := NewResumeManager(store).Seed(context.Background(), NewDeduplicator(domain.DedupByInput, NewFingerprinter()), settings)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "check dataset gold")
}
