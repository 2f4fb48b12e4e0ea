package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

func TestNewDatasetStore(t *testing.T) {
	store := NewDatasetStore()
	require.NotNil(t, store)
}

func TestDatasetStore_SaveAndLoad(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	ok, err := store.Contains(ctx, "news")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "news", []domain.Task{{Text: "a"}}))
	require.NoError(t, store.Save(ctx, "news", []domain.Task{{Text: "b"}}))

	ok, err = store.Contains(ctx, "news")
	require.NoError(t, err)
	assert.True(t, ok)

	tasks, err := store.Load(ctx, "news")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Text)
	assert.Equal(t, "b", tasks[1].Text)
}

func TestDatasetStore_LoadMissing(t *testing.T) {
	store := NewDatasetStore()

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDatasetStore_LoadReturnsCopy(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "news", []domain.Task{{Text: "a"}}))

	tasks, _ := store.Load(ctx, "news")
	tasks[0].Text = "changed"

	again, _ := store.Load(ctx, "news")
	assert.Equal(t, "a", again[0].Text)
}

func TestDatasetStore_ListAndDelete(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "b", []domain.Task{{Text: "x"}, {Text: "y"}}))
	require.NoError(t, store.Save(ctx, "a", []domain.Task{{Text: "z"}}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, 2, list[1].TaskCount)
	assert.False(t, list[1].CreatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, "a"))
	list, _ = store.List(ctx)
	assert.Len(t, list, 1)
}
