package kb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetCandidates(t *testing.T) {
	m := NewMemory()
	m.Add(
		Alias{Alias: "Paris", EntityID: "Q167646", Prior: ptr(0.05)},
		Alias{Alias: "Paris", EntityID: "Q90", Prior: ptr(0.87)},
		Alias{Alias: "Paris", EntityID: "Q90", Prior: ptr(0.01)},
	)

	got, err := m.GetCandidates(context.Background(), "Paris")

	require.NoError(t, err)
	assert.Equal(t, []string{"Q90", "Q167646"}, ids(got))
	assert.InDelta(t, 0.87, *got[0].Score, 1e-9)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_UnknownMention(t *testing.T) {
	got, err := NewMemory().GetCandidates(context.Background(), "Atlantis")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemory_ReturnsCopy(t *testing.T) {
	m := NewMemory()
	m.Add(Alias{Alias: "Rome", EntityID: "Q220"})

	got, err := m.GetCandidates(context.Background(), "Rome")
	require.NoError(t, err)
	got[0].ID = "changed"

	again, err := m.GetCandidates(context.Background(), "Rome")
	require.NoError(t, err)
	assert.Equal(t, "Q220", again[0].ID)
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().GetCandidates(ctx, "Rome")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.csv")
	require.NoError(t, os.WriteFile(path, []byte("Barack Obama,Q76,0.99\nObama,Q76\nObama,Q41773\n"), 0600))

	m, err := LoadMemory(path, ',')
	require.NoError(t, err)

	got, err := m.GetCandidates(context.Background(), "Obama")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q76", "Q41773"}, ids(got))

	_, err = LoadMemory(filepath.Join(t.TempDir(), "absent.csv"), ',')
	assert.Error(t, err)
}
