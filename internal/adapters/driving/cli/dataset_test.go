package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

const annotatedExport = `{"text":"Paris","spans":[{"start":0,"end":5}],"options":[{"id":"Q90"},{"id":"NIL_otherLink"}],"answer":"accept","accept":["Q90"]}
{"text":"Paris","spans":[{"start":0,"end":5}],"options":[{"id":"Q90"},{"id":"NIL_otherLink"}],"answer":"accept","accept":["NIL_otherLink"]}
{"text":"Rome","spans":[{"start":0,"end":4}],"options":[{"id":"Q220"},{"id":"NIL_otherLink"}],"answer":"accept","accept":[]}
{"text":"Oslo","spans":[{"start":0,"end":4}],"options":[{"id":"Q585"},{"id":"NIL_otherLink"}],"answer":"reject"}
{"text":"Oslo is cold.","spans":[{"start":0,"end":4}],"options":[{"id":"Q585"},{"id":"NIL_otherLink"}],"answer":"ignore"}
`

func TestDatasetCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, len(datasetCmd.Commands()))
	for _, c := range datasetCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "import", "stats", "delete"}, names)
}

func TestDatasetCmd_ListEmpty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	stdout, _, err := executeCommand("", "dataset", "list")

	require.NoError(t, err)
	assert.Contains(t, stdout, "No datasets.")
}

func TestDatasetCmd_ImportListStatsDelete(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	path := writeTestFile(t, "export.jsonl", annotatedExport)

	stdout, _, err := executeCommand("", "dataset", "import", "gold", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported 5 tasks into gold.")

	tasks, err := datasetStore.Load(context.Background(), "gold")
	require.NoError(t, err)
	assert.NotZero(t, tasks[0].InputHash)

	resetFlags(rootCmd)
	stdout, _, err = executeCommand("", "dataset", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "gold")
	assert.Contains(t, stdout, "5 tasks")

	resetFlags(rootCmd)
	stdout, _, err = executeCommand("", "dataset", "stats", "gold")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Tasks:       5 (4 distinct texts)")
	assert.Contains(t, stdout, "Linked:      1")
	assert.Contains(t, stdout, "NIL_otherLink")
	assert.Contains(t, stdout, "Unanswered:  1")
	assert.Contains(t, stdout, "Ignored:     1")
	assert.Contains(t, stdout, "Rejected:    1")

	resetFlags(rootCmd)
	stdout, _, err = executeCommand("", "dataset", "delete", "gold")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dataset gold deleted.")

	resetFlags(rootCmd)
	_, _, err = executeCommand("", "dataset", "delete", "gold")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDatasetCmd_ImportBadFile(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	path := writeTestFile(t, "export.jsonl", "{broken\n")

	_, _, err := executeCommand("", "dataset", "import", "gold", path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDatasetCmd_StatsMissing(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, _, err := executeCommand("", "dataset", "stats", "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDatasetCmd_ImportRequiresTwoArgs(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, _, err := executeCommand("", "dataset", "import", "gold")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}
