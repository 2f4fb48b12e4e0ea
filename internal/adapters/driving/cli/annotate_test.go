package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linktask/internal/adapters/driven/jsonl"
	"github.com/custodia-labs/linktask/internal/core/domain"
)

const obamaMentions = `{"text":"Barack Obama was born in Hawaii.","spans":[{"start":0,"end":12,"label":"PERSON"},{"start":25,"end":31,"label":"GPE"}],"article_id":"a-1"}
{"text":"It rained on 4 July.","spans":[{"start":13,"end":19,"label":"DATE"}]}
`

const obamaAliases = "Barack Obama\tQ76\t0.9\nHawaii\tQ782\t0.8\nHawaii\tQ68740\t0.1\n"

func readTasks(t *testing.T, out string) []domain.Task {
	t.Helper()
	tasks, err := jsonl.ReadTasks(strings.NewReader(out))
	require.NoError(t, err)
	return tasks
}

func TestAnnotateCmd_Use(t *testing.T) {
	assert.Equal(t, "annotate", annotateCmd.Use)
	assert.Contains(t, annotateCmd.Long, "manual")
	assert.Contains(t, annotateCmd.Long, "match")
}

func TestAnnotateCmd_HasFlags(t *testing.T) {
	for _, name := range []string{
		"recipe", "dataset", "source", "kb", "kb-url", "descriptions", "ordering", "render",
		"nil", "drop-empty", "keep-empty", "dedup", "resume", "exclude", "labels", "ignore-labels", "output",
	} {
		assert.NotNil(t, annotateCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "-", annotateCmd.Flags().Lookup("source").DefValue)
}

func TestAnnotateCmd_ManualRecipe(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	kbPath := writeTestFile(t, "aliases.tsv", obamaAliases)

	stdout, stderr, err := executeCommand(obamaMentions, "annotate", "--kb", kbPath)

	require.NoError(t, err)
	tasks := readTasks(t, stdout)
	require.Len(t, tasks, 2)
	assert.Equal(t, []string{"Q76", "NIL_otherLink", "NIL_ambiguous"}, tasks[0].OptionIDs())
	assert.Equal(t, []string{"Q782", "Q68740", "NIL_otherLink", "NIL_ambiguous"}, tasks[1].OptionIDs())
	assert.Equal(t, "Barack Obama", tasks[0].Spans[0].Text)
	assert.Equal(t, "a-1", tasks[0].Meta["article_id"])
	assert.NotZero(t, tasks[0].InputHash)
	assert.Contains(t, stderr, "Wrote 2 tasks")
}

func TestAnnotateCmd_FlagsOverrideRecipe(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	kbPath := writeTestFile(t, "aliases.tsv", obamaAliases)
	descPath := writeTestFile(t, "descriptions.csv", "id|description\nQ76|44th president of the United States\n")

	stdout, _, err := executeCommand(obamaMentions, "annotate",
		"--recipe", "eval", "--ordering", "deterministic", "--render", "text",
		"--kb", kbPath, "--descriptions", descPath, "--labels", "PERSON")

	require.NoError(t, err)
	tasks := readTasks(t, stdout)
	require.Len(t, tasks, 1)
	assert.Equal(t,
		[]string{"Q76", "NIL_otherLink", "NIL_ambiguous", "NIL_noNE", "NIL_noSentence", "NIL_unsure"},
		tasks[0].OptionIDs())
	assert.Equal(t, "Q76: 44th president of the United States", tasks[0].Options[0].Text)
	assert.Empty(t, tasks[0].Options[0].HTML)
}

func TestAnnotateCmd_KeepEmptyWithoutKB(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	stdout, _, err := executeCommand(obamaMentions, "annotate", "--keep-empty", "--nil", "otherLink")

	require.NoError(t, err)
	tasks := readTasks(t, stdout)
	require.Len(t, tasks, 2)
	assert.Equal(t, []string{"NIL_otherLink"}, tasks[0].OptionIDs())
}

func TestAnnotateCmd_OutputFileAndSkips(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	kbPath := writeTestFile(t, "aliases.tsv", obamaAliases)
	source := writeTestFile(t, "mentions.jsonl", "not json\n"+obamaMentions)
	out := filepath.Join(t.TempDir(), "tasks.jsonl")

	_, stderr, err := executeCommand("", "annotate", "--kb", kbPath, "--source", source, "--output", out)

	require.NoError(t, err)
	assert.Contains(t, stderr, "1 records skipped")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, readTasks(t, string(data)), 2)
}

func TestAnnotateCmd_ResumeSkipsStoredInputs(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	kbPath := writeTestFile(t, "aliases.tsv", obamaAliases)

	first, _, err := executeCommand(obamaMentions, "annotate", "--kb", kbPath)
	require.NoError(t, err)
	done := readTasks(t, first)[:1]
	require.NoError(t, datasetStore.Save(context.Background(), "news", done))
	resetFlags(rootCmd)

	second, stderr, err := executeCommand(obamaMentions, "annotate", "--kb", kbPath, "--dataset", "news", "--resume")

	require.NoError(t, err)
	tasks := readTasks(t, second)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Hawaii", tasks[0].Spans[0].Text)
	assert.Contains(t, stderr, "1 tasks seeded")
}

func TestAnnotateCmd_DropAndKeepAreExclusive(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, _, err := executeCommand(obamaMentions, "annotate", "--drop-empty", "--keep-empty")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "drop-empty")
}

func TestAnnotateCmd_InvalidPolicies(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"ordering", []string{"--ordering", "by_score"}},
		{"render", []string{"--render", "pdf"}},
		{"nil", []string{"--nil", "maybe"}},
		{"dedup", []string{"--dedup", "options"}},
		{"recipe", []string{"--recipe", "review"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestServices(t)
			defer cleanup()

			_, _, err := executeCommand(obamaMentions, append([]string{"annotate"}, tt.args...)...)

			assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		})
	}
}

func TestAnnotateCmd_ResumeRequiresDataset(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, _, err := executeCommand(obamaMentions, "annotate", "--resume")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
