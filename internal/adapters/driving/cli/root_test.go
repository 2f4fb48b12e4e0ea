package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linktask/internal/adapters/driven/config/file"
	"github.com/custodia-labs/linktask/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/linktask/internal/core/services"
)

// setupTestServices wires a temporary config directory and an in-memory
// dataset store. The returned function restores the globals.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	configStore, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	settingsService = services.NewSettingsService(configStore)
	datasetStore = memory.NewDatasetStore()

	return func() {
		settingsService = nil
		datasetStore = nil
		closers = nil
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs rootCmd with args and stdin, returning stdout and stderr.
func executeCommand(stdin string, args ...string) (string, string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestFile writes content into a fresh temporary directory.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "linktask", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "in-memory"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"annotate", "preview", "dataset", "kb", "settings", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestWireServices_LoadsConfigDir(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	settingsService = nil

	dir := t.TempDir()
	stdout, _, err := executeCommand("", "--config-dir", dir, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Recipe: manual")
	assert.Contains(t, stdout, filepath.Join(dir, "data"))
}

func TestDatasets_InMemory(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	datasetStore = nil
	inMemory = true

	store, err := datasets()
	require.NoError(t, err)
	assert.IsType(t, &memory.DatasetStore{}, store)
	inMemory = false
}

func TestDatasets_SQLite(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	datasetStore = nil
	require.NoError(t, settingsService.Set(services.KeyStorageDir, t.TempDir()))

	store, err := datasets()
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Len(t, closers, 1)
	require.NoError(t, closeServices())
	assert.Nil(t, datasetStore)
}
