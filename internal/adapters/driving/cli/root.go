package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linktask/internal/adapters/driven/config/file"
	"github.com/custodia-labs/linktask/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/linktask/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
	"github.com/custodia-labs/linktask/internal/core/ports/driving"
	"github.com/custodia-labs/linktask/internal/core/services"
	"github.com/custodia-labs/linktask/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	inMemory  bool
)

// Wired services. Commands read these; tests install their own.
var (
	settingsService driving.SettingsService
	datasetStore    driven.DatasetStore
	closers         []func() error
)

var rootCmd = &cobra.Command{
	Use:   "linktask",
	Short: "Build entity-linking annotation tasks",
	Long: `linktask turns named-entity mentions into entity-linking annotation tasks.

Each mention is looked up in a knowledge base. The candidate entities become
selectable options, followed by NIL fallbacks such as "Link not in options".
Tasks are written as JSON Lines, and anything already annotated in a
persisted dataset is skipped.`,
	SilenceUsage:      true,
	PersistentPreRunE: wireServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.linktask)")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "in-memory", false, "keep datasets in memory for this run")
}

// wireServices loads configuration once per process.
func wireServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if settingsService != nil {
		return nil
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)
	return nil
}

// datasets opens the dataset store on first use.
func datasets() (driven.DatasetStore, error) {
	if datasetStore != nil {
		return datasetStore, nil
	}
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}

	if inMemory {
		datasetStore = memory.NewDatasetStore()
		return datasetStore, nil
	}

	dir := settingsService.Adapters().StorageDir
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening dataset store: %w", err)
	}
	logger.Debug("Dataset store: %s", store.Path())
	closers = append(closers, store.Close)
	datasetStore = store.DatasetStore()
	return datasetStore, nil
}

// datasetService returns the dataset service over the opened store.
func datasetService() (driving.DatasetService, error) {
	store, err := datasets()
	if err != nil {
		return nil, err
	}
	return services.NewDatasetService(store), nil
}

// closeServices releases resources opened by commands.
func closeServices() error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i]())
	}
	closers = nil
	datasetStore = nil
	return errors.Join(errs...)
}

// Execute runs the root command. Interrupts cancel the running pipeline.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeServices(); err == nil {
		err = cerr
	}
	return err
}
