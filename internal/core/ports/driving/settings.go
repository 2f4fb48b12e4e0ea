package driving

import "github.com/custodia-labs/linktask/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Pipeline returns the pipeline settings for a recipe, with configured
	// overrides applied on top of the recipe preset. An empty recipe uses
	// the configured default recipe.
	Pipeline(recipe domain.Recipe) (domain.PipelineSettings, error)

	// Adapters returns the configured adapter locations.
	Adapters() domain.AdapterSettings

	// Set stores a raw setting.
	Set(key string, value any) error

	// All returns every stored setting.
	All() map[string]any
}
