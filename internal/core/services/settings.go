package services

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
	"github.com/custodia-labs/linktask/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyRecipe          = "pipeline.recipe"
	KeyDataset         = "pipeline.dataset"
	KeyOrdering        = "pipeline.ordering"
	KeyDrop            = "pipeline.drop"
	KeyDedup           = "pipeline.dedup"
	KeyNilSet          = "pipeline.nil_set"
	KeyLabels          = "pipeline.labels"
	KeyIgnoreLabels    = "pipeline.ignore_labels"
	KeyExclude         = "pipeline.exclude"
	KeyRenderMode      = "render.mode"
	KeyURLPrefix       = "render.url_prefix"
	KeyKBPath          = "kb.path"
	KeyKBURL           = "kb.url"
	KeyKBTimeoutMS     = "kb.timeout_ms"
	KeyKBRate          = "kb.rate"
	KeyDescPath        = "descriptions.path"
	KeyDescDelimiter   = "descriptions.delimiter"
	KeyDescHeader      = "descriptions.header"
	KeyDescIDColumn    = "descriptions.id_column"
	KeyDescTextColumn  = "descriptions.description_column"
	KeyStorageDir      = "storage.dir"
	defaultStorageName = "data"
)

// SettingsService maps configuration keys onto pipeline and adapter
// settings. Explicit keys override recipe presets.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Pipeline returns the preset of recipe with configured overrides applied.
func (s *SettingsService) Pipeline(recipe domain.Recipe) (domain.PipelineSettings, error) {
	if recipe == "" {
		recipe = domain.Recipe(s.configStore.GetString(KeyRecipe))
	}
	if recipe == "" {
		recipe = domain.RecipeManual
	}
	if !recipe.IsValid() {
		return domain.PipelineSettings{}, fmt.Errorf("%w: recipe %q", domain.ErrUnsupportedType, recipe)
	}

	settings := recipe.Preset()
	settings.Dataset = s.configStore.GetString(KeyDataset)
	settings.ResolverTimeout = domain.DefaultResolverTimeout

	if v := s.configStore.GetString(KeyOrdering); v != "" {
		settings.Ordering = domain.OrderingPolicy(v)
	}
	if v := s.configStore.GetString(KeyDrop); v != "" {
		settings.Drop = domain.DropPolicy(v)
	}
	if v := s.configStore.GetString(KeyDedup); v != "" {
		mode, err := domain.ParseDedupMode(v)
		if err != nil {
			return domain.PipelineSettings{}, err
		}
		settings.Dedup = mode
	}
	if _, ok := s.configStore.Get(KeyNilSet); ok {
		nilSet, err := ParseNilSet(s.configStore.GetStringSlice(KeyNilSet))
		if err != nil {
			return domain.PipelineSettings{}, err
		}
		settings.NilSet = nilSet
	}
	if v := s.configStore.GetString(KeyRenderMode); v != "" {
		settings.Render = domain.RenderMode(v)
	}
	if v := s.configStore.GetString(KeyURLPrefix); v != "" {
		settings.URLPrefix = v
	}
	settings.Labels = s.configStore.GetStringSlice(KeyLabels)
	settings.IgnoreLabels = domain.DefaultIgnoreLabels()
	if _, ok := s.configStore.Get(KeyIgnoreLabels); ok {
		settings.IgnoreLabels = s.configStore.GetStringSlice(KeyIgnoreLabels)
	}
	settings.Exclude = s.configStore.GetStringSlice(KeyExclude)
	if ms := s.configStore.GetInt(KeyKBTimeoutMS); ms > 0 {
		settings.ResolverTimeout = time.Duration(ms) * time.Millisecond
	}

	return settings, settings.Validate()
}

// Adapters returns the configured adapter locations.
func (s *SettingsService) Adapters() domain.AdapterSettings {
	desc := domain.DefaultDescriptionTable()
	desc.Path = s.configStore.GetString(KeyDescPath)
	if d := s.configStore.GetString(KeyDescDelimiter); d != "" {
		r, _ := utf8.DecodeRuneInString(d)
		desc.Delimiter = r
	}
	if _, ok := s.configStore.Get(KeyDescHeader); ok {
		desc.Header = s.configStore.GetBool(KeyDescHeader)
	}
	if _, ok := s.configStore.Get(KeyDescIDColumn); ok {
		desc.IDColumn = s.configStore.GetInt(KeyDescIDColumn)
	}
	if _, ok := s.configStore.Get(KeyDescTextColumn); ok {
		desc.DescriptionColumn = s.configStore.GetInt(KeyDescTextColumn)
	}

	storageDir := s.configStore.GetString(KeyStorageDir)
	if storageDir == "" {
		storageDir = filepath.Join(filepath.Dir(s.configStore.Path()), defaultStorageName)
	}

	return domain.AdapterSettings{
		KBPath:       s.configStore.GetString(KeyKBPath),
		KBURL:        s.configStore.GetString(KeyKBURL),
		KBRate:       s.configStore.GetFloat(KeyKBRate),
		Descriptions: desc,
		StorageDir:   storageDir,
	}
}

// Set stores a raw setting.
func (s *SettingsService) Set(key string, value any) error {
	return s.configStore.Set(key, value)
}

// All returns every stored setting.
func (s *SettingsService) All() map[string]any {
	return s.configStore.All()
}

// ParseNilSet parses sentinel names in order, accepting "all" for every
// sentinel and "none" for an empty set.
func ParseNilSet(names []string) ([]domain.NilSentinel, error) {
	nilSet := make([]domain.NilSentinel, 0, len(names))
	for _, name := range names {
		switch name {
		case "all":
			for _, n := range domain.AllNilSentinels() {
				if !slices.Contains(nilSet, n) {
					nilSet = append(nilSet, n)
				}
			}
			continue
		case "none", "":
			continue
		}
		n, ok := domain.ParseNilSentinel(name)
		if !ok {
			return nil, fmt.Errorf("%w: nil sentinel %q", domain.ErrUnsupportedType, name)
		}
		if !slices.Contains(nilSet, n) {
			nilSet = append(nilSet, n)
		}
	}
	return nilSet, nil
}
