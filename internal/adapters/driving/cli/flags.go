package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/linktask/internal/adapters/driven/descriptions"
	"github.com/custodia-labs/linktask/internal/adapters/driven/jsonl"
	"github.com/custodia-labs/linktask/internal/adapters/driven/kb"
	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
	"github.com/custodia-labs/linktask/internal/core/services"
	"github.com/custodia-labs/linktask/internal/logger"
)

// kbFlags selects a knowledge base, overriding the kb.* settings.
type kbFlags struct {
	path      string
	url       string
	rate      float64
	delimiter string
}

func (f *kbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "kb", "", "alias table: a .db SQLite file or a delimited alias file")
	cmd.Flags().StringVar(&f.url, "kb-url", "", "candidate service URL (takes precedence over --kb)")
	cmd.Flags().Float64Var(&f.rate, "kb-rate", 0, "candidate service requests per second")
	cmd.Flags().StringVar(&f.delimiter, "kb-delimiter", "\t", "column delimiter of a delimited alias file")
}

func (f *kbFlags) apply(cmd *cobra.Command, adapters *domain.AdapterSettings) {
	if cmd.Flags().Changed("kb") {
		adapters.KBPath = f.path
	}
	if cmd.Flags().Changed("kb-url") {
		adapters.KBURL = f.url
	}
	if cmd.Flags().Changed("kb-rate") {
		adapters.KBRate = f.rate
	}
}

// open builds the configured knowledge base. It returns nil when none is
// configured. The cleanup function is never nil.
func (f *kbFlags) open(adapters domain.AdapterSettings) (driven.KnowledgeBase, func(), error) {
	noop := func() {}
	switch {
	case adapters.KBURL != "":
		h, err := kb.NewHTTP(adapters.KBURL, kb.WithRate(adapters.KBRate))
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Knowledge base: %s", adapters.KBURL)
		return h, noop, nil

	case isSQLitePath(adapters.KBPath):
		s, err := kb.OpenSQLite(adapters.KBPath)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Knowledge base: %s", adapters.KBPath)
		return s, func() { s.Close() }, nil

	case adapters.KBPath != "":
		delim, err := parseDelimiter(f.delimiter)
		if err != nil {
			return nil, noop, err
		}
		m, err := kb.LoadMemory(adapters.KBPath, delim)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Knowledge base: %s (%d aliases)", adapters.KBPath, m.Len())
		return m, noop, nil

	default:
		return nil, noop, nil
	}
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("%w: delimiter %q must be a single character", domain.ErrInvalidInput, s)
	}
	return r, nil
}

// pipelineFlags are shared by commands that run the pipeline. Flags that
// are set override the recipe preset and the configuration file.
type pipelineFlags struct {
	kb kbFlags

	recipe       string
	dataset      string
	source       string
	descriptions string
	ordering     string
	render       string
	urlPrefix    string
	dedup        string
	nilSet       []string
	labels       []string
	ignoreLabels []string
	exclude      []string
	dropEmpty    bool
	keepEmpty    bool
	resume       bool
	timeout      time.Duration
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	f.kb.register(cmd)

	flags := cmd.Flags()
	flags.StringVarP(&f.recipe, "recipe", "r", "", "recipe preset: manual, eval, annotate or match")
	flags.StringVarP(&f.dataset, "dataset", "d", "", "dataset the tasks are annotated into")
	flags.StringVarP(&f.source, "source", "s", "-", "mention source JSONL file, - for stdin")
	flags.StringVar(&f.descriptions, "descriptions", "", "entity description file")
	flags.StringVar(&f.ordering, "ordering", "", "option ordering: deterministic or shuffle")
	flags.StringVar(&f.render, "render", "", "option rendering: html or text")
	flags.StringVar(&f.urlPrefix, "url-prefix", "", "entity page prefix for html options")
	flags.StringVar(&f.dedup, "dedup", "", "dedup granularity: input, task, input,task or none")
	flags.StringSliceVar(&f.nilSet, "nil", nil, "NIL options in order (otherLink, ambiguous, noNE, noSentence, unsure, all, none)")
	flags.StringSliceVar(&f.labels, "labels", nil, "only build tasks for spans with these labels")
	flags.StringSliceVar(&f.ignoreLabels, "ignore-labels", nil, "skip spans with these labels")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "datasets whose tasks are never offered again")
	flags.BoolVar(&f.dropEmpty, "drop-empty", false, "drop spans without knowledge base candidates")
	flags.BoolVar(&f.keepEmpty, "keep-empty", false, "keep spans without candidates (NIL options only)")
	flags.BoolVar(&f.resume, "resume", false, "skip inputs already stored in --dataset")
	flags.DurationVar(&f.timeout, "kb-timeout", 0, "timeout of a single knowledge base query")
	cmd.MarkFlagsMutuallyExclusive("drop-empty", "keep-empty")
}

// settings resolves pipeline and adapter settings for this invocation.
func (f *pipelineFlags) settings(cmd *cobra.Command) (domain.PipelineSettings, domain.AdapterSettings, error) {
	if settingsService == nil {
		return domain.PipelineSettings{}, domain.AdapterSettings{}, errors.New("settings service not configured")
	}

	s, err := settingsService.Pipeline(domain.Recipe(f.recipe))
	if err != nil {
		return s, domain.AdapterSettings{}, err
	}

	changed := cmd.Flags().Changed
	if changed("dataset") {
		s.Dataset = f.dataset
	}
	if changed("ordering") {
		s.Ordering = domain.OrderingPolicy(f.ordering)
	}
	if changed("render") {
		s.Render = domain.RenderMode(f.render)
	}
	if changed("url-prefix") {
		s.URLPrefix = f.urlPrefix
	}
	if changed("dedup") {
		if s.Dedup, err = domain.ParseDedupMode(f.dedup); err != nil {
			return s, domain.AdapterSettings{}, err
		}
	}
	if changed("nil") {
		if s.NilSet, err = services.ParseNilSet(f.nilSet); err != nil {
			return s, domain.AdapterSettings{}, err
		}
	}
	if changed("labels") {
		s.Labels = f.labels
	}
	if changed("ignore-labels") {
		s.IgnoreLabels = f.ignoreLabels
	}
	if changed("exclude") {
		s.Exclude = f.exclude
	}
	if f.dropEmpty {
		s.Drop = domain.DropIfNoCandidates
	}
	if f.keepEmpty {
		s.Drop = domain.KeepIfNoCandidates
	}
	if changed("resume") {
		s.Resume = f.resume
	}
	if f.timeout > 0 {
		s.ResolverTimeout = f.timeout
	}

	adapters := settingsService.Adapters()
	f.kb.apply(cmd, &adapters)
	if changed("descriptions") {
		adapters.Descriptions.Path = f.descriptions
	}

	return s, adapters, s.Validate()
}

// pipeline builds the annotation pipeline and its mention source.
// cleanup releases the knowledge base and must be called.
func (f *pipelineFlags) pipeline(
	cmd *cobra.Command,
	settings domain.PipelineSettings,
	adapters domain.AdapterSettings,
) (*services.AnnotationPipeline, driven.MentionSource, func(), error) {
	knowledgeBase, cleanup, err := f.kb.open(adapters)
	if err != nil {
		return nil, nil, cleanup, err
	}
	if knowledgeBase == nil {
		logger.Warn("no knowledge base configured; tasks will only offer NIL options")
	}

	var describe driven.DescriptionLookup
	if adapters.Descriptions.Path != "" {
		table, err := descriptions.Load(adapters.Descriptions)
		if err != nil {
			return nil, nil, cleanup, err
		}
		logger.Info("Descriptions: %d entities", table.Len())
		describe = table
	}

	var store driven.DatasetStore
	if settings.Resume || len(settings.Exclude) > 0 {
		if store, err = datasets(); err != nil {
			return nil, nil, cleanup, err
		}
	}

	var source driven.MentionSource
	if f.source == "" || f.source == "-" {
		source = jsonl.NewReaderSource("stdin", cmd.InOrStdin())
	} else {
		source = jsonl.NewSource(f.source)
	}

	return services.NewAnnotationPipeline(knowledgeBase, describe, store), source, cleanup, nil
}
