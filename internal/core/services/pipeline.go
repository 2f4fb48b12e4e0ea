package services

import (
	"context"
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
	"github.com/custodia-labs/linktask/internal/core/ports/driving"
	"github.com/custodia-labs/linktask/internal/logger"
)

// Ensure AnnotationPipeline implements the interface.
var _ driving.AnnotationService = (*AnnotationPipeline)(nil)

// AnnotationPipeline wires the resolver, option builder, assembler and
// deduplicator for one run at a time.
type AnnotationPipeline struct {
	kb           driven.KnowledgeBase
	descriptions driven.DescriptionLookup
	store        driven.DatasetStore
	rng          *rand.Rand
}

// NewAnnotationPipeline creates a pipeline. descriptions and store are
// optional and may be nil.
func NewAnnotationPipeline(
	kb driven.KnowledgeBase,
	descriptions driven.DescriptionLookup,
	store driven.DatasetStore,
) *AnnotationPipeline {
	return &AnnotationPipeline{
		kb:           kb,
		descriptions: descriptions,
		store:        store,
	}
}

// WithRand fixes the shuffle source. Runs normally draw a fresh seed.
func (p *AnnotationPipeline) WithRand(rng *rand.Rand) *AnnotationPipeline {
	p.rng = rng
	return p
}

// Stream seeds deduplication and returns the lazy task stream.
func (p *AnnotationPipeline) Stream(
	ctx context.Context,
	settings domain.PipelineSettings,
	source driven.MentionSource,
) (iter.Seq2[domain.Task, error], error) {
	stream, _, err := p.stream(ctx, settings, source)
	return stream, err
}

// Run drains the stream into sink.
func (p *AnnotationPipeline) Run(
	ctx context.Context,
	settings domain.PipelineSettings,
	source driven.MentionSource,
	sink driven.TaskSink,
) (*driving.RunStats, error) {
	stream, seeded, err := p.stream(ctx, settings, source)
	if err != nil {
		return nil, err
	}

	stats := &driving.RunStats{Seeded: seeded}
	logger.Section("Tasks")
	for task, err := range stream {
		if err != nil {
			if skip, ok := domain.IsSkip(err); ok {
				logger.Warn("%v", skip)
				stats.Skipped++
				stats.SkipReasons = append(stats.SkipReasons, skip.Error())
				continue
			}
			return stats, err
		}

		if err := sink.Write(task); err != nil {
			return stats, fmt.Errorf("write task: %w", err)
		}
		stats.Emitted++
	}

	logger.Info("Run complete: %d tasks, %d skipped records", stats.Emitted, stats.Skipped)
	return stats, nil
}

func (p *AnnotationPipeline) stream(
	ctx context.Context,
	settings domain.PipelineSettings,
	source driven.MentionSource,
) (iter.Seq2[domain.Task, error], int, error) {
	if err := settings.Validate(); err != nil {
		return nil, 0, err
	}
	if source == nil {
		return nil, 0, fmt.Errorf("%w: no mention source", domain.ErrInvalidInput)
	}

	logger.Section("Pipeline")
	logger.Info("Recipe %s: ordering=%s drop=%s dedup=%s nil=%d",
		settings.Recipe, settings.Ordering, settings.Drop, settings.Dedup, len(settings.NilSet))

	fingerprint := NewFingerprinter()
	dedup := NewDeduplicator(settings.Dedup, fingerprint)

	seeded, err := NewResumeManager(p.store).Seed(ctx, dedup, settings)
	if err != nil {
		return nil, seeded, err
	}

	assembler := NewTaskAssembler(
		NewCandidateResolver(p.kb, settings.ResolverTimeout),
		NewOptionBuilder(p.descriptions, settings.Render, settings.URLPrefix, p.rng),
		fingerprint,
		settings,
	)

	return dedup.Filter(assembler.Assemble(ctx, source.Records(ctx))), seeded, nil
}
