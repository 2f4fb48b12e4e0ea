package services

import (
	"context"
	"iter"
	"maps"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/logger"
)

// TaskAssembler builds one task per mention span.
type TaskAssembler struct {
	resolver    *CandidateResolver
	builder     *OptionBuilder
	fingerprint *Fingerprinter
	settings    domain.PipelineSettings
}

// NewTaskAssembler creates an assembler applying the ordering, drop, NIL
// and label policies of settings.
func NewTaskAssembler(
	resolver *CandidateResolver,
	builder *OptionBuilder,
	fingerprint *Fingerprinter,
	settings domain.PipelineSettings,
) *TaskAssembler {
	return &TaskAssembler{
		resolver:    resolver,
		builder:     builder,
		fingerprint: fingerprint,
		settings:    settings,
	}
}

// Assemble lazily turns records into tasks, record by record and span by
// span. A record with a malformed span yields a *domain.SkipError and
// produces no tasks. Source skips are passed through. A fingerprint
// failure, a fatal source error or context cancellation is yielded once
// and ends the stream.
func (a *TaskAssembler) Assemble(
	ctx context.Context,
	records iter.Seq2[domain.MentionRecord, error],
) iter.Seq2[domain.Task, error] {
	return func(yield func(domain.Task, error) bool) {
		index := -1
		for rec, err := range records {
			index++
			if err != nil {
				if _, skip := domain.IsSkip(err); skip {
					if !yield(domain.Task{}, err) {
						return
					}
					continue
				}
				yield(domain.Task{}, err)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(domain.Task{}, err)
				return
			}

			if err := rec.Validate(); err != nil {
				if !yield(domain.Task{}, &domain.SkipError{Record: index, Err: err}) {
					return
				}
				continue
			}

			for _, span := range rec.Spans {
				task, ok := a.assembleSpan(ctx, rec, span)
				if !ok {
					continue
				}
				if err := a.fingerprint.Stamp(&task); err != nil {
					yield(domain.Task{}, err)
					return
				}
				if !yield(task, nil) {
					return
				}
			}
		}
	}
}

func (a *TaskAssembler) assembleSpan(
	ctx context.Context,
	rec domain.MentionRecord,
	span domain.MentionSpan,
) (domain.Task, bool) {
	if !a.settings.KeepsLabel(span.Label) {
		logger.Debug("Skipping span [%d, %d) with label %s", span.Start, span.End, span.Label)
		return domain.Task{}, false
	}

	mention := span.Mention(rec.Text)
	candidates := a.resolver.Resolve(ctx, mention, span.ParsedID)
	options := a.builder.KBOptions(candidates, a.settings.Ordering)

	if len(options) == 0 && a.settings.Drop == domain.DropIfNoCandidates {
		logger.Debug("Dropping %q: no candidates", mention)
		return domain.Task{}, false
	}

	options = a.builder.AppendNil(options, a.settings.NilSet)
	if len(options) == 0 {
		logger.Debug("Dropping %q: no candidates and no NIL options", mention)
		return domain.Task{}, false
	}

	if span.Text == "" {
		span.Text = mention
	}

	return domain.Task{
		Text:    rec.Text,
		Spans:   []domain.MentionSpan{span},
		Options: options,
		Meta:    maps.Clone(rec.Meta),
	}, true
}
