package driving

import (
	"context"
	"iter"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// AnnotationService turns mention records into annotation tasks.
type AnnotationService interface {
	// Stream seeds deduplication and returns the lazy task stream.
	// Errors yielded by the stream are either *domain.SkipError values,
	// after which iteration continues, or fatal errors, after which it ends.
	Stream(
		ctx context.Context,
		settings domain.PipelineSettings,
		source driven.MentionSource,
	) (iter.Seq2[domain.Task, error], error)

	// Run drains the stream into sink, counting skips, and returns the
	// run statistics. Only a fatal error stops it early.
	Run(
		ctx context.Context,
		settings domain.PipelineSettings,
		source driven.MentionSource,
		sink driven.TaskSink,
	) (*RunStats, error)
}

// RunStats summarises a pipeline run.
type RunStats struct {
	// Seeded is the number of persisted tasks used to seed deduplication.
	Seeded int

	// Emitted is the number of tasks written to the sink.
	Emitted int

	// Skipped is the number of records skipped as malformed.
	Skipped int

	// SkipReasons holds one message per skipped record.
	SkipReasons []string
}
