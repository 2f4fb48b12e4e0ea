package driven

import "github.com/custodia-labs/linktask/internal/core/domain"

// TaskSink receives finished tasks, the hand-off point to the annotation UI.
type TaskSink interface {
	// Write emits one task.
	Write(task domain.Task) error

	// Close flushes and releases the sink.
	Close() error
}
