package domain

import "time"

// Dataset summarises a named collection of persisted tasks.
type Dataset struct {
	// Name is the unique dataset name.
	Name string

	// TaskCount is the number of tasks stored under the name.
	TaskCount int

	// CreatedAt is when the first task was saved.
	CreatedAt time.Time

	// UpdatedAt is when tasks were last saved.
	UpdatedAt time.Time
}

// Answer values written by the annotation tool.
const (
	AnswerAccept = "accept"
	AnswerReject = "reject"
	AnswerIgnore = "ignore"
)

// AnnotationStats summarises the decisions recorded in an annotated dataset.
type AnnotationStats struct {
	// Dataset is the analysed dataset name.
	Dataset string

	// Total is the number of tasks read.
	Total int

	// Linked counts accepted tasks whose choice is a KB identifier.
	Linked int

	// Nil counts accepted tasks per chosen NIL sentinel.
	Nil map[NilSentinel]int

	// Unanswered counts accepted tasks with no option chosen.
	Unanswered int

	// Ignored counts tasks the annotator skipped with ignore.
	Ignored int

	// Rejected counts tasks answered reject, or with an unknown answer.
	Rejected int

	// Texts is the number of distinct input texts.
	Texts int
}

// NilTotal returns the number of NIL decisions across all sentinels.
func (s AnnotationStats) NilTotal() int {
	total := 0
	for _, n := range s.Nil {
		total += n
	}
	return total
}
