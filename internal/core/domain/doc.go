// Package domain defines the core entities of the annotation pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - MentionRecord, MentionSpan: Input text with mention offsets
//   - CandidateEntity: A knowledge base entity proposed for a mention
//   - NilSentinel: Reserved "no KB entry applies" answers
//   - Task, Option: Annotation-ready output
//   - PipelineSettings: Ordering, drop, dedup and rendering policies
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
