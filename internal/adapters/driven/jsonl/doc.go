// Package jsonl reads mention records and writes annotation tasks as JSON
// Lines, one object per line.
//
// Records carry "text" and "spans"; every other top-level key is kept as
// metadata and written back at the top level of each task. Tasks carry
// "_input_hash", "_task_hash", "text", "spans" and "options", plus "answer"
// and "accept" once annotated.
package jsonl
