// Package services implements the driving port interfaces.
// Services contain the candidate resolution and task construction logic
// and orchestrate calls to driven ports (adapters).
//
// Every stage is a lazy iter.Seq2 evaluated on the caller's goroutine:
// records are processed left to right and spans in order, and nothing
// beyond the current record is buffered.
package services
