// Package cli provides the cobra command tree of the linktask binary.
//
// Commands:
//
//   - annotate: build tasks from a mention source and write them as JSONL
//   - preview: show the first tasks a run would produce
//   - dataset: list, import, inspect and delete persisted datasets
//   - kb: build a SQLite alias table and look up candidates
//   - settings: show and change configuration
//   - version: print the version
package cli
