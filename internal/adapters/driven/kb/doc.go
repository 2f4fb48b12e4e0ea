// Package kb provides knowledge base adapters that map a mention's surface
// form to candidate entities.
//
// Three backends are available:
//
//   - Memory: an alias table held in memory, loaded from a delimited file
//   - SQLite: a read-only alias table in a SQLite database
//   - HTTP: a remote candidate service, rate limited with golang.org/x/time/rate
//
// All backends return candidates ordered by descending prior probability.
// Failures are returned to the caller; the resolver decides how to recover.
package kb
