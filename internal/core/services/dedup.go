package services

import (
	"iter"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/logger"
)

// Deduplicator suppresses tasks whose fingerprint has been seen before.
// Its state only grows, and is not safe for concurrent use.
type Deduplicator struct {
	mode        domain.DedupMode
	fingerprint *Fingerprinter
	seen        map[domain.DedupMode]map[domain.Hash]struct{}
}

// NewDeduplicator creates a deduplicator for the enabled granularities.
func NewDeduplicator(mode domain.DedupMode, fingerprint *Fingerprinter) *Deduplicator {
	seen := make(map[domain.DedupMode]map[domain.Hash]struct{})
	for _, g := range granularities(mode) {
		seen[g] = make(map[domain.Hash]struct{})
	}
	return &Deduplicator{mode: mode, fingerprint: fingerprint, seen: seen}
}

// Seed records the fingerprints of existing tasks without emitting them.
// Fingerprints are recomputed from content, never read from stored hashes.
func (d *Deduplicator) Seed(tasks []domain.Task) error {
	for _, task := range tasks {
		keys, err := d.keys(task)
		if err != nil {
			return err
		}
		d.insert(keys)
	}
	return nil
}

// Filter yields tasks not seen before and marks them as seen. Errors pass
// through unchanged; a fingerprint failure is yielded and ends the stream.
func (d *Deduplicator) Filter(tasks iter.Seq2[domain.Task, error]) iter.Seq2[domain.Task, error] {
	return func(yield func(domain.Task, error) bool) {
		for task, err := range tasks {
			if err != nil {
				if !yield(task, err) {
					return
				}
				continue
			}

			keys, err := d.keys(task)
			if err != nil {
				yield(domain.Task{}, err)
				return
			}
			if d.contains(keys) {
				logger.Debug("Duplicate task %s suppressed", task.InputHash)
				continue
			}
			d.insert(keys)

			if !yield(task, nil) {
				return
			}
		}
	}
}

// Len returns the number of fingerprints held per granularity.
func (d *Deduplicator) Len(mode domain.DedupMode) int {
	return len(d.seen[mode])
}

type dedupKey struct {
	mode domain.DedupMode
	hash domain.Hash
}

func (d *Deduplicator) keys(task domain.Task) ([]dedupKey, error) {
	gs := granularities(d.mode)
	keys := make([]dedupKey, 0, len(gs))
	for _, g := range gs {
		h, err := d.fingerprint.Fingerprint(task, g)
		if err != nil {
			return nil, err
		}
		keys = append(keys, dedupKey{mode: g, hash: h})
	}
	return keys, nil
}

func (d *Deduplicator) contains(keys []dedupKey) bool {
	for _, k := range keys {
		if _, ok := d.seen[k.mode][k.hash]; ok {
			return true
		}
	}
	return false
}

func (d *Deduplicator) insert(keys []dedupKey) {
	for _, k := range keys {
		d.seen[k.mode][k.hash] = struct{}{}
	}
}

func granularities(mode domain.DedupMode) []domain.DedupMode {
	var gs []domain.DedupMode
	for _, g := range []domain.DedupMode{domain.DedupByInput, domain.DedupByTask} {
		if mode.Has(g) {
			gs = append(gs, g)
		}
	}
	return gs
}
