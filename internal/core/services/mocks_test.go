package services

import (
	"context"
	"errors"
	"iter"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

// --- Mock implementations ---

// mockKnowledgeBase implements driven.KnowledgeBase for testing.
type mockKnowledgeBase struct {
	candidates map[string][]string
	err        error
	block      bool
	queries    []string
}

func (m *mockKnowledgeBase) GetCandidates(ctx context.Context, mention string) ([]domain.CandidateEntity, error) {
	m.queries = append(m.queries, mention)
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	ids := m.candidates[mention]
	result := make([]domain.CandidateEntity, len(ids))
	for i, id := range ids {
		result[i] = domain.CandidateEntity{ID: id}
	}
	return result, nil
}

// mockDescriptions implements driven.DescriptionLookup for testing.
type mockDescriptions map[string]string

func (m mockDescriptions) Describe(id string) (string, bool) {
	d, ok := m[id]
	return d, ok
}

// sliceSource implements driven.MentionSource over a fixed slice.
type sliceSource struct {
	records []domain.MentionRecord
	errs    map[int]error
	closed  bool
	pulled  int
}

func (s *sliceSource) Records(_ context.Context) iter.Seq2[domain.MentionRecord, error] {
	return func(yield func(domain.MentionRecord, error) bool) {
		s.closed = false
		defer func() { s.closed = true }()
		for i, rec := range s.records {
			s.pulled++
			if err, ok := s.errs[i]; ok {
				if !yield(domain.MentionRecord{}, err) {
					return
				}
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// recordingSink implements driven.TaskSink and keeps every task.
type recordingSink struct {
	tasks    []domain.Task
	writeErr error
}

func (s *recordingSink) Write(task domain.Task) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *recordingSink) Close() error {
	return nil
}

var errKBDown = errors.New("connection refused")

func obamaRecord() domain.MentionRecord {
	return domain.MentionRecord{
		Text:  "Barack Obama was born in Hawaii.",
		Spans: []domain.MentionSpan{{Start: 0, End: 12}},
	}
}

func collect(seq iter.Seq2[domain.Task, error]) ([]domain.Task, []error) {
	var tasks []domain.Task
	var errs []error
	for task, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, errs
}
