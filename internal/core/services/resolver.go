package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
	"github.com/custodia-labs/linktask/internal/logger"
)

// CandidateResolver wraps the knowledge base and guarantees that a gold
// (parsed) candidate is always offered. It keeps no state between calls.
type CandidateResolver struct {
	kb      driven.KnowledgeBase
	timeout time.Duration
}

// NewCandidateResolver creates a resolver over kb. Each query is bounded by
// timeout; a non-positive timeout uses domain.DefaultResolverTimeout.
// kb may be nil, in which case only parsed ids are ever returned.
func NewCandidateResolver(kb driven.KnowledgeBase, timeout time.Duration) *CandidateResolver {
	if timeout <= 0 {
		timeout = domain.DefaultResolverTimeout
	}
	return &CandidateResolver{kb: kb, timeout: timeout}
}

// Resolve returns the candidates for mention, unsorted. KB failures and
// timeouts are logged and degrade to zero KB candidates; they are never
// retried. A non-empty parsedID is appended when the KB did not return it.
func (r *CandidateResolver) Resolve(ctx context.Context, mention, parsedID string) []domain.CandidateEntity {
	candidates := r.query(ctx, mention)

	if parsedID = strings.TrimSpace(parsedID); parsedID != "" {
		found := false
		for _, c := range candidates {
			if c.ID == parsedID {
				found = true
				break
			}
		}
		if !found {
			candidates = append(candidates, domain.CandidateEntity{ID: parsedID})
		}
	}

	return candidates
}

func (r *CandidateResolver) query(ctx context.Context, mention string) []domain.CandidateEntity {
	if r.kb == nil {
		return nil
	}

	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.kb.GetCandidates(qctx, mention)
	if err == nil {
		err = qctx.Err()
	}
	if err != nil {
		logger.Warn("%v", fmt.Errorf("%w: %q: %w", domain.ErrResolverUnavailable, mention, err))
		return nil
	}

	candidates := make([]domain.CandidateEntity, 0, len(raw))
	for _, c := range raw {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" || domain.IsNilID(c.ID) {
			continue
		}
		candidates = append(candidates, c)
	}
	logger.Debug("Resolved %q: %d candidates", mention, len(candidates))
	return candidates
}
