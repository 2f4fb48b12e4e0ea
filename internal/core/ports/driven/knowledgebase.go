package driven

import (
	"context"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

// KnowledgeBase proposes candidate entities for a mention string.
// Construction and storage of the KB are outside this module.
type KnowledgeBase interface {
	// GetCandidates returns the entities the mention may refer to.
	// Implementations must honour ctx cancellation and must not retry.
	GetCandidates(ctx context.Context, mention string) ([]domain.CandidateEntity, error)
}
