package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

// MentionSource produces mention records, one at a time.
//
// Records opens the underlying input when iteration starts and releases it
// when iteration ends, including when the consumer stops early. A non-nil
// error paired with a zero record is either a *domain.SkipError (the stream
// continues) or a fatal read error (the stream ends).
type MentionSource interface {
	Records(ctx context.Context) iter.Seq2[domain.MentionRecord, error]
}
