package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// Ensure HTTP implements the interface.
var _ driven.KnowledgeBase = (*HTTP)(nil)

const (
	// DefaultRate is the request rate used when none is configured.
	DefaultRate = 10.0

	// maxResponseSize bounds the decoded candidate payload.
	maxResponseSize = 4 * 1024 * 1024
)

// HTTP queries a remote candidate service with GET {base}?mention=...
// and expects a JSON array of {"id", "score"} objects.
type HTTP struct {
	base    *url.URL
	client  *http.Client
	limiter *rate.Limiter
}

// HTTPOption configures an HTTP knowledge base.
type HTTPOption func(*HTTP)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// WithRate limits requests per second. A rate <= 0 keeps the default.
func WithRate(perSecond float64) HTTPOption {
	return func(h *HTTP) {
		if perSecond > 0 {
			h.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewHTTP creates a client for the candidate service at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: knowledge base url %q", domain.ErrInvalidInput, baseURL)
	}

	h := &HTTP{
		base:    u,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(DefaultRate), 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type candidateJSON struct {
	ID    string   `json:"id"`
	Score *float64 `json:"score,omitempty"`
}

// GetCandidates waits for the rate limiter, then queries the service.
// Non-2xx responses are reported as domain.ErrResolverUnavailable.
func (h *HTTP) GetCandidates(ctx context.Context, mention string) ([]domain.CandidateEntity, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := *h.base
	q := u.Query()
	q.Set("mention", mention)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if retry := resp.Header.Get("Retry-After"); retry != "" {
			msg = fmt.Sprintf("%s (retry after %ss)", msg, retry)
		}
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrResolverUnavailable, resp.StatusCode, msg)
	}

	var payload []candidateJSON
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding candidates: %w", err)
	}

	candidates := make([]domain.CandidateEntity, 0, len(payload))
	for _, c := range payload {
		candidates = append(candidates, domain.CandidateEntity{ID: c.ID, Score: c.Score})
	}
	sortByPrior(candidates)
	return candidates, nil
}
