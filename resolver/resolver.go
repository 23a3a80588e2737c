// Package resolver fetches supplementary DID documents for verified
// subject addresses over HTTP. It is the only networked component; the
// verification pipeline treats every failure here as "no document".
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sensespace/did-go/internal/platform/privacylog"
	"github.com/sensespace/did-go/internal/platform/ratelimiter"
)

// DefaultBaseURL is the production document endpoint.
const DefaultBaseURL = "https://did.sensespace.io/v1/did/"

const maxDocumentBytes = 1 << 20

// ErrNoDocument reports that no document is available for a subject, for
// any reason: non-2xx status, transport failure, oversized or non-JSON
// body, or local rate limiting.
var ErrNoDocument = errors.New("no document available")

// HTTPResolver issues a single GET per lookup, baseURL + subject. No
// retries; callers bound the call through the context.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
	limiter *ratelimiter.MapLimiter
	logger  *slog.Logger
	now     func() time.Time
}

// Options for NewHTTP; zero values select the defaults.
type Options struct {
	Client   *http.Client
	Logger   *slog.Logger
	FetchRPS float64 // per-subject; <= 0 disables rate limiting
	Burst    int
	Now      func() time.Time
}

func NewHTTP(baseURL string, opts Options) *HTTPResolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = privacylog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HTTPResolver{
		baseURL: baseURL,
		client:  client,
		limiter: ratelimiter.New(opts.FetchRPS, opts.Burst),
		logger:  logger,
		now:     now,
	}
}

// Resolve fetches the document keyed by the subject address. Any outcome
// other than a 2xx response with a JSON body maps to ErrNoDocument.
func (r *HTTPResolver) Resolve(ctx context.Context, subject string) (json.RawMessage, error) {
	if !r.limiter.Allow(subject, r.now()) {
		r.logger.Debug("document fetch rate limited", "subject", subject)
		return nil, ErrNoDocument
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+subject, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocument, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocument, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrNoDocument, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocument, err)
	}
	if len(body) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: document too large", ErrNoDocument)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrNoDocument)
	}
	return json.RawMessage(body), nil
}
