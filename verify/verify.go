// Package verify assembles the token verification pipeline: structural
// parse, subject and algorithm checks, issuer allow-list, time validation,
// address-based key recovery, Ed25519 signature verification, and an
// optional post-verification document fetch.
package verify

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/sensespace/did-go/address"
	"github.com/sensespace/did-go/internal/platform/privacylog"
	"github.com/sensespace/did-go/token"
)

// Resolver fetches the supplementary DID document for a verified subject.
// It is consulted only after cryptographic verification succeeds, and any
// error it returns is swallowed.
type Resolver interface {
	Resolve(ctx context.Context, subject string) (json.RawMessage, error)
}

// Config is the verifier's immutable configuration snapshot. Replace it
// wholesale via SetConfig; never mutate a Config the verifier already holds.
type Config struct {
	// AllowedIssuers is the issuer allow-list. Empty disables the check.
	AllowedIssuers []string
	// MaxTokenAge rejects tokens older than this. Zero means unlimited.
	MaxTokenAge time.Duration
	// SubjectPrefix gates enrichment: documents are fetched only for
	// subjects starting with it. Empty means every subject qualifies.
	SubjectPrefix string
	// Resolver supplies the optional document fetch. Nil disables it.
	Resolver Resolver
}

// DefaultConfig allows the fixed default issuer, applies no age bound, and
// fetches documents only for default-prefix addresses.
func DefaultConfig() Config {
	return Config{
		AllowedIssuers: []string{token.DefaultIssuer},
		SubjectPrefix:  "5",
	}
}

// Result is the all-or-nothing outcome of a verification. A failed Result
// carries a human-readable Reason; a successful one carries the validated
// claims and, when enrichment produced one, the subject's document.
type Result struct {
	OK       bool
	Reason   string
	Claims   *token.Claims
	Document json.RawMessage
}

// Verifier runs the pipeline. It holds no per-call state and is safe for
// concurrent use; SetConfig swaps the configuration snapshot with
// last-writer-wins visibility for in-flight calls.
type Verifier struct {
	Now     func() time.Time
	Logger  *slog.Logger
	Metrics *Metrics

	cfg atomic.Pointer[Config]
}

func New(cfg Config) *Verifier {
	v := &Verifier{}
	v.cfg.Store(&cfg)
	return v
}

// SetConfig replaces the whole configuration value.
func (v *Verifier) SetConfig(cfg Config) {
	v.cfg.Store(&cfg)
}

func (v *Verifier) Config() Config {
	return *v.cfg.Load()
}

// Verify runs the full pipeline over a compact token string. It never
// panics and never returns an error: every failure, including any fault
// inside a pipeline step, becomes a failed Result.
func (v *Verifier) Verify(ctx context.Context, tok string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = v.fail(stageInternal, fmt.Sprintf("verification fault: %v", r))
		}
	}()

	cfg := v.cfg.Load()

	parsed, err := token.Parse(tok)
	if err != nil {
		return v.fail(stageParse, "invalid token format: "+err.Error())
	}

	subject := parsed.Claims.Subject
	if subject == "" {
		return v.fail(stageSubject, "missing subject")
	}

	if alg := parsed.Header.Algorithm; alg != token.AlgorithmEdDSA {
		return v.fail(stageAlgorithm, fmt.Sprintf("unsupported algorithm %q", alg))
	}

	if len(cfg.AllowedIssuers) > 0 && parsed.Claims.Issuer != "" &&
		!slices.Contains(cfg.AllowedIssuers, parsed.Claims.Issuer) {
		return v.fail(stageIssuer, fmt.Sprintf("issuer %q is not allowed", parsed.Claims.Issuer))
	}

	if err := token.ValidateTimes(&parsed.Claims, cfg.MaxTokenAge, v.now()); err != nil {
		return v.fail(stageTime, err.Error())
	}

	pub, err := address.Decode(subject)
	if err != nil {
		return v.fail(stageAddress, "invalid subject address: "+err.Error())
	}

	if !ed25519.Verify(pub, []byte(parsed.SigningInput), parsed.Signature) {
		return v.fail(stageSignature, "invalid signature")
	}

	res = Result{OK: true, Claims: &parsed.Claims}
	if cfg.Resolver != nil && hasSubjectPrefix(subject, cfg.SubjectPrefix) {
		res.Document = v.enrich(ctx, cfg.Resolver, subject)
	}
	v.Metrics.observe(stageOK)
	return res
}

func (v *Verifier) fail(stage, reason string) Result {
	v.Metrics.observe(stage)
	return Result{Reason: reason}
}

// enrich fetches the subject's document. Failure is logged and swallowed;
// it never downgrades an otherwise-successful verification.
func (v *Verifier) enrich(ctx context.Context, r Resolver, subject string) json.RawMessage {
	doc, err := r.Resolve(ctx, subject)
	if err != nil {
		v.Metrics.observeEnrichmentFailure()
		v.logger().Warn("document fetch failed", "subject", subject, "error", err.Error())
		return nil
	}
	return doc
}

func (v *Verifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

func (v *Verifier) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return privacylog.Default()
}

func hasSubjectPrefix(subject, prefix string) bool {
	if prefix == "" {
		return true
	}
	return len(subject) >= len(prefix) && subject[:len(prefix)] == prefix
}
