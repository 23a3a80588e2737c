// Package privacylog wraps slog handlers so token, signature and key
// material never reaches log output. Subject addresses are reduced to a
// short non-reversible fingerprint; everything else passes through.
package privacylog

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"
)

const redactedValue = "[REDACTED]"

var (
	bootNonce         = randomNonce()
	sensitiveKeyParts = []string{
		"token", "signature", "private_key", "signing_key", "seed",
		"mnemonic", "secret", "authorization",
	}
	fingerprintKeys = map[string]struct{}{
		"subject": {},
		"address": {},
	}
)

type SanitizingHandler struct {
	next slog.Handler
}

func WrapHandler(next slog.Handler) slog.Handler {
	if next == nil {
		return nil
	}
	return &SanitizingHandler{next: next}
}

// Default returns a logger writing to stderr through the sanitizer.
func Default() *slog.Logger {
	return slog.New(WrapHandler(slog.NewTextHandler(os.Stderr, nil)))
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(SanitizeAttr(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		sanitized = append(sanitized, SanitizeAttr(attr))
	}
	return &SanitizingHandler{next: h.next.WithAttrs(sanitized)}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name)}
}

func SanitizeAttr(attr slog.Attr) slog.Attr {
	key := strings.ToLower(strings.TrimSpace(attr.Key))
	if isSensitiveKey(key) {
		return slog.String(attr.Key, redactedValue)
	}
	if _, ok := fingerprintKeys[key]; ok {
		return slog.String(attr.Key+"_fp", Fingerprint(attr.Value.String()))
	}
	return attr
}

// Fingerprint maps a subject address to a short opaque identifier that is
// stable within one process lifetime and unlinkable across restarts.
func Fingerprint(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed + "|" + bootNonce))
	return "fp_" + hex.EncodeToString(sum[:8])
}

func isSensitiveKey(key string) bool {
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "fallback_nonce"
	}
	return hex.EncodeToString(buf)
}
