package token

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sensespace/did-go/address"
	"github.com/sensespace/did-go/internal/b64url"
	"github.com/sensespace/did-go/keys"
)

const (
	// DefaultIssuer is the issuer claim written when callers do not set one.
	DefaultIssuer = "sensespace"

	// DefaultExpiry bounds token lifetime when callers do not set one.
	DefaultExpiry = 30 * 24 * time.Hour
)

// IssueOptions tunes a single issuance. The zero value issues a token for
// the key's own derived address under the default issuer and expiry.
type IssueOptions struct {
	// Subject overrides the address derived from the signing key.
	Subject string
	// Issuer defaults to DefaultIssuer.
	Issuer string
	// ExpiresIn defaults to DefaultExpiry.
	ExpiresIn time.Duration
	// ExtraClaims are merged into the payload. Reserved claim names
	// (iss, sub, iat, exp, nbf) cannot be overridden from here.
	ExtraClaims map[string]any
	// Now substitutes the clock, for deterministic issuance.
	Now func() time.Time
}

// Issue builds and signs a token. The key is accepted in any form
// keys.ParseSigningKey understands: raw seed or private-key bytes, or a
// hex/base64 seed string.
func Issue(key any, opts IssueOptions) (string, error) {
	priv, err := keys.ParseSigningKey(key)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	issuer := opts.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	expiresIn := opts.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = DefaultExpiry
	}
	subject := opts.Subject
	if subject == "" {
		pub := priv.Public().(ed25519.PublicKey)
		subject, err = address.Encode(pub, address.DefaultPrefix)
		if err != nil {
			return "", fmt.Errorf("derive subject address: %w", err)
		}
	}

	issuedAt := now().Unix()
	expiresAt := issuedAt + int64(expiresIn/time.Second)
	claims := Claims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  &issuedAt,
		ExpiresAt: &expiresAt,
		NotBefore: &issuedAt,
		Extra:     opts.ExtraClaims,
	}

	headerJSON, err := json.Marshal(Header{Algorithm: AlgorithmEdDSA, Type: headerType})
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	signingInput := b64url.Encode(headerJSON) + "." + b64url.Encode(claimsJSON)
	signature := ed25519.Sign(priv, []byte(signingInput))
	return signingInput + "." + b64url.Encode(signature), nil
}
