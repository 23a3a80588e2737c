// Package token implements the compact three-segment signed token format:
// base64url(header) '.' base64url(claims) '.' base64url(signature).
// Parsing is purely structural; time validation and issuance live alongside
// it, while the verification pipeline is assembled in the verify package.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sensespace/did-go/internal/b64url"
)

const (
	// AlgorithmEdDSA is the only signature algorithm the format supports.
	AlgorithmEdDSA = "EdDSA"

	headerType = "JWT"
)

var (
	ErrSegmentCount = errors.New("token must have exactly three segments")
	ErrInvalidJSON  = errors.New("token segment is not a JSON object")
)

// Header is the fixed part of a token naming its algorithm and type.
type Header struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

// Parsed is the structural decomposition of a token. SigningInput is the
// first two dot-segments of the original string, kept verbatim so signature
// verification never depends on JSON re-serialization.
type Parsed struct {
	Header       Header
	Claims       Claims
	Signature    []byte
	SigningInput string
}

// Parse splits and decodes a compact token without any semantic or
// cryptographic checks.
func Parse(s string) (*Parsed, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrSegmentCount, len(parts))
	}
	headerRaw, err := b64url.Decode(parts[0])
	if err != nil {
		return nil, fmt.Errorf("header segment: %w", err)
	}
	claimsRaw, err := b64url.Decode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("claims segment: %w", err)
	}
	signature, err := b64url.Decode(parts[2])
	if err != nil {
		return nil, fmt.Errorf("signature segment: %w", err)
	}

	p := &Parsed{
		Signature:    signature,
		SigningInput: parts[0] + "." + parts[1],
	}
	if err := json.Unmarshal(headerRaw, &p.Header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidJSON, err)
	}
	if err := json.Unmarshal(claimsRaw, &p.Claims); err != nil {
		if errors.Is(err, ErrInvalidJSON) {
			return nil, fmt.Errorf("claims: %w", err)
		}
		return nil, fmt.Errorf("%w: claims: %v", ErrInvalidJSON, err)
	}
	return p, nil
}
