// Package keys parses caller-supplied Ed25519 signing keys and derives
// deterministic keypairs from bip39 mnemonics. Keys exist only in memory;
// nothing here persists or logs key material.
package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrInvalidKeyLength = errors.New("signing key must decode to a 32-byte seed")
	ErrUnsupportedKey   = errors.New("unsupported signing key input")
)

// ParseSigningKey accepts a private key as a raw 32-byte seed, a raw
// 64-byte Ed25519 private key, or a string holding a 32-byte seed in hex
// or base64 (hex is tried first). The returned key is always the full
// 64-byte Ed25519 form.
func ParseSigningKey(key any) (ed25519.PrivateKey, error) {
	switch k := key.(type) {
	case ed25519.PrivateKey:
		if len(k) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKeyLength, len(k))
		}
		return k, nil
	case []byte:
		return keyFromBytes(k)
	case string:
		decoded, err := decodeKeyString(k)
		if err != nil {
			return nil, err
		}
		if len(decoded) != ed25519.SeedSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKeyLength, len(decoded))
		}
		return ed25519.NewKeyFromSeed(decoded), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

func keyFromBytes(b []byte) (ed25519.PrivateKey, error) {
	switch len(b) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(b), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(b), nil
	default:
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKeyLength, len(b))
	}
}

func decodeKeyString(s string) ([]byte, error) {
	if decoded, err := hex.DecodeString(s); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: not hex or base64", ErrInvalidKeyLength)
	}
	return decoded, nil
}
