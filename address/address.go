// Package address encodes Ed25519 public keys as checksummed, network-prefixed
// base58 strings and decodes them back.
//
// The raw form of an address is prefix ‖ publicKey(32) ‖ checksum(2), where
// the checksum is the first two bytes of BLAKE2b-512 over prefix ‖ publicKey.
// The prefix is one or two bytes naming the address family.
package address

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrAddressTooShort  = errors.New("address payload is too short")
	ErrKeyLength        = errors.New("address key slice is not 32 bytes")
	ErrChecksumMismatch = errors.New("address checksum mismatch")
	ErrPrefixLength     = errors.New("address prefix length is unsupported")
	ErrInvalidPublicKey = errors.New("public key must be 32 bytes")
)

// DefaultPrefix is the network identifier used when callers do not pick one.
// Addresses carrying it start with the character '5'.
const DefaultPrefix byte = 42

const checksumSize = 2

// Encode returns the textual address for a 32-byte public key under the
// given network prefix.
func Encode(publicKey []byte, prefix byte) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: got %d", ErrInvalidPublicKey, len(publicKey))
	}
	payload := make([]byte, 0, 1+ed25519.PublicKeySize+checksumSize)
	payload = append(payload, prefix)
	payload = append(payload, publicKey...)
	payload = append(payload, checksum(payload)...)
	return base58.Encode(payload), nil
}

// Decode recovers the public key from an address. Only one- and two-byte
// prefixes are accepted, and the embedded checksum must match the one
// recomputed over the prefix and key.
func Decode(addr string) ([]byte, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("address is not base58: %w", err)
	}
	var prefixLen int
	switch len(raw) {
	case 1 + ed25519.PublicKeySize + checksumSize:
		prefixLen = 1
	case 2 + ed25519.PublicKeySize + checksumSize:
		prefixLen = 2
	default:
		if len(raw) < 1+ed25519.PublicKeySize+checksumSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrAddressTooShort, len(raw))
		}
		return nil, fmt.Errorf("%w: %d payload bytes", ErrPrefixLength, len(raw))
	}
	body := raw[:len(raw)-checksumSize]
	if !bytes.Equal(raw[len(raw)-checksumSize:], checksum(body)) {
		return nil, ErrChecksumMismatch
	}
	return body[prefixLen:], nil
}

// DecodeLenient recovers the public key without rechecking the checksum and
// with the prefix length inferred as whatever remains after the fixed key
// and checksum. It exists for compatibility with address families the strict
// decoder does not know; new callers should use Decode.
func DecodeLenient(addr string) ([]byte, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("address is not base58: %w", err)
	}
	if len(raw) < 1+ed25519.PublicKeySize+checksumSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrAddressTooShort, len(raw))
	}
	prefixLen := len(raw) - ed25519.PublicKeySize - checksumSize
	key := raw[prefixLen : len(raw)-checksumSize]
	if len(key) != ed25519.PublicKeySize {
		return nil, ErrKeyLength
	}
	return key, nil
}

func checksum(body []byte) []byte {
	h := blake2b.Sum512(body)
	return h[:checksumSize]
}
