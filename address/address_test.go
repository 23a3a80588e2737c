package address

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/mr-tron/base58/base58"
)

func mustPublicKey(t *testing.T) []byte {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return pub
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pub := mustPublicKey(t)
	for _, prefix := range []byte{0, 2, DefaultPrefix, 63, 255} {
		addr, err := Encode(pub, prefix)
		if err != nil {
			t.Fatalf("encode prefix %d: %v", prefix, err)
		}
		got, err := Decode(addr)
		if err != nil {
			t.Fatalf("decode prefix %d: %v", prefix, err)
		}
		if !bytes.Equal(got, pub) {
			t.Fatalf("round trip mismatch for prefix %d", prefix)
		}
		again, err := Encode(got, prefix)
		if err != nil {
			t.Fatalf("re-encode prefix %d: %v", prefix, err)
		}
		if again != addr {
			t.Fatalf("re-encoded address differs: %q vs %q", again, addr)
		}
	}
}

func TestEncodeRejectsShortKey(t *testing.T) {
	if _, err := Encode(make([]byte, 31), DefaultPrefix); !errors.Is(err, ErrInvalidPublicKey) {
		t.Fatalf("expected ErrInvalidPublicKey, got %v", err)
	}
}

func TestDecodeRejectsTamperedChecksum(t *testing.T) {
	addr, err := Encode(mustPublicKey(t), DefaultPrefix)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		t.Fatalf("base58 decode: %v", err)
	}
	raw[len(raw)-1] ^= 0x01
	if _, err := Decode(base58.Encode(raw)); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestChecksumSensitiveToEveryPayloadByte(t *testing.T) {
	pub := mustPublicKey(t)
	addr, err := Encode(pub, DefaultPrefix)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		t.Fatalf("base58 decode: %v", err)
	}
	body := raw[:len(raw)-checksumSize]
	want := checksum(body)
	for i := range body {
		flipped := append([]byte(nil), body...)
		flipped[i] ^= 0xff
		if bytes.Equal(checksum(flipped), want) {
			t.Fatalf("checksum unchanged after flipping byte %d", i)
		}
	}
}

func TestDecodeRejectsShortPayload(t *testing.T) {
	short := base58.Encode(make([]byte, 34))
	if _, err := Decode(short); !errors.Is(err, ErrAddressTooShort) {
		t.Fatalf("expected ErrAddressTooShort, got %v", err)
	}
	if _, err := DecodeLenient(short); !errors.Is(err, ErrAddressTooShort) {
		t.Fatalf("lenient: expected ErrAddressTooShort, got %v", err)
	}
}

func TestDecodeRejectsUnsupportedPrefixLength(t *testing.T) {
	long := base58.Encode(make([]byte, 37))
	if _, err := Decode(long); !errors.Is(err, ErrPrefixLength) {
		t.Fatalf("expected ErrPrefixLength, got %v", err)
	}
}

func TestDecodeLenientSkipsChecksum(t *testing.T) {
	pub := mustPublicKey(t)
	addr, err := Encode(pub, DefaultPrefix)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		t.Fatalf("base58 decode: %v", err)
	}
	raw[len(raw)-1] ^= 0x01
	got, err := DecodeLenient(base58.Encode(raw))
	if err != nil {
		t.Fatalf("lenient decode: %v", err)
	}
	if !bytes.Equal(got, pub) {
		t.Fatal("lenient decode should still recover the key")
	}
}

func TestDecodeLenientInfersWidePrefix(t *testing.T) {
	pub := mustPublicKey(t)
	payload := append([]byte{1, 2, 3}, pub...)
	payload = append(payload, checksum(payload)...)
	got, err := DecodeLenient(base58.Encode(payload))
	if err != nil {
		t.Fatalf("lenient decode: %v", err)
	}
	if !bytes.Equal(got, pub) {
		t.Fatal("lenient decode should accept a 3-byte prefix")
	}
}

func TestDefaultPrefixLeadingCharacter(t *testing.T) {
	addr, err := Encode(mustPublicKey(t), DefaultPrefix)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if addr[0] != '5' {
		t.Fatalf("default-prefix address should start with '5', got %q", addr[0])
	}
}
