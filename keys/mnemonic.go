package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"io"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"
)

const hkdfInfoSigning = "sensespace/did/signing/v1"

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// GenerateMnemonic returns a fresh 24-word bip39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// DeriveFromMnemonic deterministically derives an Ed25519 signing key from
// a bip39 mnemonic and optional passphrase. The bip39 seed is expanded
// through HKDF-SHA256 under a fixed domain-separation string, so the same
// mnemonic always yields the same keypair.
func DeriveFromMnemonic(mnemonic, passphrase string) (ed25519.PrivateKey, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seedBytes := bip39.NewSeed(mnemonic, passphrase)
	signingSeed, err := hkdfExpand(seedBytes, hkdfInfoSigning, ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(signingSeed), nil
}

func hkdfExpand(seed []byte, info string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, seed, nil, []byte(info))
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
