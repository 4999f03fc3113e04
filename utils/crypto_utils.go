package utils

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// GetPrivateKey returns a private key object for the provided byte slice, left-padding it to the fixed 32-byte key
// width. Empty and oversized slices are rejected.
func GetPrivateKey(b []byte) (*ecdsa.PrivateKey, error) {
	if len(b) == 0 || len(b) > 32 {
		return nil, errors.Errorf("invalid private key length %d", len(b))
	}

	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)

	privateKey, err := crypto.ToECDSA(padded)
	return privateKey, errors.WithStack(err)
}

// HexStringToPrivateKey parses a hex-encoded private key (with or without the "0x" prefix) and returns the private
// key object, or an error if one occurs during decoding.
func HexStringToPrivateKey(s string) (*ecdsa.PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return GetPrivateKey(b)
}
