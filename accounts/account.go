// Package accounts provides funded account handling: key loading, address derivation, and wallet selection parsing.
package accounts

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tempolabs/drover/utils"
)

// Account binds a signing key to its derived address and the one-based index it was loaded under.
type Account struct {
	// key is the account's signing key.
	key *ecdsa.PrivateKey

	// Address is the account's address, derived from the key.
	Address common.Address

	// Index is the account's one-based position in the key file, used for wallet selection and log labeling.
	Index int
}

// NewAccountFromHexKey derives an Account from a hex-encoded private key.
func NewAccountFromHexKey(hexKey string, index int) (*Account, error) {
	key, err := utils.HexStringToPrivateKey(hexKey)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse private key for wallet %d", index)
	}
	return &Account{
		key:     key,
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Index:   index,
	}, nil
}

// Key returns the account's signing key.
func (a *Account) Key() *ecdsa.PrivateKey {
	return a.key
}

// Label returns a short identifier for the account used in log messages.
func (a *Account) Label() string {
	return utils.TruncateString(a.Address.Hex(), 10)
}

// GenerateRecipient creates a fresh random account with no funding, suitable as a transfer or grant target.
func GenerateRecipient() (*Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "could not generate recipient key")
	}
	return &Account{
		key:     key,
		Address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}
