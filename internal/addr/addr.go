// Package addr encodes and decodes MultiversX bech32 addresses: the "erd"
// human-readable part over a 32-byte account key.
package addr

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	HRP       = "erd"
	PubKeyLen = 32
)

var ErrInvalidAddress = errors.New("invalid bech32 address")

// Decode parses a bech32 address and returns the raw 32-byte account key.
func Decode(address string) ([]byte, error) {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if hrp != HRP {
		return nil, fmt.Errorf("%w: expected hrp %q, got %q", ErrInvalidAddress, HRP, hrp)
	}

	pubkey, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(pubkey) != PubKeyLen {
		return nil, fmt.Errorf("%w: account key is %d bytes, want %d", ErrInvalidAddress, len(pubkey), PubKeyLen)
	}
	return pubkey, nil
}

// Encode renders a raw 32-byte account key as a bech32 address.
func Encode(pubkey []byte) (string, error) {
	if len(pubkey) != PubKeyLen {
		return "", fmt.Errorf("%w: account key is %d bytes, want %d", ErrInvalidAddress, len(pubkey), PubKeyLen)
	}
	converted, err := bech32.ConvertBits(pubkey, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return bech32.Encode(HRP, converted)
}

// Validate checks that an address decodes cleanly.
func Validate(address string) error {
	_, err := Decode(address)
	return err
}
