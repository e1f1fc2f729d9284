package signer

import (
	"context"
	"encoding/json"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	pfkeyring "github.com/oracle-feeder/voter/pkg/keyring"
)

// Software is the Signer variant backed by a decrypted key loaded once
// from an encrypted keystore.
type Software struct {
	address sdk.AccAddress
	keyring keyring.Keyring
	keyName string
}

var _ Signer = Software{}

// NewSoftware opens the on-disk keystore and returns a ready-to-use
// software signer.
func NewSoftware(opts ...pfkeyring.ConfigOpt) (Software, error) {
	addr, kb, err := pfkeyring.NewCosmosKeyring(opts...)
	if err != nil {
		return Software{}, errors.Wrap(err, "failed to open keystore")
	}

	info, err := kb.KeyByAddress(addr)
	if err != nil {
		return Software{}, errors.Wrap(err, "failed to look up feeder key")
	}

	return Software{address: addr, keyring: kb, keyName: info.GetName()}, nil
}

// Address returns the feeder account's address.
func (s Software) Address() sdk.AccAddress {
	return s.address
}

// Sign hashes the canonical sign doc and signs it with the keystore's
// secp256k1 key.
func (s Software) Sign(_ context.Context, fee json.RawMessage, msgs []json.RawMessage, memo string, meta SignMetadata) ([]byte, error) {
	digest, err := CanonicalSignBytes(meta, fee, msgs, memo)
	if err != nil {
		return nil, err
	}

	sig, _, err := s.keyring.Sign(s.keyName, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return sig, nil
}

// Close is a no-op for the software signer; the keyring holds no exclusive
// hardware resource.
func (s Software) Close() error {
	return nil
}
