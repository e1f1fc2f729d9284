package signer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	pfkeyring "github.com/oracle-feeder/voter/pkg/keyring"
	"github.com/oracle-feeder/voter/oracle/types"
)

// Ledger is the Signer variant that delegates signing to a connected
// hardware device. It is injected in place of Software after flags are
// parsed, so the voting loop itself never branches on key source.
type Ledger struct {
	address sdk.AccAddress
	keyring keyring.Keyring
	keyName string
}

var _ Signer = Ledger{}

// NewLedger connects to the hardware signer for the given key name and
// confirms it is reachable. A missing or unreachable device is fatal at
// startup.
func NewLedger(opts ...pfkeyring.ConfigOpt) (Ledger, error) {
	addr, kb, err := pfkeyring.NewCosmosKeyring(append(opts, pfkeyring.WithUseLedger(true))...)
	if err != nil {
		return Ledger{}, errors.Wrap(types.ErrDeviceUnavailable, err.Error())
	}

	info, err := kb.KeyByAddress(addr)
	if err != nil {
		return Ledger{}, errors.Wrap(types.ErrDeviceUnavailable, err.Error())
	}

	if info.GetType() != keyring.TypeLedger {
		return Ledger{}, errors.Wrap(types.ErrDeviceUnavailable, "key is not backed by a ledger device")
	}

	return Ledger{address: addr, keyring: kb, keyName: info.GetName()}, nil
}

// Address returns the feeder account's address.
func (l Ledger) Address() sdk.AccAddress {
	return l.address
}

// Sign blocks awaiting the user's on-device confirmation. If the device
// disappears mid-run this fails with types.ErrDeviceUnavailable, which the
// voting loop treats as a skip-tick rather than a crash.
func (l Ledger) Sign(_ context.Context, fee json.RawMessage, msgs []json.RawMessage, memo string, meta SignMetadata) ([]byte, error) {
	digest, err := CanonicalSignBytes(meta, fee, msgs, memo)
	if err != nil {
		return nil, err
	}

	sig, _, err := l.keyring.Sign(l.keyName, digest[:])
	if err != nil {
		if isDeviceError(err) {
			return nil, types.ErrDeviceUnavailable
		}
		return nil, errors.Wrap(err, "failed to sign transaction on ledger")
	}

	return sig, nil
}

// Close is a no-op that returns nil; it does not drain or release the
// ledger device.
func (l Ledger) Close() error {
	return nil
}

func isDeviceError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "ledger") || strings.Contains(msg, "device")
}
