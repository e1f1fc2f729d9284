package signer

import (
	"context"
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// SignMetadata is the sign-doc metadata that, together with the canonical
// transaction body, is hashed and signed.
type SignMetadata struct {
	ChainID       string
	AccountNumber uint64
	Sequence      uint64
}

// Signer abstracts "software key" vs "hardware key" signing behind one
// capability set. Both variants derive the same address type and produce a
// signature over the same canonical bytes; the facade hides which key
// source backs a given instance.
type Signer interface {
	// Address returns the feeder's account address.
	Address() sdk.AccAddress

	// Sign returns a signature over the canonical sign-doc built from fee,
	// msgs, memo and meta. A hardware signer may block awaiting user
	// confirmation and may fail with types.ErrDeviceUnavailable if the
	// device disappears.
	Sign(ctx context.Context, fee json.RawMessage, msgs []json.RawMessage, memo string, meta SignMetadata) ([]byte, error)

	// Close releases any exclusive resource (e.g. a hardware device
	// connection) held by this signer. Called during cooperative shutdown.
	Close() error
}
