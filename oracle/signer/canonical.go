package signer

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"

	"github.com/pkg/errors"
)

// CanonicalSignBytes builds the deterministic, JSON-sorted sign-doc bytes
// for the fee/msgs/memo/meta and returns their SHA-256 digest, ready for
// secp256k1 signing. Go's encoding/json marshals map[string]interface{}
// keys in sorted order; the encoded doc is decoded back into generic maps
// and re-encoded so that keys nested inside fee and msgs are sorted too,
// without hand-rolling a sorter.
func CanonicalSignBytes(meta SignMetadata, fee json.RawMessage, msgs []json.RawMessage, memo string) ([32]byte, error) {
	doc := map[string]interface{}{
		"chain_id":       meta.ChainID,
		"account_number": meta.AccountNumber,
		"sequence":       meta.Sequence,
		"fee":            json.RawMessage(fee),
		"msgs":           msgs,
		"memo":           memo,
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "failed to encode sign doc")
	}

	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return [32]byte{}, errors.Wrap(err, "failed to canonicalize sign doc")
	}

	sorted, err := json.Marshal(generic)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "failed to encode sign doc")
	}

	return sha256.Sum256(sorted), nil
}
