package oracle

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// saltBytes is the number of random bytes hex-encoded into the 4-character
// salt required for a commitment. A cryptographic random source is used;
// widening this constant is the only change needed to grow the salt's
// entropy.
const saltBytes = 2

// FreshSalt produces a 4-hex-character salt using a cryptographic random
// source. Collisions across currencies within one period are tolerated by
// the protocol but this draws independently per call regardless.
func FreshSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Commit computes the commitment hash that binds (salt, price, denom,
// validator) the way the chain itself will re-derive it on reveal:
// hex(sha256("{salt}:{price}:{denom}:{validator}")).
func Commit(salt, price, denom, validator string) string {
	preimage := fmt.Sprintf("%s:%s:%s:%s", salt, price, denom, validator)
	sum := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(sum[:])
}

// CommitPrice is a convenience wrapper over Commit for an sdk.Dec price.
func CommitPrice(salt string, price sdk.Dec, denom, validator string) string {
	return Commit(salt, price.String(), denom, validator)
}
