package types

import "errors"

// ModuleName identifies this component in structured log lines.
const ModuleName = "oracle"

var (
	// ErrPositiveBlockHeight is returned when the chain client reports a
	// non-positive block height, which should never happen on a live chain.
	ErrPositiveBlockHeight = errors.New("expected positive block height")

	// ErrNoFreshSource is returned by the price aggregator when none of the
	// configured sources answered with a fresh, well-formed response.
	ErrNoFreshSource = errors.New("no price source returned a fresh response")

	// ErrAccountFieldMissing is a fatal error: the account endpoint did not
	// return a decimal account_number/sequence pair.
	ErrAccountFieldMissing = errors.New("account response missing account_number or sequence")

	// ErrEmptySources is a fatal startup error: the feeder was configured
	// with no price source URLs.
	ErrEmptySources = errors.New("at least one price source is required")

	// ErrTxNotFound mirrors the chain's 404 response for an unincluded tx.
	ErrTxNotFound = errors.New("transaction not found")

	// ErrConfirmTimeout is returned when a broadcast tx hasn't confirmed
	// within the confirmation window.
	ErrConfirmTimeout = errors.New("timed out waiting for transaction confirmation")

	// ErrDeviceUnavailable is returned by the hardware signer when the
	// device cannot be reached.
	ErrDeviceUnavailable = errors.New("hardware signer device unavailable")
)
