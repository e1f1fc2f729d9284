package client

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/oracle-feeder/voter/oracle/types"
)

// Gas and fee formulas are chain-policy constants.
const (
	baseGas         = 50_000
	gasPerMessage   = 7_500
	feeGasRateBasis = 0.015
)

// confirmPollInterval and confirmTimeout bound the confirmation poll.
const (
	confirmPollInterval = 1 * time.Second
	confirmTimeout      = 45 * time.Second
)

// PrevoteMsg is the on-chain message shape for a commitment.
type PrevoteMsg struct {
	Type  string `json:"type"`
	Value struct {
		Hash      string `json:"hash"`
		Denom     string `json:"denom"`
		Feeder    string `json:"feeder"`
		Validator string `json:"validator"`
	} `json:"value"`
}

// NewPrevoteMsg builds a MsgExchangeRatePrevote.
func NewPrevoteMsg(hash, denom, feeder, validator string) PrevoteMsg {
	m := PrevoteMsg{Type: "oracle/MsgExchangeRatePrevote"}
	m.Value.Hash = hash
	m.Value.Denom = denom
	m.Value.Feeder = feeder
	m.Value.Validator = validator
	return m
}

// VoteMsg is the on-chain message shape for a reveal.
type VoteMsg struct {
	Type  string `json:"type"`
	Value struct {
		ExchangeRate string `json:"exchange_rate"`
		Salt         string `json:"salt"`
		Denom        string `json:"denom"`
		Feeder       string `json:"feeder"`
		Validator    string `json:"validator"`
	} `json:"value"`
}

// NewVoteMsg builds a MsgExchangeRateVote.
func NewVoteMsg(exchangeRate, salt, denom, feeder, validator string) VoteMsg {
	m := VoteMsg{Type: "oracle/MsgExchangeRateVote"}
	m.Value.ExchangeRate = exchangeRate
	m.Value.Salt = salt
	m.Value.Denom = denom
	m.Value.Feeder = feeder
	m.Value.Validator = validator
	return m
}

// Fee is the tx body's fee section.
type Fee struct {
	Amount []Coin `json:"amount"`
	Gas    string `json:"gas"`
}

// Coin is a single denom/amount pair.
type Coin struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

// GasAndFee derives gas and fee from a message count using the chain-policy
// formula: gas = 50_000 + 7_500 * n, fee = ceil(gas * 0.015) in feeDenom.
func GasAndFee(messageCount int, feeDenom string) (gas uint64, fee Fee) {
	gas = uint64(baseGas + gasPerMessage*messageCount)
	feeAmount := uint64(math.Ceil(float64(gas) * feeGasRateBasis))
	fee = Fee{
		Amount: []Coin{{Amount: strconv.FormatUint(feeAmount, 10), Denom: feeDenom}},
		Gas:    strconv.FormatUint(gas, 10),
	}
	return gas, fee
}

// TxBody is the unsigned/signed transaction envelope.
type TxBody struct {
	Msg        []json.RawMessage `json:"msg"`
	Fee        Fee                `json:"fee"`
	Signatures []json.RawMessage `json:"signatures"`
	Memo       string             `json:"memo"`
}

// SignDoc is the canonical document hashed and signed before broadcast.
// Field order is irrelevant here since the signer is responsible for the
// deterministic, JSON-sorted encoding; this struct only carries the values.
type SignDoc struct {
	ChainID       string            `json:"chain_id"`
	AccountNumber uint64            `json:"account_number"`
	Sequence      uint64            `json:"sequence"`
	Fee           Fee               `json:"fee"`
	Msgs          []json.RawMessage `json:"msgs"`
	Memo          string            `json:"memo"`
}

// Confirm polls Tx(hash) at 1 Hz until it is included or confirmTimeout
// elapses. It returns the TxResult on success
// (regardless of application code; the caller decides what a nonzero code
// means) or types.ErrConfirmTimeout if the window expires.
func (c ChainClient) Confirm(ctx context.Context, hash string) (TxResult, error) {
	deadline := time.Now().Add(confirmTimeout)
	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		result, err := c.Tx(ctx, hash)
		switch {
		case err == nil:
			return result, nil
		case err == types.ErrTxNotFound:
			// not yet included, keep polling
		default:
			// transient lookup failure: keep polling within the window
		}

		if time.Now().After(deadline) {
			return TxResult{}, types.ErrConfirmTimeout
		}

		select {
		case <-ctx.Done():
			return TxResult{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
