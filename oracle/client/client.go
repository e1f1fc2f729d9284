package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/oracle-feeder/voter/oracle/types"
)

// requestTimeout bounds every call this client makes.
const requestTimeout = 15 * time.Second

// ChainClient is a stateless REST wrapper over the chain's LCD endpoint.
// A single http.Client is reused across all calls so keep-alive connections
// are pooled process-wide.
type ChainClient struct {
	logger zerolog.Logger
	lcd    string
	http   *http.Client
}

// New builds a ChainClient bound to the given LCD base URL (e.g.
// "https://lcd.example.com").
func New(logger zerolog.Logger, lcdEndpoint string) ChainClient {
	return ChainClient{
		logger: logger.With().Str("module", "chain_client").Logger(),
		lcd:    lcdEndpoint,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Account is the account metadata the chain client fetches before every
// broadcast. Sequence is always server-authoritative.
type Account struct {
	AccountNumber uint64
	Sequence      uint64
}

// OracleParams are fetched once at startup (or on change).
type OracleParams struct {
	VotePeriod int64
}

// TxResult is what Tx() returns for an included transaction.
type TxResult struct {
	Height int64
	Code   uint32
	RawLog string
}

// BroadcastResult is the chain's synchronous acceptance response.
type BroadcastResult struct {
	TxHash string
	Code   uint32
	RawLog string
}

type latestBlockResponse struct {
	Block struct {
		Header struct {
			Height string `json:"height"`
		} `json:"header"`
	} `json:"block"`
}

// LatestBlock returns the current chain height. A network or 5xx failure is
// transient.
func (c ChainClient) LatestBlock(ctx context.Context) (int64, error) {
	var resp latestBlockResponse
	if err := c.get(ctx, "/blocks/latest", &resp); err != nil {
		return 0, err
	}

	height, err := strconv.ParseInt(resp.Block.Header.Height, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse block height")
	}
	if height < 1 {
		return 0, types.ErrPositiveBlockHeight
	}
	return height, nil
}

type accountResponse struct {
	Value struct {
		AccountNumber string `json:"account_number"`
		Sequence      string `json:"sequence"`
	} `json:"value"`
}

// Account fetches the account's number and sequence. Missing or
// non-numeric fields are a fatal error.
func (c ChainClient) Account(ctx context.Context, address string) (Account, error) {
	var resp accountResponse
	if err := c.get(ctx, "/auth/accounts/"+address, &resp); err != nil {
		return Account{}, err
	}

	if resp.Value.AccountNumber == "" || resp.Value.Sequence == "" {
		return Account{}, types.ErrAccountFieldMissing
	}

	accNum, err := strconv.ParseUint(resp.Value.AccountNumber, 10, 64)
	if err != nil {
		return Account{}, errors.Wrap(types.ErrAccountFieldMissing, err.Error())
	}

	seq, err := strconv.ParseUint(resp.Value.Sequence, 10, 64)
	if err != nil {
		return Account{}, errors.Wrap(types.ErrAccountFieldMissing, err.Error())
	}

	return Account{AccountNumber: accNum, Sequence: seq}, nil
}

type oracleParamsResponse struct {
	VotePeriod string `json:"vote_period"`
}

// OracleParams fetches the oracle module's vote_period. Called at startup;
// failure is fatal.
func (c ChainClient) OracleParams(ctx context.Context) (OracleParams, error) {
	var resp oracleParamsResponse
	if err := c.get(ctx, "/oracle/params", &resp); err != nil {
		return OracleParams{}, err
	}

	votePeriod, err := strconv.ParseInt(resp.VotePeriod, 10, 64)
	if err != nil {
		return OracleParams{}, errors.Wrap(err, "invalid vote_period")
	}
	if votePeriod <= 0 {
		return OracleParams{}, errors.Errorf("invalid vote_period %d: must be positive", votePeriod)
	}

	return OracleParams{VotePeriod: votePeriod}, nil
}

type txResponse struct {
	Height string `json:"height"`
	Code   uint32 `json:"code"`
	RawLog string `json:"raw_log"`
}

// Tx looks up a transaction by hash. A 404 means "not yet included" and is
// reported via types.ErrTxNotFound; other non-2xx statuses are transient.
func (c ChainClient) Tx(ctx context.Context, hash string) (TxResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lcd+"/txs/"+hash, nil)
	if err != nil {
		return TxResult{}, errors.Wrap(err, "failed to build tx request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return TxResult{}, errors.Wrap(err, "tx request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return TxResult{}, types.ErrTxNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return TxResult{}, fmt.Errorf("tx lookup returned status %d", resp.StatusCode)
	}

	var body txResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return TxResult{}, errors.Wrap(err, "failed to decode tx response")
	}

	height, err := strconv.ParseInt(body.Height, 10, 64)
	if err != nil {
		return TxResult{}, errors.Wrap(err, "failed to parse tx height")
	}

	return TxResult{Height: height, Code: body.Code, RawLog: body.RawLog}, nil
}

type broadcastRequest struct {
	Tx   json.RawMessage `json:"tx"`
	Mode string          `json:"mode"`
}

type broadcastResponse struct {
	TxHash string `json:"txhash"`
	Code   uint32 `json:"code"`
	RawLog string `json:"raw_log"`
}

// Broadcast submits a signed transaction body in sync mode. The presence of
// a nonzero Code in the result is an application-level rejection that the
// caller must surface, never retry blindly.
func (c ChainClient) Broadcast(ctx context.Context, signedTx json.RawMessage) (BroadcastResult, error) {
	payload, err := json.Marshal(broadcastRequest{Tx: signedTx, Mode: "sync"})
	if err != nil {
		return BroadcastResult{}, errors.Wrap(err, "failed to encode broadcast request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.lcd+"/txs", bytes.NewReader(payload))
	if err != nil {
		return BroadcastResult{}, errors.Wrap(err, "failed to build broadcast request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return BroadcastResult{}, errors.Wrap(err, "broadcast request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return BroadcastResult{}, fmt.Errorf("broadcast returned status %d", resp.StatusCode)
	}

	var body broadcastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return BroadcastResult{}, errors.Wrap(err, "failed to decode broadcast response")
	}

	return BroadcastResult{TxHash: body.TxHash, Code: body.Code, RawLog: body.RawLog}, nil
}

func (c ChainClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lcd+path, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", path)
	}

	return nil
}
