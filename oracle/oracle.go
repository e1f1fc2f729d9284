package oracle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"

	"github.com/oracle-feeder/voter/oracle/client"
	"github.com/oracle-feeder/voter/oracle/signer"
	"github.com/oracle-feeder/voter/oracle/types"
	"github.com/oracle-feeder/voter/pkg/closer"
)

// tickMinInterval and tickTargetInterval bound the pacing of successive
// iterations.
const (
	tickMinInterval    = 5 * time.Second
	tickTargetInterval = 6 * time.Second
)

// phaseMargin is how many blocks before the end of the vote period the
// loop starts acting.
const phaseMargin = 3

// prevoteRecord is one entry of the prevote memory: the price and salt
// committed to, and the period the commitment was made in.
type prevoteRecord struct {
	price         sdk.Dec
	salt          string
	prevotePeriod int64
}

// DenomFilter selects which currencies the loop will act on. A nil/empty
// Allow set means "all".
type DenomFilter struct {
	Allow map[string]struct{}
}

// Allows reports whether currency passes the filter.
func (f DenomFilter) Allows(currency string) bool {
	if len(f.Allow) == 0 {
		return true
	}
	_, ok := f.Allow[currency]
	return ok
}

// Config is the voting loop's fixed, immutable-for-the-process
// configuration: the voter's identity and the currencies it acts on.
type Config struct {
	FeederAddress  string
	ValidatorAddrs []string
	ChainID        string
	FeeDenom       string
	Filter         DenomFilter
}

// ChainClient is the on-chain surface the voting loop depends on.
// client.ChainClient satisfies it; tests substitute fakes.
type ChainClient interface {
	LatestBlock(ctx context.Context) (int64, error)
	Account(ctx context.Context, address string) (client.Account, error)
	Broadcast(ctx context.Context, signedTx json.RawMessage) (client.BroadcastResult, error)
	Confirm(ctx context.Context, hash string) (client.TxResult, error)
}

// PriceFetcher is the price-source surface the voting loop depends on.
// provider.Aggregator satisfies it; tests substitute fakes.
type PriceFetcher interface {
	Fetch(ctx context.Context) ([]types.PriceObservation, error)
}

// Oracle is the core commit-reveal voting-loop state machine: it prevotes a
// committed price each period and reveals the prior period's commitment
// alongside it.
type Oracle struct {
	logger zerolog.Logger
	closer *closer.Closer

	client     ChainClient
	aggregator PriceFetcher
	signer     signer.Signer
	metrics    *Metrics

	cfg        Config
	votePeriod int64

	memory            map[string]prevoteRecord
	lastPrevotePeriod int64

	statusMtx sync.RWMutex
	status    Status
}

// Status is a read-only snapshot of the loop's state, safe to read from
// other goroutines (the diagnostic HTTP server). The loop itself never
// reads this; it is refreshed on each tick that fetches prices (before that
// tick's broadcast) purely for observability.
type Status struct {
	LastPrices        []types.PriceObservation
	LastPrevotePeriod int64
	PairedCurrencies  []string
}

// Status returns the most recent status snapshot.
func (o *Oracle) Status() Status {
	o.statusMtx.RLock()
	defer o.statusMtx.RUnlock()
	return o.status
}

func (o *Oracle) refreshStatus(prices []types.PriceObservation) {
	paired := make([]string, 0, len(o.memory))
	for currency := range o.memory {
		paired = append(paired, currency)
	}

	o.statusMtx.Lock()
	o.status = Status{
		LastPrices:        prices,
		LastPrevotePeriod: o.lastPrevotePeriod,
		PairedCurrencies:  paired,
	}
	o.statusMtx.Unlock()
}

// New constructs an Oracle. votePeriod is the oracle module's vote_period
// fetched once at startup.
func New(
	logger zerolog.Logger,
	chainClient ChainClient,
	aggregator PriceFetcher,
	sgnr signer.Signer,
	cfg Config,
	votePeriod int64,
	metrics *Metrics,
) *Oracle {
	return &Oracle{
		logger:     logger.With().Str("module", types.ModuleName).Logger(),
		closer:     closer.New(),
		client:     chainClient,
		aggregator: aggregator,
		signer:     sgnr,
		metrics:    metrics,
		cfg:        cfg,
		votePeriod: votePeriod,
		memory:     make(map[string]prevoteRecord),
	}
}

// Start runs the voting loop until ctx is cancelled. Every unexpected
// failure is caught at this level, logged, and the loop advances to the
// next tick rather than terminating.
func (o *Oracle) Start(ctx context.Context) {
	defer o.closer.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		tickStart := time.Now()
		outcome := func() (out types.Outcome) {
			defer func() {
				if r := recover(); r != nil {
					out = types.SkipTick("unexpected failure", fmt.Errorf("%v", r))
				}
			}()
			return o.executeTick(ctx)
		}()
		o.logOutcome(outcome)

		if o.metrics != nil {
			o.metrics.ObserveTick(outcome)
		}

		o.pace(ctx, tickStart)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// Stop closes the loop's closer and returns at once. The loop itself exits
// only when the context passed to Start is cancelled; Stop neither
// interrupts a running tick nor waits for Start to return.
func (o *Oracle) Stop() {
	o.closer.Close()
	<-o.closer.Done()
}

func (o *Oracle) logOutcome(outcome types.Outcome) {
	switch outcome.Kind {
	case types.Continue:
		o.logger.Debug().Msg("tick complete")
	case types.Skip:
		ev := o.logger.Info()
		if outcome.Err != nil {
			ev = o.logger.Warn().Err(outcome.Err)
		}
		ev.Str("reason", outcome.Reason).Msg("skipping tick")
	}
}

// pace sleeps so the wall interval between iterations targets 6s from
// tickStart, never sleeping a negative amount when a tick itself already
// ran long; tickMinInterval is the floor that target leaves on the
// interval whenever a tick finishes quickly.
func (o *Oracle) pace(ctx context.Context, tickStart time.Time) {
	elapsed := time.Since(tickStart)
	wait := tickTargetInterval - elapsed
	if wait < 0 {
		wait = 0
	}

	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}

// executeTick runs one iteration of the voting-loop state machine.
func (o *Oracle) executeTick(ctx context.Context) types.Outcome {
	height, err := o.client.LatestBlock(ctx)
	if err != nil {
		return types.SkipTick("failed to fetch latest block", err)
	}

	period := height / o.votePeriod
	idx := height % o.votePeriod

	if idx < o.votePeriod-phaseMargin {
		return types.Done()
	}

	if o.lastPrevotePeriod == period {
		return types.Done()
	}

	prices, err := o.aggregator.Fetch(ctx)
	if err != nil {
		return types.SkipTick("failed to fetch fresh prices", err)
	}

	o.refreshStatus(prices)

	account, err := o.client.Account(ctx, o.cfg.FeederAddress)
	if err != nil {
		return types.SkipTick("failed to fetch account", err)
	}

	reveals := o.buildReveals(prices, period)
	prevotes, newRecords, err := o.buildPrevotes(prices, period)
	if err != nil {
		return types.SkipTick("failed to build prevote commitments", err)
	}

	msgs := append(reveals, prevotes...)
	if len(msgs) == 0 {
		return types.Done()
	}

	signedTx, err := o.signAndAssemble(ctx, msgs, account)
	if err != nil {
		return types.SkipTick("failed to sign transaction", err)
	}

	broadcastResult, err := o.client.Broadcast(ctx, signedTx)
	if err != nil {
		return types.SkipTick("broadcast failed", err)
	}
	if broadcastResult.Code != 0 {
		if o.metrics != nil {
			o.metrics.ObserveRejection()
		}
		return types.SkipTick("broadcast rejected: "+broadcastResult.RawLog, nil)
	}

	result, err := o.client.Confirm(ctx, broadcastResult.TxHash)
	if err != nil {
		return types.SkipTick("confirmation failed", err)
	}
	if result.Code != 0 {
		return types.SkipTick("transaction application failed: "+result.RawLog, nil)
	}

	o.commit(newRecords, result.Height)

	return types.Done()
}

// buildReveals emits one reveal message per configured validator for every
// currency whose remembered prevote pairs with the current period, using
// the remembered price and salt rather than the current sample.
func (o *Oracle) buildReveals(prices []types.PriceObservation, period int64) []json.RawMessage {
	var msgs []json.RawMessage

	for _, p := range prices {
		if !o.cfg.Filter.Allows(p.Currency) {
			continue
		}

		record, ok := o.memory[p.Currency]
		if !ok || period-record.prevotePeriod != 1 {
			continue
		}

		denom := types.Denom(p.Currency)
		for _, validator := range o.cfg.ValidatorAddrs {
			msg := client.NewVoteMsg(record.price.String(), record.salt, denom, o.cfg.FeederAddress, validator)
			raw, _ := json.Marshal(msg)
			msgs = append(msgs, raw)
		}
	}

	return msgs
}

// buildPrevotes generates a fresh salt and commitment for every filtered
// currency and emits one prevote message per configured validator.
func (o *Oracle) buildPrevotes(prices []types.PriceObservation, period int64) ([]json.RawMessage, map[string]prevoteRecord, error) {
	var msgs []json.RawMessage
	records := make(map[string]prevoteRecord)

	for _, p := range prices {
		if !o.cfg.Filter.Allows(p.Currency) {
			continue
		}

		salt, err := FreshSalt()
		if err != nil {
			return nil, nil, err
		}

		denom := types.Denom(p.Currency)
		for _, validator := range o.cfg.ValidatorAddrs {
			hash := CommitPrice(salt, p.Price, denom, validator)
			msg := client.NewPrevoteMsg(hash, denom, o.cfg.FeederAddress, validator)
			raw, _ := json.Marshal(msg)
			msgs = append(msgs, raw)
		}

		records[p.Currency] = prevoteRecord{price: p.Price, salt: salt, prevotePeriod: period}
	}

	return msgs, records, nil
}

// signAndAssemble computes gas/fee, signs the canonical sign doc, and
// returns the fully-assembled signed transaction body.
func (o *Oracle) signAndAssemble(ctx context.Context, msgs []json.RawMessage, account client.Account) (json.RawMessage, error) {
	_, fee := client.GasAndFee(len(msgs), o.cfg.FeeDenom)
	feeJSON, err := json.Marshal(fee)
	if err != nil {
		return nil, err
	}

	const memo = ""
	meta := signer.SignMetadata{
		ChainID:       o.cfg.ChainID,
		AccountNumber: account.AccountNumber,
		Sequence:      account.Sequence,
	}

	sig, err := o.signer.Sign(ctx, feeJSON, msgs, memo, meta)
	if err != nil {
		return nil, err
	}

	body := client.TxBody{
		Msg:        msgs,
		Fee:        fee,
		Signatures: []json.RawMessage{mustMarshalSignature(sig)},
		Memo:       memo,
	}

	return json.Marshal(body)
}

func mustMarshalSignature(sig []byte) json.RawMessage {
	raw, _ := json.Marshal(base64.StdEncoding.EncodeToString(sig))
	return raw
}

// commit overwrites prevote_memory and last_prevote_period only after
// on-chain confirmation, using the confirmed inclusion height (not the
// height sampled at tick start) to derive period_of_inclusion.
func (o *Oracle) commit(records map[string]prevoteRecord, includedHeight int64) {
	periodOfInclusion := includedHeight / o.votePeriod

	for currency, record := range records {
		record.prevotePeriod = periodOfInclusion
		o.memory[currency] = record
	}

	o.lastPrevotePeriod = periodOfInclusion
}
