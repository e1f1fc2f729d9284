package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/oracle-feeder/voter/oracle/types"
)

// maxResponseAge is the freshness window a source's response must fall
// within to be usable.
const maxResponseAge = 30 * time.Second

// requestTimeout bounds each individual source request.
const requestTimeout = 15 * time.Second

type sourceResponse struct {
	CreatedAt int64           `json:"created_at"`
	Prices    []sourcePrice `json:"prices"`
}

type sourcePrice struct {
	Currency string `json:"currency"`
	Price    string `json:"price"`
}

// Aggregator queries a fixed, ordered list of source URLs concurrently and
// returns the first fresh, well-formed response.
type Aggregator struct {
	logger  zerolog.Logger
	sources []string
	http    *http.Client
	now     func() time.Time
}

// New builds an Aggregator over the given ordered source URLs, which also
// establishes the tie-break order among simultaneous responses.
func New(logger zerolog.Logger, sources []string) (Aggregator, error) {
	if len(sources) == 0 {
		return Aggregator{}, types.ErrEmptySources
	}

	return Aggregator{
		logger:  logger.With().Str("module", "price_aggregator").Logger(),
		sources: sources,
		http:    &http.Client{Timeout: requestTimeout},
		now:     time.Now,
	}, nil
}

// Fetch issues all source requests concurrently and returns the prices from
// the first response that is both fresh (<= 30s old) and carries a
// non-empty price list. Losing in-flight requests are cancelled. If no
// source produces a valid response before all requests finish, it fails
// with types.ErrNoFreshSource (skip-this-tick, not fatal).
func (a Aggregator) Fetch(ctx context.Context) ([]types.PriceObservation, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mtx     sync.Mutex
		arrived = make([]*[]types.PriceObservation, len(a.sources))
	)
	landed := make(chan struct{}, len(a.sources))

	g, gctx := errgroup.WithContext(fetchCtx)
	for i := range a.sources {
		i, source := i, a.sources[i]
		g.Go(func() error {
			prices, err := a.fetchOne(gctx, source)
			if err != nil {
				a.logger.Debug().Err(err).Str("source", source).Msg("price source unusable")
				return nil
			}

			mtx.Lock()
			arrived[i] = &prices
			mtx.Unlock()

			select {
			case landed <- struct{}{}:
			default:
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	// Scan in source order so that when multiple sources answer close
	// together, the earlier-ordered source wins the tie-break.
	firstReady := func() ([]types.PriceObservation, bool) {
		mtx.Lock()
		defer mtx.Unlock()
		for _, prices := range arrived {
			if prices != nil {
				return *prices, true
			}
		}
		return nil, false
	}

	for {
		select {
		case <-landed:
			if prices, ok := firstReady(); ok {
				cancel()
				<-done
				return prices, nil
			}
		case <-done:
			if prices, ok := firstReady(); ok {
				return prices, nil
			}
			return nil, types.ErrNoFreshSource
		}
	}
}

func (a Aggregator) fetchOne(ctx context.Context, source string) ([]types.PriceObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.ErrNoFreshSource
	}

	var body sourceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	age := a.now().Sub(time.Unix(body.CreatedAt, 0))
	if age > maxResponseAge {
		return nil, types.ErrNoFreshSource
	}

	if len(body.Prices) == 0 {
		return nil, types.ErrNoFreshSource
	}

	observations := make([]types.PriceObservation, 0, len(body.Prices))
	for _, p := range body.Prices {
		price, err := sdk.NewDecFromStr(p.Price)
		if err != nil {
			return nil, err
		}
		observations = append(observations, types.PriceObservation{Currency: p.Currency, Price: price})
	}

	return observations, nil
}
