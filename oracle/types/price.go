package types

import (
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PriceObservation is a single (currency, price) pair as reported by a
// price source.
type PriceObservation struct {
	Currency string
	Price    sdk.Dec
}

// Denom derives the on-chain denom for this observation's currency,
// conventionally "u" + lowercase currency.
func (p PriceObservation) Denom() string {
	return Denom(p.Currency)
}

// Denom derives the on-chain denom for a currency code.
func Denom(currency string) string {
	return "u" + strings.ToLower(currency)
}
