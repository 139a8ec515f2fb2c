// Package service holds the order pipeline: sizing policy resolution and
// market-order submission.
package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alertgate/alertgate/internal/exchange"
	"github.com/alertgate/alertgate/internal/pkg/apperrors"
)

var tenPercent = decimal.New(1, -1)

// RoundToIncrement floors v to the nearest multiple of inc. Decimal arithmetic
// keeps the result an exact multiple that never exceeds v.
func RoundToIncrement(v, inc decimal.Decimal) decimal.Decimal {
	if inc.Sign() <= 0 {
		return v
	}
	// QuoRem with precision 0 is an exact integer division; unlike Div it
	// cannot round a near-boundary quotient up past the true step count.
	steps, _ := v.QuoRem(inc, 0)
	return steps.Mul(inc)
}

// Sizer resolves the configured sizing policy into a concrete order size.
// When useTenPercent is set it takes strict precedence over any explicit
// amount carried by the alert.
type Sizer struct {
	useTenPercent bool
}

func NewSizer(useTenPercent bool) *Sizer {
	return &Sizer{useTenPercent: useTenPercent}
}

// QuoteSize computes the quote-denominated funds for a market BUY: ten
// percent of the available quote balance, or the requested notional. The
// result is floored up to the product minimum and rounded down to the quote
// increment.
func (s *Sizer) QuoteSize(balances map[string]decimal.Decimal, quoteCurrency string, amount *decimal.Decimal, info exchange.InstrumentInfo) (decimal.Decimal, error) {
	available := balances[quoteCurrency]

	var funds decimal.Decimal
	if s.useTenPercent {
		funds = available.Mul(tenPercent)
	} else if amount != nil {
		funds = *amount
	}

	if funds.Sign() <= 0 {
		return decimal.Zero, apperrors.New(apperrors.ErrInsufficientFunds,
			fmt.Sprintf("insufficient %s: available %s", quoteCurrency, available.StringFixed(2)), nil)
	}

	if funds.LessThan(info.MinMarketFunds) {
		funds = info.MinMarketFunds
	}
	return RoundToIncrement(funds, info.QuoteIncrement), nil
}

// PriceFunc supplies the current market price. It is only invoked on the
// sell-by-notional path.
type PriceFunc func() (decimal.Decimal, error)

// BaseSize computes the base-denominated size for a market SELL: ten percent
// of the base balance, the requested notional converted at market price, or
// the full balance. The result is rounded down to the base increment.
func (s *Sizer) BaseSize(balances map[string]decimal.Decimal, baseCurrency string, amount *decimal.Decimal, info exchange.InstrumentInfo, price PriceFunc) (decimal.Decimal, error) {
	available := balances[baseCurrency]
	if available.Sign() <= 0 {
		return decimal.Zero, apperrors.New(apperrors.ErrNoBalance,
			fmt.Sprintf("no %s to sell, balance %s", baseCurrency, available), nil)
	}

	var size decimal.Decimal
	switch {
	case s.useTenPercent:
		size = available.Mul(tenPercent)
	case amount != nil:
		p, err := price()
		if err != nil {
			return decimal.Zero, err
		}
		size = amount.Div(p)
	default:
		size = available
	}

	size = RoundToIncrement(size, info.BaseIncrement)
	if size.Sign() <= 0 {
		return decimal.Zero, apperrors.New(apperrors.ErrSizeTooSmall,
			fmt.Sprintf("sell size rounds to zero at increment %s", info.BaseIncrement), nil)
	}
	return size, nil
}

// SplitProduct splits "BTC-USD" into its base and quote currencies. A symbol
// without a separator keeps the whole id as base and assumes a USD quote.
func SplitProduct(productID string) (base, quote string) {
	base, quote, ok := strings.Cut(productID, "-")
	if !ok || quote == "" {
		return productID, "USD"
	}
	return base, quote
}
