package alert

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p := NewParser("BTC-USD")

	cases := []struct {
		name       string
		raw        string
		wantSymbol string
		wantAction string
		wantAmount string // "" means nil
	}{
		{name: "full alert", raw: "symbol: ETH-USD; action: buy; amount: 10", wantSymbol: "ETH-USD", wantAction: "buy", wantAmount: "10"},
		{name: "uppercase action", raw: "symbol: ETH-USD; action: SELL", wantSymbol: "ETH-USD", wantAction: "sell"},
		{name: "missing action defaults to buy", raw: "symbol: ETH-USD", wantSymbol: "ETH-USD", wantAction: "buy"},
		{name: "empty body uses defaults", raw: "", wantSymbol: "BTC-USD", wantAction: "buy"},
		{name: "close normalizes to sell", raw: "action: close", wantSymbol: "BTC-USD", wantAction: "sell"},
		{name: "exit normalizes to sell", raw: "action: exit", wantSymbol: "BTC-USD", wantAction: "sell"},
		{name: "unknown keys ignored", raw: "symbol: ETH-USD; strategy: breakout; foo: bar", wantSymbol: "ETH-USD", wantAction: "buy"},
		{name: "case insensitive keys", raw: "SYMBOL: ETH-USD; Action: Sell", wantSymbol: "ETH-USD", wantAction: "sell"},
		{name: "segment without colon skipped", raw: "garbage; symbol: ETH-USD", wantSymbol: "ETH-USD", wantAction: "buy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := p.Parse(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSymbol, a.Symbol)
			assert.Equal(t, tc.wantAction, a.Action)
			if tc.wantAmount == "" {
				assert.Nil(t, a.Amount)
			} else {
				require.NotNil(t, a.Amount)
				want, _ := decimal.NewFromString(tc.wantAmount)
				assert.True(t, a.Amount.Equal(want))
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	p := NewParser("BTC-USD")

	for _, raw := range []string{
		"action: hodl",
		"amount: ten",
		"amount: -5",
		"amount: 0",
	} {
		_, err := p.Parse(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
