package model

import "github.com/shopspring/decimal"

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Alert is the structured form of one TradingView webhook delivery.
type Alert struct {
	Symbol string
	Action string // "buy" or "sell" after normalization
	Amount *decimal.Decimal
}

// OrderResult is returned to the webhook caller after submission.
type OrderResult struct {
	OrderID       string `json:"order_id,omitempty"`
	ProductID     string `json:"product_id"`
	Side          Side   `json:"side"`
	ClientOrderID string `json:"client_order_id,omitempty"`
	// QuoteSize is set for BUY, BaseSize for SELL; both exact decimal strings.
	QuoteSize string `json:"quote_size,omitempty"`
	BaseSize  string `json:"base_size,omitempty"`
}
