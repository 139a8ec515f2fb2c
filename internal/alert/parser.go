// Package alert decodes the flat "key: value; key: value" text TradingView
// sends as a webhook body.
package alert

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alertgate/alertgate/internal/model"
	"github.com/alertgate/alertgate/internal/pkg/apperrors"
)

type Parser struct {
	defaultProduct string
}

func NewParser(defaultProduct string) *Parser {
	if defaultProduct == "" {
		defaultProduct = "BTC-USD"
	}
	return &Parser{defaultProduct: defaultProduct}
}

// Parse decodes the raw body. Unknown keys are ignored; missing keys fall
// back to defaults (symbol → configured product, action → buy).
func (p *Parser) Parse(raw string) (model.Alert, error) {
	fields := parseKV(raw)

	a := model.Alert{
		Symbol: p.defaultProduct,
		Action: "buy",
	}

	if v := fields["symbol"]; v != "" {
		a.Symbol = v
	}

	switch action := strings.ToLower(fields["action"]); action {
	case "", "buy":
		a.Action = "buy"
	case "sell", "close", "exit":
		a.Action = "sell"
	default:
		return model.Alert{}, apperrors.NewInvalidRequest(fmt.Sprintf("unknown action: %s", action))
	}

	if v := fields["amount"]; v != "" {
		amt, err := decimal.NewFromString(v)
		if err != nil {
			return model.Alert{}, apperrors.NewInvalidRequest(fmt.Sprintf("invalid amount: %s", v))
		}
		if amt.Sign() <= 0 {
			return model.Alert{}, apperrors.NewInvalidRequest(fmt.Sprintf("amount must be positive: %s", v))
		}
		a.Amount = &amt
	}

	return a, nil
}

// parseKV splits "k: v; k: v" into a lowercase-keyed map. Segments without a
// colon are skipped.
func parseKV(raw string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		fields[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return fields
}
