package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alertgate/alertgate/internal/exchange"
	"github.com/alertgate/alertgate/internal/model"
	"github.com/alertgate/alertgate/internal/pkg/apperrors"
	"github.com/alertgate/alertgate/internal/pkg/logger"
	"github.com/alertgate/alertgate/internal/pkg/metrics"
)

// Trader runs one alert through the full pipeline: balances, product
// metadata, sizing, submission. Each run is sequential and self-contained;
// concurrent alerts are independent and may race on balances.
type Trader struct {
	client *exchange.Client
	sizer  *Sizer
}

func NewTrader(client *exchange.Client, sizer *Sizer) *Trader {
	return &Trader{client: client, sizer: sizer}
}

func (t *Trader) HandleAlert(ctx context.Context, a model.Alert) (*model.OrderResult, error) {
	result, err := t.execute(ctx, a, true)
	side := "buy"
	if a.Action == "sell" {
		side = "sell"
	}
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("error", side).Inc()
		return nil, err
	}
	metrics.OrdersTotal.WithLabelValues("success", side).Inc()
	return result, nil
}

// DryRun computes the order the alert would produce without submitting it.
func (t *Trader) DryRun(ctx context.Context, a model.Alert) (*model.OrderResult, error) {
	return t.execute(ctx, a, false)
}

func (t *Trader) execute(ctx context.Context, a model.Alert, submit bool) (*model.OrderResult, error) {
	switch a.Action {
	case "buy":
		return t.marketBuy(ctx, a, submit)
	case "sell":
		return t.marketSell(ctx, a, submit)
	default:
		return nil, apperrors.NewInvalidRequest(fmt.Sprintf("unknown action: %s", a.Action))
	}
}

func (t *Trader) marketBuy(ctx context.Context, a model.Alert, submit bool) (*model.OrderResult, error) {
	_, quote := SplitProduct(a.Symbol)
	balances := t.client.Balances(ctx)
	info := t.client.ProductInfo(ctx, a.Symbol)

	funds, err := t.sizer.QuoteSize(balances, quote, a.Amount, info)
	if err != nil {
		return nil, err
	}

	result := &model.OrderResult{
		ProductID: a.Symbol,
		Side:      model.SideBuy,
		QuoteSize: funds.String(),
	}
	if !submit {
		return result, nil
	}

	result.ClientOrderID = newClientOrderID("buy")
	logger.Info("placing market buy",
		"product_id", a.Symbol, "quote_size", result.QuoteSize, "client_order_id", result.ClientOrderID)

	orderID, err := t.client.CreateOrder(ctx, exchange.OrderRequest{
		ClientOrderID: result.ClientOrderID,
		ProductID:     a.Symbol,
		Side:          string(model.SideBuy),
		OrderConfiguration: exchange.OrderConfiguration{
			MarketMarketIOC: exchange.MarketIOC{QuoteSize: funds.String()},
		},
	})
	if err != nil {
		return nil, err
	}

	result.OrderID = orderID
	logger.Info("buy order placed", "order_id", orderID)
	return result, nil
}

func (t *Trader) marketSell(ctx context.Context, a model.Alert, submit bool) (*model.OrderResult, error) {
	base, _ := SplitProduct(a.Symbol)
	balances := t.client.Balances(ctx)
	info := t.client.ProductInfo(ctx, a.Symbol)

	size, err := t.sizer.BaseSize(balances, base, a.Amount, info, func() (decimal.Decimal, error) {
		return t.client.TickerPrice(ctx, a.Symbol)
	})
	if err != nil {
		return nil, err
	}

	result := &model.OrderResult{
		ProductID: a.Symbol,
		Side:      model.SideSell,
		BaseSize:  size.String(),
	}
	if !submit {
		return result, nil
	}

	result.ClientOrderID = newClientOrderID("sell")
	logger.Info("placing market sell",
		"product_id", a.Symbol, "base_size", result.BaseSize, "client_order_id", result.ClientOrderID)

	orderID, err := t.client.CreateOrder(ctx, exchange.OrderRequest{
		ClientOrderID: result.ClientOrderID,
		ProductID:     a.Symbol,
		Side:          string(model.SideSell),
		OrderConfiguration: exchange.OrderConfiguration{
			MarketMarketIOC: exchange.MarketIOC{BaseSize: size.String()},
		},
	})
	if err != nil {
		return nil, err
	}

	result.OrderID = orderID
	logger.Info("sell order placed", "order_id", orderID)
	return result, nil
}

// newClientOrderID combines a timestamp with a uuid suffix: monotonic for
// exchange-side ordering, unique under same-second concurrent alerts.
func newClientOrderID(side string) string {
	return fmt.Sprintf("tv-%s-%d-%s", side, time.Now().Unix(), uuid.NewString()[:8])
}
