package exchange

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/alertgate/alertgate/internal/pkg/apperrors"
	"github.com/alertgate/alertgate/internal/pkg/logger"
	"github.com/alertgate/alertgate/internal/pkg/metrics"
)

// InstrumentInfo describes a product's precision and limits.
type InstrumentInfo struct {
	BaseIncrement  decimal.Decimal
	QuoteIncrement decimal.Decimal
	MinMarketFunds decimal.Decimal
}

// DefaultInstrumentInfo is the conservative fallback when the product lookup
// fails: the finest increments Coinbase uses anywhere, so a size the real
// product accepts is never rejected by the fallback.
func DefaultInstrumentInfo() InstrumentInfo {
	return InstrumentInfo{
		BaseIncrement:  decimal.New(1, -8),
		QuoteIncrement: decimal.New(1, -2),
		MinMarketFunds: decimal.New(1, 0),
	}
}

type productsResponse struct {
	Products []struct {
		ProductID      string `json:"product_id"`
		BaseIncrement  string `json:"base_increment"`
		QuoteIncrement string `json:"quote_increment"`
		MinMarketFunds string `json:"min_market_funds"`
	} `json:"products"`
}

// ProductInfo looks the product up in the batch listing. Any failure, a
// missing product included, yields the fallback default; metadata flakiness
// must not block an order.
func (c *Client) ProductInfo(ctx context.Context, productID string) InstrumentInfo {
	params := url.Values{}
	params.Set("product_ids", productID)

	var resp productsResponse
	if err := c.Do(ctx, "GET", endpointProducts, params, nil, &resp); err != nil {
		logger.Warn("product lookup failed, using fallback increments",
			"product_id", productID, "error", err.Error())
		metrics.DegradedFetches.WithLabelValues("product").Inc()
		return DefaultInstrumentInfo()
	}

	for _, p := range resp.Products {
		if p.ProductID != productID {
			continue
		}
		info := DefaultInstrumentInfo()
		if v, err := decimal.NewFromString(p.BaseIncrement); err == nil && v.Sign() > 0 {
			info.BaseIncrement = v
		}
		if v, err := decimal.NewFromString(p.QuoteIncrement); err == nil && v.Sign() > 0 {
			info.QuoteIncrement = v
		}
		if v, err := decimal.NewFromString(p.MinMarketFunds); err == nil && v.Sign() > 0 {
			info.MinMarketFunds = v
		}
		return info
	}

	logger.Warn("product not in listing, using fallback increments", "product_id", productID)
	metrics.DegradedFetches.WithLabelValues("product").Inc()
	return DefaultInstrumentInfo()
}

type tickerResponse struct {
	Price   string `json:"price"`
	BestAsk string `json:"best_ask"`
	BestBid string `json:"best_bid"`
}

// TickerPrice returns the current market price, preferring the last trade
// price over the best ask, then best bid.
func (c *Client) TickerPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	var resp tickerResponse
	endpoint := fmt.Sprintf(endpointTicker, productID)
	if err := c.Do(ctx, "GET", endpoint, nil, nil, &resp); err != nil {
		return decimal.Zero, err
	}

	for _, raw := range []string{resp.Price, resp.BestAsk, resp.BestBid} {
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err == nil && price.Sign() > 0 {
			return price, nil
		}
	}
	return decimal.Zero, apperrors.New(apperrors.ErrUpstream,
		fmt.Sprintf("ticker for %s has no usable price", productID), nil)
}
