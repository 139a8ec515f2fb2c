package exchange

import (
	"context"

	"github.com/alertgate/alertgate/internal/pkg/apperrors"
)

// MarketIOC carries exactly one of quote_size (BUY) or base_size (SELL) as an
// exact decimal string.
type MarketIOC struct {
	QuoteSize string `json:"quote_size,omitempty"`
	BaseSize  string `json:"base_size,omitempty"`
}

type OrderConfiguration struct {
	MarketMarketIOC MarketIOC `json:"market_market_ioc"`
}

type OrderRequest struct {
	ClientOrderID      string             `json:"client_order_id"`
	ProductID          string             `json:"product_id"`
	Side               string             `json:"side"`
	OrderConfiguration OrderConfiguration `json:"order_configuration"`
}

type orderResponse struct {
	OrderID         string `json:"order_id"`
	SuccessResponse struct {
		OrderID string `json:"order_id"`
	} `json:"success_response"`
}

// CreateOrder submits a market immediate-or-cancel order and returns the
// exchange-assigned order id. Transport and exchange errors propagate
// unchanged.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (string, error) {
	var resp orderResponse
	if err := c.Do(ctx, "POST", endpointOrders, nil, req, &resp); err != nil {
		return "", err
	}

	orderID := resp.OrderID
	if orderID == "" {
		orderID = resp.SuccessResponse.OrderID
	}
	if orderID == "" {
		return "", apperrors.New(apperrors.ErrUpstream, "order response has no order_id", nil)
	}
	return orderID, nil
}
