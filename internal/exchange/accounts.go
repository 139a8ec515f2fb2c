package exchange

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/alertgate/alertgate/internal/pkg/logger"
	"github.com/alertgate/alertgate/internal/pkg/metrics"
)

// maxAccountPages bounds the cursor walk so a malformed has_next that never
// clears cannot loop forever.
const maxAccountPages = 10

type accountsResponse struct {
	Accounts []struct {
		Currency         string `json:"currency"`
		AvailableBalance struct {
			Value string `json:"value"`
		} `json:"available_balance"`
	} `json:"accounts"`
	HasNext bool   `json:"has_next"`
	Cursor  string `json:"cursor"`
}

// Balances walks the paginated accounts listing and sums available balances
// per currency. Entries with a non-positive available amount are dropped.
//
// On any underlying failure this returns the (possibly partial) map collected
// so far rather than an error; the degradation is logged and counted so an
// empty result is distinguishable from a genuinely empty account.
func (c *Client) Balances(ctx context.Context) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	cursor := ""

	for page := 0; page < maxAccountPages; page++ {
		params := url.Values{}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp accountsResponse
		if err := c.Do(ctx, "GET", endpointAccounts, params, nil, &resp); err != nil {
			logger.Warn("balance fetch degraded to partial result",
				"page", page, "error", err.Error())
			metrics.DegradedFetches.WithLabelValues("balances").Inc()
			return balances
		}

		for _, acct := range resp.Accounts {
			available, err := decimal.NewFromString(acct.AvailableBalance.Value)
			if err != nil || available.Sign() <= 0 {
				continue
			}
			balances[acct.Currency] = balances[acct.Currency].Add(available)
		}

		cursor = resp.Cursor
		if !resp.HasNext || cursor == "" {
			break
		}
	}

	return balances
}
