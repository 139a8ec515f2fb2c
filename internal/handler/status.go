package handler

import (
	"fmt"
	"html"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alertgate/alertgate/internal/exchange"
	"github.com/alertgate/alertgate/internal/pkg/logger"
)

// StatusHandler serves the diagnostic surface: health, home page, recent logs.
type StatusHandler struct {
	client *exchange.Client
}

func NewStatusHandler(client *exchange.Client) *StatusHandler {
	return &StatusHandler{client: client}
}

func (h *StatusHandler) Health(c *gin.Context) {
	balances := h.client.Balances(c.Request.Context())
	view := make(map[string]string, len(balances))
	for currency, amount := range balances {
		view[currency] = amount.String()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "balances": view})
}

// Logs returns the newest ring-buffer entries, oldest first. Default 100.
func (h *StatusHandler) Logs(c *gin.Context) {
	n := 100
	if raw := c.Query("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}
	c.JSON(http.StatusOK, gin.H{"entries": logger.Buffer().Recent(n)})
}

func (h *StatusHandler) Home(c *gin.Context) {
	balances := h.client.Balances(c.Request.Context())

	var sb strings.Builder
	if len(balances) == 0 {
		sb.WriteString("<p>No balances found (account may be empty, or credentials unset).</p>")
	} else {
		currencies := make([]string, 0, len(balances))
		for currency := range balances {
			currencies = append(currencies, currency)
		}
		sort.Strings(currencies)
		if len(currencies) > 10 {
			currencies = currencies[:10]
		}
		sb.WriteString("<ul>")
		for _, currency := range currencies {
			fmt.Fprintf(&sb, "<li><strong>%s:</strong> %s</li>",
				html.EscapeString(currency), html.EscapeString(balances[currency].String()))
		}
		sb.WriteString("</ul>")
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Alertgate</title></head>
<body>
<h1>TradingView &rarr; Coinbase Advanced</h1>
<p>Status: ONLINE</p>
<h3>Balances</h3>
%s
<h3>Endpoints</h3>
<p><code>POST /webhook</code> &mdash; place an order from an alert</p>
<p><code>POST /webhook/test</code> &mdash; dry run, no order placed</p>
<p><code>GET /health</code>, <code>GET /logs</code></p>
<h3>Alert format</h3>
<p><code>symbol: BTC-USD; action: buy; amount: 10</code></p>
</body>
</html>`, sb.String())

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
