package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertgate/alertgate/internal/alert"
	"github.com/alertgate/alertgate/internal/exchange"
	"github.com/alertgate/alertgate/internal/middleware"
	"github.com/alertgate/alertgate/internal/service"
	"github.com/alertgate/alertgate/internal/signer"
)

// fakeCoinbase stands in for the brokerage API: one account page, one
// product, and a capture of every order it receives.
type fakeCoinbase struct {
	mu     sync.Mutex
	orders []exchange.OrderRequest
}

func (f *fakeCoinbase) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/brokerage/accounts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts":[
			{"currency":"USD","available_balance":{"value":"1000"}},
			{"currency":"BTC","available_balance":{"value":"2"}}
		],"has_next":false,"cursor":""}`))
	})
	mux.HandleFunc("/api/v3/brokerage/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[
			{"product_id":"BTC-USD","base_increment":"0.00000001","quote_increment":"0.01","min_market_funds":"1"}
		]}`))
	})
	mux.HandleFunc("/api/v3/brokerage/products/BTC-USD/ticker", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price":"50000"}`))
	})
	mux.HandleFunc("/api/v3/brokerage/orders", func(w http.ResponseWriter, r *http.Request) {
		var req exchange.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.orders = append(f.orders, req)
		f.mu.Unlock()
		w.Write([]byte(`{"order_id":"order-1"}`))
	})
	return mux
}

func (f *fakeCoinbase) received() []exchange.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]exchange.OrderRequest(nil), f.orders...)
}

func newTestRouter(t *testing.T, baseURL string, useTenPercent bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sg, err := signer.NewHMACSigner("test-key", "test-secret")
	require.NoError(t, err)
	client := exchange.NewClient(baseURL, sg)
	trader := service.NewTrader(client, service.NewSizer(useTenPercent))
	h := NewWebhookHandler(alert.NewParser("BTC-USD"), trader)
	status := NewStatusHandler(client)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/health", status.Health)
	r.POST("/webhook", h.Receive)
	r.POST("/webhook/test", h.DryRun)
	return r
}

func TestWebhookBuyTenPercent(t *testing.T) {
	fake := &fakeCoinbase{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	r := newTestRouter(t, srv.URL, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("symbol: BTC-USD; action: buy"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Status string `json:"status"`
		Result struct {
			OrderID   string `json:"order_id"`
			QuoteSize string `json:"quote_size"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "order-1", resp.Result.OrderID)
	assert.Equal(t, "100", resp.Result.QuoteSize)

	orders := fake.received()
	require.Len(t, orders, 1)
	assert.Equal(t, "BUY", orders[0].Side)
	assert.Equal(t, "100", orders[0].OrderConfiguration.MarketMarketIOC.QuoteSize)
	assert.Empty(t, orders[0].OrderConfiguration.MarketMarketIOC.BaseSize)
	assert.True(t, strings.HasPrefix(orders[0].ClientOrderID, "tv-buy-"))
}

func TestWebhookSellTenPercent(t *testing.T) {
	fake := &fakeCoinbase{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	r := newTestRouter(t, srv.URL, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("symbol: BTC-USD; action: SELL"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	orders := fake.received()
	require.Len(t, orders, 1)
	assert.Equal(t, "SELL", orders[0].Side)
	assert.Equal(t, "0.2", orders[0].OrderConfiguration.MarketMarketIOC.BaseSize)
	assert.Empty(t, orders[0].OrderConfiguration.MarketMarketIOC.QuoteSize)
}

func TestWebhookSellNoBalance(t *testing.T) {
	fake := &fakeCoinbase{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/brokerage/accounts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts":[],"has_next":false,"cursor":""}`))
	})
	mux.HandleFunc("/", fake.handler().ServeHTTP)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := newTestRouter(t, srv.URL, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("symbol: BTC-USD; action: sell"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_BALANCE")
	assert.Empty(t, fake.received())
}

func TestWebhookUnknownActionRejected(t *testing.T) {
	fake := &fakeCoinbase{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	r := newTestRouter(t, srv.URL, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("action: hodl"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	assert.Empty(t, fake.received())
}

func TestWebhookDryRunPlacesNoOrder(t *testing.T) {
	fake := &fakeCoinbase{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	r := newTestRouter(t, srv.URL, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook/test", strings.NewReader("symbol: BTC-USD; action: buy"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"dry_run"`)
	assert.Contains(t, w.Body.String(), `"quote_size":"100"`)
	assert.Empty(t, fake.received())
}

func TestHealthReportsBalances(t *testing.T) {
	fake := &fakeCoinbase{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	r := newTestRouter(t, srv.URL, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"USD":"1000"`)
}
