// Package exchange is the authenticated Coinbase Advanced Trade client:
// request signing and transport, balance aggregation, product metadata, and
// order placement.
package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alertgate/alertgate/internal/pkg/apperrors"
	"github.com/alertgate/alertgate/internal/signer"
)

const (
	endpointAccounts = "/api/v3/brokerage/accounts"
	endpointProducts = "/api/v3/brokerage/products"
	endpointTicker   = "/api/v3/brokerage/products/%s/ticker"
	endpointOrders   = "/api/v3/brokerage/orders"

	getTimeout  = 15 * time.Second
	postTimeout = 20 * time.Second

	maxErrorBodyBytes = 4 << 10
)

type Client struct {
	baseURL string
	signer  signer.Signer
	http    *http.Client
}

func NewClient(baseURL string, s signer.Signer) *Client {
	return &Client{
		baseURL: baseURL,
		signer:  s,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Do issues one signed call. The signature is rebuilt from the exact bytes
// transmitted: the body is marshaled once and the query string is encoded
// once, and both feed the signer and the wire unchanged. No retries.
func (c *Client) Do(ctx context.Context, method, endpoint string, params url.Values, body, out any) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return apperrors.New(apperrors.ErrInternal, "failed to encode request body", err)
		}
	}

	query := ""
	if len(params) > 0 {
		query = params.Encode()
	}

	headers, err := c.signer.Sign(method, endpoint, query, bodyBytes)
	if err != nil {
		return err
	}

	timeout := getTimeout
	if method != http.MethodGet {
		timeout = postTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := c.baseURL + endpoint
	if query != "" {
		reqURL += "?" + query
	}

	var reqBody io.Reader
	if bodyBytes != nil {
		reqBody = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return apperrors.New(apperrors.ErrInternal, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		msg := fmt.Sprintf("%s %s failed", method, endpoint)
		if errors.Is(err, context.DeadlineExceeded) {
			msg = fmt.Sprintf("%s %s timed out after %s", method, endpoint, timeout)
		}
		return apperrors.New(apperrors.ErrTransport, msg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return apperrors.NewUpstream(resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.New(apperrors.ErrUpstream, fmt.Sprintf("failed to decode %s response", endpoint), err)
		}
	}
	return nil
}
