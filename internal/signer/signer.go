// Package signer produces Coinbase Advanced Trade authentication material.
// Two schemes exist: the legacy HMAC header triple and the CDP ES256 bearer
// token. Which one is active follows from the configured credential shape.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/alertgate/alertgate/internal/config"
	"github.com/alertgate/alertgate/internal/pkg/apperrors"
)

// Signer turns one outgoing request into auth headers. body must be the exact
// bytes that will be transmitted; the exchange verifies the signature against
// what it receives.
type Signer interface {
	Sign(method, path, query string, body []byte) (map[string]string, error)
}

// New selects the signer matching the configured credential shape. The CDP
// key wins when both shapes are present. With no credentials (or an unusable
// key) a disabled signer is installed and the error is returned so the caller
// can log it; the process keeps running and every signing call fails closed.
func New(cfg config.CoinbaseConfig) (Signer, error) {
	if cfg.KeyName != "" || cfg.PrivateKey != "" {
		s, err := NewJWTSigner(cfg.KeyName, cfg.PrivateKey)
		if err != nil {
			return &disabledSigner{err: err}, err
		}
		return s, nil
	}
	if cfg.ApiKey != "" || cfg.ApiSecret != "" {
		s, err := NewHMACSigner(cfg.ApiKey, cfg.ApiSecret)
		if err != nil {
			return &disabledSigner{err: err}, err
		}
		return s, nil
	}
	err := apperrors.NewConfig("no exchange credentials configured")
	return &disabledSigner{err: err}, err
}

// HMACSigner implements the legacy scheme: hex(HMAC-SHA256(secret,
// timestamp + METHOD + path + body)). The query string is not part of the
// canonical message.
type HMACSigner struct {
	apiKey    string
	apiSecret string
	now       func() time.Time
}

func NewHMACSigner(apiKey, apiSecret string) (*HMACSigner, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, apperrors.NewConfig("api key and secret are both required for HMAC signing")
	}
	return &HMACSigner{apiKey: apiKey, apiSecret: apiSecret, now: time.Now}, nil
}

func (s *HMACSigner) Sign(method, path, _ string, body []byte) (map[string]string, error) {
	timestamp := fmt.Sprintf("%d", s.now().Unix())
	message := timestamp + strings.ToUpper(method) + path + string(body)

	mac := hmac.New(sha256.New, []byte(s.apiSecret))
	mac.Write([]byte(message))
	signature := hex.EncodeToString(mac.Sum(nil))

	return map[string]string{
		"CB-ACCESS-KEY":       s.apiKey,
		"CB-ACCESS-SIGN":      signature,
		"CB-ACCESS-TIMESTAMP": timestamp,
	}, nil
}

// disabledSigner fails every call with the configuration error that prevented
// a real signer from being built.
type disabledSigner struct {
	err error
}

func (s *disabledSigner) Sign(_, _, _ string, _ []byte) (map[string]string, error) {
	return nil, s.err
}
