package signer

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alertgate/alertgate/internal/pkg/apperrors"
)

const (
	jwtIssuer = "cdp"
	jwtTTL    = 2 * time.Minute
)

// JWTSigner implements the CDP scheme: a short-lived ES256 token whose uri
// claim binds the exact "METHOD path[?query]" of the request. Tokens are
// regenerated on every call; the 2-minute expiry makes caching pointless and
// reuse across endpoints invalid.
type JWTSigner struct {
	keyName string
	key     *ecdsa.PrivateKey
	now     func() time.Time
}

func NewJWTSigner(keyName, privateKeyPEM string) (*JWTSigner, error) {
	if keyName == "" {
		return nil, apperrors.NewConfig("coinbase key_name is required for token signing")
	}
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return &JWTSigner{keyName: keyName, key: key, now: time.Now}, nil
}

func (s *JWTSigner) Sign(method, path, query string, _ []byte) (map[string]string, error) {
	uri := strings.ToUpper(method) + " " + path
	if query != "" {
		uri += "?" + query
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"sub": s.keyName,
		"iss": jwtIssuer,
		"nbf": now.Unix(),
		"exp": now.Add(jwtTTL).Unix(),
		"uri": uri,
	})
	token.Header["kid"] = s.keyName
	token.Header["nonce"] = newNonce()

	signed, err := token.SignedString(s.key)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrAuthFailed, "failed to sign request token", err)
	}

	return map[string]string{
		"Authorization": "Bearer " + signed,
	}, nil
}

// parsePrivateKey tolerates the mangling environment variables inflict on PEM
// material: literal "\n" sequences and enclosing quotes.
func parsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	if raw == "" {
		return nil, apperrors.NewConfig("coinbase private_key is required for token signing")
	}

	normalized := strings.ReplaceAll(raw, `\n`, "\n")
	normalized = strings.Trim(normalized, `"'`)
	normalized = strings.TrimSpace(normalized)

	if !strings.Contains(normalized, "-----BEGIN") || !strings.Contains(normalized, "-----END") {
		return nil, apperrors.NewConfig("coinbase private_key is not PEM: missing BEGIN/END markers")
	}

	block, _ := pem.Decode([]byte(normalized))
	if block == nil {
		return nil, apperrors.NewConfig("coinbase private_key is not valid PEM")
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrConfig, "coinbase private_key is not an EC key", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, apperrors.NewConfig(fmt.Sprintf("coinbase private_key is %T, want ECDSA", parsed))
	}
	return key, nil
}

func newNonce() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
