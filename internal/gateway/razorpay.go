package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/medigo/orders-service/internal/domain"
	"github.com/medigo/orders-service/internal/logger"
)

// Order is the gateway's view of a registered order. Amount is in minor
// units (paise).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Client talks to a Razorpay-compatible orders API. The base URL is
// injectable so tests can point it at a local server.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order with the gateway. Transport errors and 5xx
// responses are retried twice with exponential backoff; the request never
// outlives ctx or the client timeout. Upstream error bodies are logged at
// warn level only and never returned to the caller.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}

	var out Order
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/v1/orders", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(c.keyID, c.keySecret)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			logger.Warn("gateway 5xx", "status", resp.StatusCode)
			return retry.RetryableError(fmt.Errorf("gateway status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("gateway status %d", resp.StatusCode)
		}
		return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out)
	})
	if err != nil {
		logger.Warn("gateway order creation failed", "err", err)
		return nil, domain.ErrGatewayUnavailable
	}
	return &out, nil
}

// Signature returns the hex HMAC-SHA256 the gateway computes over a
// confirmed payment: "<gateway_order_id>|<payment_id>" keyed by the secret.
func Signature(secret, gatewayOrderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a callback signature in constant time.
func VerifySignature(secret, gatewayOrderID, paymentID, signature string) bool {
	expected := Signature(secret, gatewayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
