package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// Client talks to the hosted payment provider. Order registration uses
// basic auth over the REST API; callback signatures are HMAC-SHA256 over
// "providerOrderID|providerPaymentID" with the shared secret.
type Client struct {
	keyID   string
	secret  string
	baseURL string
	http    *http.Client
}

func New(keyID, secret, baseURL string, timeout time.Duration) *Client {
	return &Client{
		keyID:   keyID,
		secret:  secret,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type createOrderReq struct {
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResp struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Error    *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers a provider-side order for amountPaise and returns
// the provider's order id.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receiptID string) (string, error) {
	if amountPaise <= 0 {
		return "", fmt.Errorf("invalid amount: %d", amountPaise)
	}

	body, err := json.Marshal(createOrderReq{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receiptID,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.keyID, c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out createOrderResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("provider rejected order: %s (%s)", out.Error.Description, out.Error.Code)
		}
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	if out.ID == "" {
		return "", fmt.Errorf("provider returned no order id")
	}

	return out.ID, nil
}

// VerifySignature recomputes the callback HMAC and compares in constant
// time. Never trust a signature check done client-side.
func (c *Client) VerifySignature(providerOrderID, providerPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(providerOrderID + "|" + providerPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
