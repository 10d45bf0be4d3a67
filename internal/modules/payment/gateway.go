package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRazorpayBaseURL is the live Razorpay REST endpoint.
const DefaultRazorpayBaseURL = "https://api.razorpay.com"

// ErrGateway wraps every failure to talk to the payment provider.
var ErrGateway = errors.New("payment gateway error")

// Gateway is the provider-agnostic interface a payment adapter implements.
type Gateway interface {
	// Fetch returns the provider's view of a payment.
	Fetch(ctx context.Context, paymentID string) (*GatewayPayment, error)
	// Capture settles an authorized payment for the given amount.
	Capture(ctx context.Context, paymentID string, amount int64, currency string) (*GatewayPayment, error)
}

// ── Razorpay Adapter ──────────────────────────────────────────────────────────
// API docs: https://razorpay.com/docs/api/payments/

type razorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpayGateway returns a Gateway that authenticates with the key pair.
// An empty baseURL selects DefaultRazorpayBaseURL.
func NewRazorpayGateway(keyID, keySecret, baseURL string, client *http.Client) Gateway {
	if baseURL == "" {
		baseURL = DefaultRazorpayBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &razorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
	}
}

func (g *razorpayGateway) Fetch(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	return g.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil)
}

func (g *razorpayGateway) Capture(ctx context.Context, paymentID string, amount int64, currency string) (*GatewayPayment, error) {
	body := map[string]interface{}{"amount": amount, "currency": currency}
	return g.do(ctx, http.MethodPost, "/v1/payments/"+url.PathEscape(paymentID)+"/capture", body)
}

func (g *razorpayGateway) do(ctx context.Context, method, path string, body interface{}) (*GatewayPayment, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("%w: %s %s returned %d: %s", ErrGateway, method, path, resp.StatusCode, apiErr.Error.Description)
	}

	var p GatewayPayment
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode payment: %v", ErrGateway, err)
	}
	return &p, nil
}

// ── Webhook signatures ────────────────────────────────────────────────────────

// ValidSignature reports whether signature is the hex HMAC-SHA256 of body
// under secret, as sent in the X-Razorpay-Signature header.
func ValidSignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
