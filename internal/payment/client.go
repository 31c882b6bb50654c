// Package payment creates orders with the external payment gateway. Unlike
// code delivery, gateway failures are fatal for the request and propagate to
// the caller.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gramly/internal/models"
)

// Order is the gateway's order-creation response.
type Order struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// Client creates payment orders.
type Client interface {
	CreateOrder(ctx context.Context, amountMinorUnits int, currency string) (*Order, error)
	// KeyID is the public key id the frontend hands to the checkout widget.
	KeyID() string
}

// GatewayClient talks to a razorpay-compatible orders endpoint using basic
// auth with the key id and secret.
type GatewayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

// NewGatewayClient returns a client for the given gateway credentials.
func NewGatewayClient(baseURL, keyID, keySecret string) *GatewayClient {
	return &GatewayClient{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// KeyID exposes the public key id for checkout payloads.
func (c *GatewayClient) KeyID() string {
	return c.keyID
}

// CreateOrder posts an order for the given amount in minor units.
func (c *GatewayClient) CreateOrder(ctx context.Context, amountMinorUnits int, currency string) (*Order, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":   amountMinorUnits,
		"currency": currency,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, models.NewExternalServiceError("payment", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewExternalServiceError("payment",
			fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, models.NewExternalServiceError("payment", err)
	}
	return &order, nil
}
