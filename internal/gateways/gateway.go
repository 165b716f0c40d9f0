// Package gateways captures approved payments at external providers and
// normalizes the result for the ledger.
package gateways

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Capture statuses reported by providers for a finished capture.
const (
	StatusCompleted = "COMPLETED"
	StatusSucceeded = "succeeded"
)

// Gateway captures a provider-side payment referenced by an order or intent id.
type Gateway interface {
	Provider() string
	Capture(ctx context.Context, reference string) (*Capture, error)
}

// Capture is a provider capture result in ledger terms.
type Capture struct {
	Provider   string
	Reference  string
	CaptureID  string
	Status     string
	Amount     decimal.Decimal
	Currency   string
	PayerEmail string
	Raw        map[string]interface{}
}

// Completed reports whether the provider finished moving the money.
func (c *Capture) Completed() bool {
	return c.Status == StatusCompleted || c.Status == StatusSucceeded
}

// GatewayError is a failure reported by a payment provider.
type GatewayError struct {
	Provider   string
	StatusCode int
	Name       string
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s gateway error %d: %s: %s", e.Provider, e.StatusCode, e.Name, e.Message)
}

// HTTPStatus maps the provider status onto the statuses the API exposes.
func (e *GatewayError) HTTPStatus() int {
	switch {
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return http.StatusBadRequest
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return http.StatusUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	case e.StatusCode == 0, e.StatusCode == http.StatusTooManyRequests, e.StatusCode >= 500:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (e *GatewayError) PublicMessage() string {
	if e.Message == "" {
		return fmt.Sprintf("%s request failed", e.Provider)
	}
	return e.Message
}
