package gateways

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"

	"gridiron/internal/models"
)

// paypalAPI is the part of the PayPal SDK client the gateway calls.
type paypalAPI interface {
	CaptureOrder(ctx context.Context, orderID string, req paypal.CaptureOrderRequest) (*paypal.CaptureOrderResponse, error)
}

type PayPalGateway struct {
	api paypalAPI
}

// NewPayPalGateway builds a gateway against baseURL, e.g. paypal.APIBaseSandBox.
func NewPayPalGateway(ctx context.Context, clientID, secret, baseURL string) (*PayPalGateway, error) {
	client, err := paypal.NewClient(clientID, secret, baseURL)
	if err != nil {
		return nil, fmt.Errorf("create paypal client: %w", err)
	}
	if _, err := client.GetAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("paypal access token: %w", mapPayPalError(err))
	}
	return &PayPalGateway{api: client}, nil
}

func (g *PayPalGateway) Provider() string {
	return models.ProviderPayPal
}

func (g *PayPalGateway) Capture(ctx context.Context, orderID string) (*Capture, error) {
	resp, err := g.api.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, mapPayPalError(err)
	}
	return normalizePayPal(orderID, resp)
}

// normalizePayPal reads the first capture of the first purchase unit.
func normalizePayPal(orderID string, resp *paypal.CaptureOrderResponse) (*Capture, error) {
	capture := &Capture{
		Provider:  models.ProviderPayPal,
		Reference: orderID,
		Status:    resp.Status,
		Raw: map[string]interface{}{
			"order_status": resp.Status,
		},
	}
	if resp.Payer != nil {
		capture.PayerEmail = resp.Payer.EmailAddress
		capture.Raw["payer_id"] = resp.Payer.PayerID
	}

	for _, unit := range resp.PurchaseUnits {
		if unit.Payments == nil || len(unit.Payments.Captures) == 0 {
			continue
		}
		c := unit.Payments.Captures[0]
		capture.CaptureID = c.ID
		if c.Amount != nil {
			amount, err := decimal.NewFromString(c.Amount.Value)
			if err != nil {
				return nil, fmt.Errorf("paypal capture amount %q: %w", c.Amount.Value, err)
			}
			capture.Amount = amount
			capture.Currency = strings.ToUpper(c.Amount.Currency)
		}
		break
	}

	if capture.Completed() && capture.CaptureID == "" {
		return nil, &GatewayError{
			Provider: models.ProviderPayPal,
			Name:     "MISSING_CAPTURE",
			Message:  "order completed without a capture",
		}
	}
	return capture, nil
}

func mapPayPalError(err error) error {
	var errResp *paypal.ErrorResponse
	if errors.As(err, &errResp) {
		status := 0
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
		return &GatewayError{
			Provider:   models.ProviderPayPal,
			StatusCode: status,
			Name:       errResp.Name,
			Message:    errResp.Message,
		}
	}
	return &GatewayError{
		Provider: models.ProviderPayPal,
		Name:     "TRANSPORT",
		Message:  "paypal is unavailable",
	}
}
