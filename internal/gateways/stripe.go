package gateways

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/models"
)

// stripeAPI is the part of the payment intent client the gateway calls.
type stripeAPI interface {
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Capture(id string, params *stripe.PaymentIntentCaptureParams) (*stripe.PaymentIntent, error)
}

type StripeGateway struct {
	api stripeAPI
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{
		api: &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

func (g *StripeGateway) Provider() string {
	return models.ProviderStripe
}

// Capture captures an intent in requires_capture and accepts one that
// already succeeded. Any other state cannot be deposited.
func (g *StripeGateway) Capture(ctx context.Context, intentID string) (*Capture, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := g.api.Get(intentID, params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
	case stripe.PaymentIntentStatusRequiresCapture:
		captureParams := &stripe.PaymentIntentCaptureParams{}
		captureParams.Context = ctx
		intent, err = g.api.Capture(intentID, captureParams)
		if err != nil {
			return nil, mapStripeError(err)
		}
	default:
		return nil, domainerrors.ErrIntentNotCapturable.WithMessage("payment intent is %s", intent.Status)
	}

	return normalizeStripe(intent), nil
}

func normalizeStripe(intent *stripe.PaymentIntent) *Capture {
	currency := strings.ToUpper(string(intent.Currency))
	received := intent.AmountReceived
	if received == 0 {
		received = intent.Amount
	}

	capture := &Capture{
		Provider:   models.ProviderStripe,
		Reference:  intent.ID,
		CaptureID:  intent.ID,
		Status:     string(intent.Status),
		Amount:     fromMinorUnits(received, currency),
		Currency:   currency,
		PayerEmail: intent.ReceiptEmail,
		Raw: map[string]interface{}{
			"intent_status": string(intent.Status),
		},
	}
	if intent.Charges != nil && len(intent.Charges.Data) > 0 {
		capture.CaptureID = intent.Charges.Data[0].ID
	}
	return capture
}

// zeroDecimalCurrencies are charged in whole units by Stripe.
var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "JPY": true,
	"KMF": true, "KRW": true, "MGA": true, "PYG": true, "RWF": true,
	"UGX": true, "VND": true, "VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// threeDecimalCurrencies are charged in thousandths. Stripe requires the last
// digit to be zero, so the value still fits two decimal places.
var threeDecimalCurrencies = map[string]bool{
	"BHD": true, "JOD": true, "KWD": true, "OMR": true, "TND": true,
}

func fromMinorUnits(amount int64, currency string) decimal.Decimal {
	switch {
	case zeroDecimalCurrencies[currency]:
		return decimal.NewFromInt(amount)
	case threeDecimalCurrencies[currency]:
		return decimal.New(amount, -3)
	default:
		return decimal.New(amount, -2)
	}
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &GatewayError{
			Provider:   models.ProviderStripe,
			StatusCode: stripeErr.HTTPStatusCode,
			Name:       string(stripeErr.Code),
			Message:    stripeErr.Msg,
		}
	}
	return &GatewayError{
		Provider: models.ProviderStripe,
		Name:     "TRANSPORT",
		Message:  "stripe is unavailable",
	}
}
