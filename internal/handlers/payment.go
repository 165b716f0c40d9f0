package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"

	"gridiron/internal/models"
	"gridiron/internal/services/payment"
	"gridiron/internal/utils"
	"gridiron/internal/utils/response"
)

type PaymentHandler struct {
	paymentService payment.Service
	log            *slog.Logger
}

func NewPaymentHandler(paymentService payment.Service, log *slog.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, log: log}
}

// CapturePayPalOrder captures an approved PayPal order and credits the caller.
func (h *PaymentHandler) CapturePayPalOrder(c *fiber.Ctx) error {
	return h.capture(c, models.ProviderPayPal, c.Params("orderId"))
}

// CaptureStripeIntent captures a confirmed Stripe payment intent and credits the caller.
func (h *PaymentHandler) CaptureStripeIntent(c *fiber.Ctx) error {
	return h.capture(c, models.ProviderStripe, c.Params("intentId"))
}

func (h *PaymentHandler) capture(c *fiber.Ctx, provider, reference string) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	result, err := h.paymentService.Capture(c.UserContext(), provider, claims.UserID, reference)
	if err != nil {
		return writeError(c, h.log, err)
	}

	message := "Payment captured successfully"
	if result.Replayed {
		message = "Payment already captured"
	}
	return response.Success(c, message, result)
}
