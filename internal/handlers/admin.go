package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"

	"gridiron/internal/services/payment"
	"gridiron/internal/utils/pagination"
	"gridiron/internal/utils/response"
)

type AdminHandler struct {
	paymentService payment.Service
	log            *slog.Logger
}

func NewAdminHandler(paymentService payment.Service, log *slog.Logger) *AdminHandler {
	return &AdminHandler{paymentService: paymentService, log: log}
}

// ListReconciliations lists deposits that were captured but never credited.
func (h *AdminHandler) ListReconciliations(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	txs, total, err := h.paymentService.ListReconciliations(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p.Total = total

	return c.JSON(pagination.Response(p, txs))
}

// RetryReconciliation re-runs the credit step for the ledger entry :id.
func (h *AdminHandler) RetryReconciliation(c *fiber.Ctx) error {
	txID := c.Params("id")
	if txID == "" {
		return response.BadRequest(c, "Transaction ID is required")
	}

	result, err := h.paymentService.RetryReconciliation(c.UserContext(), txID)
	if err != nil {
		return writeError(c, h.log, err)
	}

	h.log.Info("reconciliation retried",
		slog.String("transaction_id", txID),
		slog.Any("request_id", c.Locals("requestid")),
	)
	return response.Success(c, "Balance credited", result)
}
