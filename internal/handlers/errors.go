package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/logger/sl"
	"gridiron/internal/services/payment"
	"gridiron/internal/utils/response"
)

// writeError answers with the status mapped from err. Server-side failures
// are logged with the request id; client errors are not.
func writeError(c *fiber.Ctx, log *slog.Logger, err error) error {
	status := domainerrors.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			sl.Err(err),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("request_id", c.Locals("requestid")),
			slog.Int("status", status),
		)
	}

	var recErr *payment.ReconciliationError
	if errors.As(err, &recErr) {
		return response.ErrorWith(c, status, domainerrors.Message(err), fiber.Map{
			"order_id":       recErr.OrderID,
			"capture_id":     recErr.CaptureID,
			"transaction_id": recErr.TransactionID,
			"reconciliation": recErr.Note(),
		})
	}
	return response.FromError(c, err)
}
