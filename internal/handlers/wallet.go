package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"

	"gridiron/internal/services/wallet"
	"gridiron/internal/utils"
	"gridiron/internal/utils/pagination"
	"gridiron/internal/utils/response"
)

type WalletHandler struct {
	walletService wallet.Service
	log           *slog.Logger
}

func NewWalletHandler(walletService wallet.Service, log *slog.Logger) *WalletHandler {
	return &WalletHandler{walletService: walletService, log: log}
}

// GetWallet returns the caller's balance.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	w, err := h.walletService.GetWallet(c.UserContext(), claims.UserID)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return response.Success(c, "Wallet retrieved successfully", fiber.Map{
		"balance":  w.Balance,
		"currency": w.Currency,
		"status":   w.Status,
	})
}

// ListTransactions pages through the caller's ledger entries.
func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	p := pagination.ParseFromRequest(c)
	txs, total, err := h.walletService.ListTransactions(c.UserContext(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p.Total = total

	return c.JSON(pagination.Response(p, txs))
}
