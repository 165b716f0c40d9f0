package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"

	"gridiron/internal/services/nfl"
)

type GameHandler struct {
	games nfl.Service
	log   *slog.Logger
}

func NewGameHandler(games nfl.Service, log *slog.Logger) *GameHandler {
	return &GameHandler{games: games, log: log}
}

// GetGame answers with the reshaped box score for :id.
func (h *GameHandler) GetGame(c *fiber.Ctx) error {
	game, err := h.games.Game(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(game)
}
