package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"

	"gridiron/internal/repositories"
	"gridiron/internal/services/projection"
	"gridiron/internal/utils/pagination"
)

type ProjectionHandler struct {
	projections projection.Service
	log         *slog.Logger
}

func NewProjectionHandler(projections projection.Service, log *slog.Logger) *ProjectionHandler {
	return &ProjectionHandler{projections: projections, log: log}
}

func (h *ProjectionHandler) ListProjections(c *fiber.Ctx) error {
	p, filter := projectionFilter(c)
	rows, total, err := h.projections.ListProjections(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, rows))
}

func (h *ProjectionHandler) ListRankings(c *fiber.Ctx) error {
	p, filter := projectionFilter(c)
	rows, total, err := h.projections.ListRankings(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, rows))
}

func projectionFilter(c *fiber.Ctx) (pagination.Pagination, repositories.ProjectionFilter) {
	p := pagination.ParseFromRequest(c)
	return p, repositories.ProjectionFilter{
		Source:   c.Query("source"),
		Position: c.Query("position"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
}
