package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"

	"gridiron/internal/logger/sl"
	"gridiron/internal/repositories/cache"
)

const healthTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheHealth is the redis cache subset health reporting needs.
type CacheHealth interface {
	HealthCheck(ctx context.Context) error
	Stats() cache.Stats
	PoolStats() *redis.PoolStats
}

type HealthHandler struct {
	db      Pinger
	cache   CacheHealth
	version string
	log     *slog.Logger
}

func NewHealthHandler(db Pinger, cache CacheHealth, version string, log *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, version: version, log: log}
}

// HealthCheck reports liveness plus database and redis reachability.
// Any unreachable dependency answers 503.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status := "ok"
	services := fiber.Map{"database": "connected", "redis": "connected"}

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn("database health check failed", sl.Err(err))
		services["database"] = "unreachable"
		status = "degraded"
	}
	if err := h.cache.HealthCheck(ctx); err != nil {
		h.log.Warn("redis health check failed", sl.Err(err))
		services["redis"] = "unreachable"
		status = "degraded"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  h.version,
		"services": services,
	})
}

func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	poolStats := h.cache.PoolStats()

	return c.JSON(fiber.Map{
		"cache_stats": h.cache.Stats(),
		"pool_stats": fiber.Map{
			"hits":        poolStats.Hits,
			"misses":      poolStats.Misses,
			"timeouts":    poolStats.Timeouts,
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
			"stale_conns": poolStats.StaleConns,
		},
	})
}
