// Package main is the entry point for the API server.
// It loads configuration, connects postgres and redis, wires the services
// and serves HTTP until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"

	"gridiron/internal/config"
	"gridiron/internal/gateways"
	"gridiron/internal/handlers"
	"gridiron/internal/logger"
	"gridiron/internal/logger/sl"
	"gridiron/internal/middleware"
	"gridiron/internal/repositories"
	"gridiron/internal/repositories/cache"
	"gridiron/internal/routes"
	"gridiron/internal/services/auth"
	"gridiron/internal/services/nfl"
	"gridiron/internal/services/payment"
	"gridiron/internal/services/projection"
	"gridiron/internal/services/wallet"
	"gridiron/internal/sportsdata"
	"gridiron/internal/validation"
)

const (
	defaultCacheTTL = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.Env)
	log.Info("starting server", slog.String("env", cfg.Env), slog.Int("port", cfg.Server.Port))

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", sl.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			log.Warn("failed to close database connection", sl.Err(err))
		}
	}()
	log.Info("connected to database with connection pooling")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get database instance: %w", err)
	}
	go logPoolStats(ctx, db, log)

	cacheService := cache.NewCacheService(cache.NewRedisClient(cfg.Redis), defaultCacheTTL)
	defer func() {
		if err := cacheService.Close(); err != nil {
			log.Warn("failed to close redis connection", sl.Err(err))
		}
	}()
	if err := cacheService.HealthCheck(ctx); err != nil {
		log.Warn("redis is unreachable at startup", sl.Err(err))
	}

	authService := newAuthService(cfg, db, cacheService, log)

	app := newApp(cfg, log)
	routes.SetupRoutes(app,
		buildHandlers(ctx, cfg, db, sqlDB, cacheService, authService, log),
		middleware.NewAuthMiddleware(authService, log),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newApp(cfg *config.Config, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "gridiron",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				message = fe.Message
			} else {
				log.Error("unhandled error", sl.Err(err), slog.String("path", c.Path()))
			}
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))

	app.Use("/api/register", rateLimiter(5, time.Minute))
	app.Use("/api/login", rateLimiter(5, time.Minute))
	app.Use("/api/paypal", rateLimiter(20, time.Minute))
	app.Use("/api/stripe", rateLimiter(20, time.Minute))

	return app
}

func rateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}

func newAuthService(cfg *config.Config, db *gorm.DB, cacheService *cache.CacheService, log *slog.Logger) auth.Service {
	users := repositories.NewUserRepository(db, cacheService, log)
	wallets := wallet.NewService(repositories.NewStore(db), cacheService, cfg.Deposits.Currency, log)
	return auth.NewService(users, wallets, auth.NewTokenIssuer(cfg.JWT), log)
}

func buildHandlers(
	ctx context.Context,
	cfg *config.Config,
	db *gorm.DB,
	pinger handlers.Pinger,
	cacheService *cache.CacheService,
	authService auth.Service,
	log *slog.Logger,
) routes.Handlers {
	store := repositories.NewStore(db)
	walletService := wallet.NewService(store, cacheService, cfg.Deposits.Currency, log)

	vendor := sportsdata.NewClient(cfg.SportsData.BaseURL, cfg.SportsData.APIKey,
		sportsdata.WithTimeout(cfg.SportsData.Timeout),
		sportsdata.WithRetries(cfg.SportsData.MaxRetries, 250*time.Millisecond),
		sportsdata.WithLogger(log),
	)
	gameService := nfl.NewService(vendor, cacheService, nfl.TTLs{
		Final:     cfg.GameCache.FinalTTL,
		Live:      cfg.GameCache.LiveTTL,
		Scheduled: cfg.GameCache.ScheduledTTL,
	}, log)

	// Validate already rejected unparsable bounds.
	minAmount, maxAmount, _ := cfg.Deposits.Bounds()
	paymentService := payment.NewService(store, paymentGateways(ctx, cfg, log), cacheService, walletService, payment.Limits{
		Min:     minAmount,
		Max:     maxAmount,
		LockTTL: cfg.Deposits.LockTTL,
	}, log)

	projectionService := projection.NewService(repositories.NewProjectionRepository(db), log)

	return routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, validation.New(), cfg.Env == config.EnvProd, log),
		Wallet:     handlers.NewWalletHandler(walletService, log),
		Game:       handlers.NewGameHandler(gameService, log),
		Payment:    handlers.NewPaymentHandler(paymentService, log),
		Admin:      handlers.NewAdminHandler(paymentService, log),
		Projection: handlers.NewProjectionHandler(projectionService, log),
		Health:     handlers.NewHealthHandler(pinger, cacheService, routes.Version, log),
	}
}

// paymentGateways returns the providers that have credentials configured.
// A provider left out answers 503 on capture.
func paymentGateways(ctx context.Context, cfg *config.Config, log *slog.Logger) []gateways.Gateway {
	var gws []gateways.Gateway

	if cfg.PayPal.ClientID != "" && cfg.PayPal.ClientSecret != "" {
		pp, err := gateways.NewPayPalGateway(ctx, cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, cfg.PayPal.BaseURL)
		if err != nil {
			log.Error("paypal gateway disabled", sl.Err(err))
		} else {
			gws = append(gws, pp)
		}
	} else {
		log.Warn("paypal credentials not set, paypal capture disabled")
	}

	if cfg.Stripe.SecretKey != "" {
		gws = append(gws, gateways.NewStripeGateway(cfg.Stripe.SecretKey))
	} else {
		log.Warn("stripe key not set, stripe capture disabled")
	}

	return gws
}

func logPoolStats(ctx context.Context, db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			log.Debug("db pool stats",
				slog.Int("open", stats.OpenConnections),
				slog.Int("idle", stats.Idle),
				slog.Int("in_use", stats.InUse),
				slog.Int64("wait_count", stats.WaitCount),
				slog.Duration("wait_duration", stats.WaitDuration),
			)
		}
	}
}
