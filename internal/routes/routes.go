// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and registers every
// HTTP route with its authentication requirements.
package routes

import (
	"droppay/internal/config"
	"droppay/internal/handlers"
	"droppay/internal/metrics"
	"droppay/internal/middleware"
	"droppay/internal/pinetwork"
	"droppay/internal/repositories"
	"droppay/internal/repositories/cache"
	"droppay/internal/services/links"
	"droppay/internal/services/merchant"
	"droppay/internal/services/notification"
	"droppay/internal/services/payment"
	"droppay/internal/services/reward"
	"droppay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"gorm.io/gorm"
)

// Options carries the process-wide dependencies. Cache and Metrics may be
// nil.
type Options struct {
	PiClient       *pinetwork.Client
	Secrets        config.SecretSource
	Cache          *cache.CacheService
	Metrics        *metrics.Prometheus
	AllowedOrigins string
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB, opts Options) {
	if opts.Secrets == nil {
		opts.Secrets = config.EnvSecrets{}
	}
	if opts.AllowedOrigins == "" {
		opts.AllowedOrigins = "*"
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if opts.Metrics != nil {
		recorder = opts.Metrics
	}
	var merchantCache cache.MerchantCache = cache.Noop{}
	var cacheHealth handlers.CacheHealth
	if opts.Cache != nil {
		merchantCache = opts.Cache
		cacheHealth = opts.Cache
	}

	app.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		app.Use(middleware.Metrics(opts.Metrics))
	}

	// Initialize repositories
	merchantRepo := repositories.NewMerchantRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	linkRepo := repositories.NewLinkRepository(db)
	txRepo := repositories.NewTransactionRepository(db)

	// Initialize services in correct order
	notificationService := notification.NewService(repositories.NewNotificationRepository(db))
	walletService := wallet.NewService(walletRepo, merchantRepo, merchantCache, notificationService, recorder)
	merchantService := merchant.NewService(
		merchantRepo,
		repositories.NewAPIKeyRepository(db),
		merchantCache,
		opts.PiClient,
		opts.Secrets,
	)
	paymentService := payment.NewService(
		linkRepo,
		txRepo,
		opts.PiClient,
		opts.Secrets,
		walletService,
		notificationService,
		recorder,
	)
	rewardService := reward.NewService(
		repositories.NewAdRewardRepository(db),
		opts.PiClient,
		opts.Secrets,
		walletService,
		notificationService,
		recorder,
	)
	linkService := links.NewService(linkRepo)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	rewardHandler := handlers.NewRewardHandler(rewardService)
	merchantHandler := handlers.NewMerchantHandler(merchantService)
	linkHandler := handlers.NewLinkHandler(linkService)
	walletHandler := handlers.NewWalletHandler(walletService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(merchantService)
	healthHandler := handlers.NewHealthHandler(db, cacheHealth)

	authMiddleware := middleware.NewAuthMiddleware(merchantService, merchantService)
	session := authMiddleware.Session

	app.Get("/health", healthHandler.HealthCheck)
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Public endpoints called by the Pi browser SDK flow
	api.Post("/payments/approve", paymentHandler.Approve)
	api.Post("/payments/complete", paymentHandler.Complete)
	api.Post("/payments/verify", paymentHandler.Verify)
	api.Post("/rewards/verify", rewardHandler.Verify)
	api.Post("/merchants", merchantHandler.CreateMerchant)
	api.Get("/links/:slug", linkHandler.GetLink)

	// Merchant routes
	api.Get("/merchants/me", session, merchantHandler.GetMerchantProfile)
	api.Put("/merchants/me", session, merchantHandler.UpdateMerchantProfile)
	api.Post("/merchants/apikey", session, merchantHandler.CreateAPIKey)

	api.Post("/links", authMiddleware.SessionOrAPIKey, linkHandler.CreateLink)
	api.Get("/links", session, linkHandler.ListLinks)
	api.Post("/links/:id/deactivate", session, linkHandler.DeactivateLink)

	api.Get("/transactions", session, paymentHandler.ListTransactions)
	api.Get("/notifications", session, notificationHandler.ListNotifications)
	api.Post("/notifications/:id/read", session, notificationHandler.MarkRead)

	api.Post("/wallet/withdraw", session, walletHandler.Withdraw)
	api.Get("/wallet/withdrawals", session, walletHandler.ListWithdrawals)

	// Admin routes
	admin := api.Group("/admin", session, middleware.AdminOnly)
	admin.Get("/merchants", adminHandler.ListMerchants)
	admin.Get("/cache/stats", healthHandler.CacheStats)
}
