// Package main is the entry point for the DropPay API server.
package main

import (
	"context"
	"log"
	"time"

	"droppay/internal/config"
	"droppay/internal/metrics"
	"droppay/internal/pinetwork"
	"droppay/internal/repositories"
	"droppay/internal/repositories/cache"
	"droppay/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB(repositories.DBConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repositories.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Successfully connected to database with connection pooling")

	if interval := config.GetDurationEnv("DB_STATS_INTERVAL", 0); interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				stats := sqlDB.Stats()
				log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
					stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
			}
		}()
	}

	var cacheService *cache.CacheService
	if config.GetBoolEnv("REDIS_ENABLED", false) {
		client := cache.NewRedisClient(cache.RedisConfigFromEnv())
		cacheService = cache.NewCacheService(client, config.GetDurationEnv("CACHE_TTL", 10*time.Minute))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cacheService.HealthCheck(ctx); err != nil {
			log.Printf("⚠️ Redis unavailable, continuing without cache: %v", err)
			_ = cacheService.Close()
			cacheService = nil
		} else {
			log.Println("✅ Redis connected")
		}
		cancel()
	}
	defer func() {
		if cacheService != nil {
			if err := cacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	piClient := pinetwork.New(pinetwork.Config{
		APIBase:     config.GetEnv("PI_API_BASE", pinetwork.DefaultAPIBase),
		HorizonBase: config.GetEnv("PI_HORIZON_BASE", pinetwork.DefaultHorizonBase),
		Timeout:     config.GetDurationEnv("PI_API_TIMEOUT", pinetwork.DefaultTimeout),
	})

	app := fiber.New(fiber.Config{AppName: "droppay"})

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/merchants", rateLimit(config.GetIntEnv("MERCHANT_RATE_LIMIT", 10)))
	app.Use("/api/rewards/verify", rateLimit(config.GetIntEnv("REWARD_RATE_LIMIT", 30)))

	routes.SetupRoutes(app, db, routes.Options{
		PiClient:       piClient,
		Secrets:        config.EnvSecrets{},
		Cache:          cacheService,
		Metrics:        metrics.NewPrometheus(config.GetEnv("METRICS_NAMESPACE", "droppay")),
		AllowedOrigins: config.AllowedOrigins(),
	})

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}

// rateLimit allows max requests per client IP per minute.
func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
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
