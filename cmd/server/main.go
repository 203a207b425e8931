package main // Entry point package

import (
	"context"
	"log" // Logging library
	"time"

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/office-seat-allocation/internal/allocator"  // Seat allocation core
	"github.com/iliyamo/office-seat-allocation/internal/cache"      // Redis read cache
	"github.com/iliyamo/office-seat-allocation/internal/config"     // Internal config loader
	"github.com/iliyamo/office-seat-allocation/internal/database"   // MySQL connection helper
	"github.com/iliyamo/office-seat-allocation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/office-seat-allocation/internal/queue"      // SMS notification consumer
	"github.com/iliyamo/office-seat-allocation/internal/repository" // Data access layer
	"github.com/iliyamo/office-seat-allocation/internal/router"     // Internal router setup
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars take precedence

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(schemaCtx, db); err != nil {
		cancel()
		log.Fatalf("schema setup failed: %v", err)
	}
	cancel()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}
	cacheStore := cache.New(rdb, config.LoadCacheConfig())

	officeRepo := repository.NewOfficeRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	alloc := allocator.New(repository.NewAllocationStore(db))

	adminHandler := handler.NewAdminHandler(officeRepo, seatRepo, alloc, cacheStore, config.LoadRatesConfig(), cfg.SeatsPerOffice)
	publicHandler := handler.NewPublicHandler(officeRepo, seatRepo, cacheStore)
	authHandler := handler.NewAuthHandler(cfg)

	// The SMS consumer reconnects on its own; run it for the process lifetime.
	go func() {
		if err := queue.StartSMSConsumer(); err != nil {
			log.Printf("sms consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterPublic(e, publicHandler)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
