package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"focus-starter/internal/config"
	"focus-starter/internal/database"
	"focus-starter/internal/handlers"
	"focus-starter/internal/middleware"
	"focus-starter/internal/models"
	"focus-starter/internal/repository"
	"focus-starter/internal/router"
	"focus-starter/internal/services"
	"focus-starter/internal/websocket"
)

type eventPublisher interface {
	Publish(ctx context.Context, userID string, msg models.WSMessage)
}

func main() {
	log.Println("🚀 Starting Focus Starter API...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("✗ %v", err)
	}
	log.Printf("✓ Environment variables loaded (store=%s, stats zone=%s)", cfg.StoreDriver, loc)

	// ──── Step 2: Initialize Redis Clients (optional) ────
	healthChecks := map[string]handlers.HealthCheck{}

	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()
		log.Println("✓ Redis connected")
		healthChecks["redis"] = redisClients.Ping
	} else {
		log.Println("• REDIS_URL not set: caching and cross-instance events disabled")
	}

	var cache *services.RedisCache
	var pubsubClient *redis.Client
	if redisClients != nil {
		cache = services.NewRedisCache(redisClients.Cache)
		pubsubClient = redisClients.PubSub
	}

	// ──── Step 3: Start WebSocket Hub ────
	wsHub := websocket.NewHub(pubsubClient, cfg.FrontendURL)
	defer wsHub.Close()
	log.Println("✓ WebSocket hub started")

	var events eventPublisher = wsHub
	if redisClients != nil {
		events = services.NewRedisPublisher(redisClients.PubSub)
	}

	// ──── Step 4: Initialize Store ────
	var ledger *services.LedgerService
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()
		log.Println("✓ PostgreSQL connected")
		healthChecks["store"] = pool.Ping

		if err := database.RunMigrations(pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}
		log.Println("✓ Database migrations applied")

		ledger = services.NewLedgerService(
			repository.NewUserRepo(pool),
			repository.NewSessionRepo(pool),
			cache,
			events,
			loc,
			cfg.StoreTimeout,
		)
	case "sqlite":
		db, err := database.NewSQLiteDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ SQLite open failed: %v", err)
		}
		defer db.Close()
		log.Printf("✓ SQLite opened at %s", cfg.DatabaseURL)
		healthChecks["store"] = db.PingContext

		ledger = services.NewLedgerService(
			repository.NewSQLiteUserRepo(db),
			repository.NewSQLiteSessionRepo(db),
			cache,
			events,
			loc,
			cfg.StoreTimeout,
		)
	default:
		log.Fatalf("✗ Unknown STORE_DRIVER %q (want postgres or sqlite)", cfg.StoreDriver)
	}

	// ──── Step 5: Initialize Content Providers ────
	content := services.NewContentService(cfg.FreesoundBaseURL, cfg.FreesoundAPIKey, cfg.ZenQuotesURL, cache)
	if cfg.FreesoundAPIKey == "" {
		log.Println("• FREESOUND_API_KEY not set: /api/music will fail upstream")
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiQuoteSource(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gemini.Close()
		content.WithQuoteFallback(gemini)
		log.Println("✓ Gemini quote fallback initialized")
	}

	// ──── Step 6: Start HTTP Server ────
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Stop()

	r := router.New(
		handlers.NewSessionHandler(ledger),
		handlers.NewContentHandler(content),
		handlers.NewHealthHandler(healthChecks),
		wsHub,
		rateLimiter,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("✓ Focus Starter API ready on http://localhost:%s", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/ws?userId=<id>", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	<-done
}
