package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/cache"
	"github.com/01moynul/storefront-golang/internal/config"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/events"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/repository"
	"github.com/01moynul/storefront-golang/internal/routes"
	"github.com/01moynul/storefront-golang/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 1. --- Main Database Connection ---
	db, err := database.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, database.MySQL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// 2. --- Cart Cache (optional) ---
	var cartCache cache.CartCache = cache.NopCache{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Printf("WARNING: Redis unreachable at %s, cart cache disabled: %v", cfg.RedisAddr, err)
		} else {
			cartCache = cache.NewRedisCache(client)
			log.Printf("Cart cache enabled (redis %s)", cfg.RedisAddr)
		}
	}

	// 3. --- Order Events (optional) ---
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.OrderTopic, cfg.KafkaBrokers...)
		defer kp.Close()
		publisher = kp
		log.Printf("Publishing order events to %s", cfg.OrderTopic)
	}

	// --- Application Setup ---
	store := repository.NewStore(db)
	carts := service.NewCartService(store, cartCache)
	products := service.NewProductService(store, carts)
	users := service.NewUserService(store, carts)

	app := &handlers.Handlers{
		Carts:      carts,
		Orders:     service.NewOrderService(store, carts, publisher),
		Users:      users,
		Products:   products,
		Categories: service.NewCategoryService(store, products),
		Addresses:  service.NewAddressService(store),
		Tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "storefront-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting storefront API server on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
