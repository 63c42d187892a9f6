package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/craftline/storefront/internal/catalog"
	h "github.com/craftline/storefront/internal/http"
	"github.com/craftline/storefront/internal/manager"
	"github.com/craftline/storefront/internal/notify"
	"github.com/craftline/storefront/internal/poller"
	"github.com/craftline/storefront/internal/storage"
)

type Config struct {
	HTTPPort           string
	CatalogServiceURL  string
	RedisAddr          string
	RedisPassword      string
	KafkaBrokers       []string
	RequestTimeout     time.Duration
	CatalogTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		CatalogServiceURL:  getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       strings.Split(getEnv("KAFKA_BROKERS", ""), ","),
		RequestTimeout:     30 * time.Second,
		CatalogTimeout:     10 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	store := storage.NewRedisStorage(redisClient)

	// Take the stock snapshot once. A failed fetch leaves every ceiling
	// at 0: increments are blocked, adding new lines still works.
	snapshot := fetchSnapshot(ctx, cfg)

	var notifier notify.Notifier = notify.LogNotifier{}
	kafkaEnabled := cfg.KafkaBrokers[0] != ""
	if kafkaEnabled {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.KafkaBrokers...)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	mgr := manager.New(store, snapshot, notifier)

	pollerCtx, cancelPoller := context.WithCancel(ctx)
	defer cancelPoller()
	if kafkaEnabled {
		p := poller.New(mgr, cfg.KafkaBrokers...)
		defer p.Close()
		go p.Run(pollerCtx)
		log.Printf("Checkout poller started against %v", cfg.KafkaBrokers)
	}

	cartHandler := h.NewCartHandler(mgr, cfg.RequestTimeout)
	wishlistHandler := h.NewWishlistHandler(mgr, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddLine)
			r.Put("/items/{product_id}/increment", cartHandler.IncrementQuantity)
			r.Put("/items/{product_id}/decrement", cartHandler.DecrementQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveLine)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/items", wishlistHandler.AddEntry)
			r.Post("/toggle", wishlistHandler.Toggle)
			r.Delete("/items/{product_id}", wishlistHandler.RemoveEntry)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "cart-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Cart service starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancelPoller()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func fetchSnapshot(ctx context.Context, cfg *Config) *catalog.Snapshot {
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.CatalogTimeout)
	defer cancel()

	client := catalog.NewClient(cfg.CatalogServiceURL, cfg.CatalogTimeout)
	snapshot, err := client.FetchSnapshot(fetchCtx)
	if err != nil {
		log.Printf("catalog fetch failed, stock ceilings default to 0: %v", err)
		return catalog.NewSnapshot(nil)
	}

	log.Printf("Catalog snapshot loaded: %d products", snapshot.Len())
	return snapshot
}
