package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/senyabanana/rfq-service/internal/db"
	"github.com/senyabanana/rfq-service/internal/handlers"
	"github.com/senyabanana/rfq-service/internal/metrics"
	"github.com/senyabanana/rfq-service/internal/middleware"
	"github.com/senyabanana/rfq-service/internal/repository"
	"github.com/senyabanana/rfq-service/internal/router"
	"github.com/senyabanana/rfq-service/internal/router/config"
	"github.com/senyabanana/rfq-service/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = 60 * time.Second

type stores struct {
	rfqs          repository.RFQRepository
	bids          repository.BidRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	pinger        handlers.Pinger
	close         func()
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.StorageDriver == config.MemoryStorage {
		memory := repository.NewMemoryStore()
		return &stores{rfqs: memory, bids: memory, notifications: memory, users: memory, close: func() {}}, nil
	}

	if err := db.RunMigrations(cfg.MigrationURL, cfg.PostgresConn); err != nil {
		return nil, err
	}
	log.Println("db migrated successfully")

	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		rfqs:          repository.NewPostgresRFQRepository(dbPool),
		bids:          repository.NewPostgresBidRepository(dbPool),
		notifications: repository.NewPostgresNotificationRepository(dbPool),
		users:         repository.NewPostgresUserRepository(dbPool),
		pinger:        dbPool,
		close:         dbPool.Close,
	}, nil
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error initializing storage: %v", err)
	}
	defer st.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(registry)

	notifier := services.NewNotifier(st.notifications, st.users, logger)
	rfqService := services.NewRFQService(st.rfqs, notifier, logger)
	bidService := services.NewBidService(st.bids, st.rfqs, notifier, logger)
	notificationService := services.NewNotificationService(st.notifications, logger)

	rateLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if cfg.RateLimitBackend == config.RedisRateLimit {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		rateLimit = middleware.RedisRateLimit(redisClient, cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitWindow, logger)
	}

	routes := router.InitRoutes(router.Handlers{
		Ping:          handlers.NewPingHandler(st.pinger, logger, cfg.RequestTimeout),
		RFQs:          handlers.NewRFQHandler(rfqService, logger, cfg.RequestTimeout),
		Bids:          handlers.NewBidHandler(bidService, logger, cfg.RequestTimeout),
		Notifications: handlers.NewNotificationHandler(notificationService, logger, cfg.RequestTimeout),
	}, registry,
		middleware.Auth(cfg.JWTSecret),
		middleware.RegisterUsers(st.users, logger),
		rateLimit,
	)

	log.Printf("server is listening on %s (storage: %s)...", cfg.ServerAddress, cfg.StorageDriver)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
