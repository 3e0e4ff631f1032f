package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/medigo/orders-service/internal/application"
	"github.com/medigo/orders-service/internal/config"
	"github.com/medigo/orders-service/internal/delivery"
	"github.com/medigo/orders-service/internal/events"
	"github.com/medigo/orders-service/internal/gateway"
	"github.com/medigo/orders-service/internal/logger"
	"github.com/medigo/orders-service/internal/migrate"
	"github.com/medigo/orders-service/internal/presentation"
	"github.com/medigo/orders-service/internal/repository"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}
	logger.Info("starting", "mode", cfg.Mode,
		"gateway_key_present", cfg.RzpKeyID != "",
		"gateway_secret_present", cfg.RzpKeySecret != "")

	// User store: postgres when configured, in-memory otherwise.
	var users repository.UserRepo = repository.NewMemoryUserRepository()
	if cfg.DB_STRING != "" {
		if err := migrate.Up(cfg.DB_STRING); err != nil {
			logger.Warn("migrations failed", "err", err)
			os.Exit(1)
		}
		pool, err := pgxpool.New(context.Background(), cfg.DB_STRING)
		if err != nil {
			logger.Warn("pgxpool new failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(context.Background()); err != nil {
			logger.Warn("db ping failed", "err", err)
			os.Exit(1)
		}
		logger.Info("db connected")
		users = repository.NewUserRepository(pool)
	}

	// Kafka producer for order lifecycle events; nil when not configured.
	var prod *events.Producer
	if cfg.KAFKA_BROKERS != "" {
		prod = events.NewProducer(cfg.KAFKA_BROKERS, cfg.KAFKA_TOPIC)
		defer prod.Close()
	}

	store := repository.NewOrderStore()
	sim := delivery.NewSimulator(store, prod, cfg.DeliveryTick)
	defer sim.StopAll()

	// Demo mode never verifies signatures, even if keys happen to be set.
	var gw *gateway.Client
	gwSecret := ""
	if cfg.Mode == config.ModeProduction {
		gw = gateway.NewClient(cfg.GatewayURL, cfg.RzpKeyID, cfg.RzpKeySecret, cfg.GatewayTimeout)
		gwSecret = cfg.RzpKeySecret
	}

	orders := application.NewOrdersService(store, gw, gwSecret, sim, prod)
	auth := application.NewAuthService(users, cfg.JWTSecret)
	chat := application.NewChatService(cfg.OpenAIKey, cfg.OpenAIURL)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	presentation.NewOrdersHandler(orders).Register(r)
	presentation.NewAuthHandler(auth).Register(r)
	presentation.NewChatHandler(chat).Register(r)
	presentation.NewSystemHandler(cfg.PingMessage).Register(r)

	addr := ":" + cfg.HTTP_PORT
	logger.Info("starting http", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Warn("http server crashed", "err", err)
		os.Exit(1)
	}
}
