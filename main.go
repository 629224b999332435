package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/auth"
	auth_api "github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/auth/api"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/checkout"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/config"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/database/migrations"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/logger"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders"
	orders_api "github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders/api"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders/db"
	orders_kafka "github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders/kafka"
)

func connectPostgres(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	const maxRetries = 5

	var sqldb *sql.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("PostgreSQL not ready: %v", err))
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on process environment")
	}

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal("CONFIG", err.Error())
	}

	// --- PostgreSQL ---
	bunDB := connectPostgres(cfg.Database, log)
	defer bunDB.Close()

	if cfg.Database.MigrationsDir != "" {
		runner := migrations.NewRunner(bunDB, cfg.Database.MigrationsDir)
		if err := runner.Up(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		log.Info("DATABASE", "Migrations applied")
	} else if err := db.Migrate(bunDB); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Schema setup failed: %v", err))
	}

	// --- Redis ---
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("REDIS", fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	log.Info("REDIS", fmt.Sprintf("Connected to Redis at %s", cfg.Redis.Addr))

	// --- Auth ---
	codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatal("AUTH", err.Error())
	}
	guard := auth.NewGuard(codec)
	authService := auth.NewService(cfg.Auth, codec, log)
	authHandler := auth_api.NewHandler(authService, log, cfg.IsProduction())

	// --- Orders ---
	var events orders.EventPublisher
	if cfg.Kafka.Enabled {
		producer := orders_kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		events = producer
		log.Info("KAFKA", fmt.Sprintf("Publishing order events to %s", cfg.Kafka.Topic))
	}
	orderService := orders.NewOrderService(&db.DB{Bun: bunDB}, events, log)
	orderHandler := orders_api.NewHandler(orderService, guard, log)

	// --- Checkout finalizer ---
	sessionStore := checkout.NewStore(redisClient)
	finalizer := checkout.NewFinalizer(sessionStore, orderService, log)
	webhookHandler := checkout.NewWebhookHandler(finalizer, cfg.Stripe.WebhookSecret, log)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(auth.AdmissionGate(guard, "/admin"))

	r.Post("/auth/login", authHandler.Login)
	r.Post("/webhooks/stripe", webhookHandler.HandleStripeWebhook)

	r.Get("/admin/orders", orderHandler.ListOrders)
	r.Patch("/admin/orders/update", orderHandler.UpdateOrder)
	r.Get("/admin/orders/export-csv", orderHandler.ExportAccountsCSV)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("Admin gateway listening on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("SERVER", "Shutdown signal received")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("SERVER", fmt.Sprintf("Forced shutdown: %v", err))
	}

	log.Info("SERVER", "Server exited gracefully")
}
