package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/aggregate"
	"github.com/Hobbit71/cloudshop/internal/config"
	"github.com/Hobbit71/cloudshop/internal/consumer"
	"github.com/Hobbit71/cloudshop/internal/dispatch"
	"github.com/Hobbit71/cloudshop/internal/logger"
	"github.com/Hobbit71/cloudshop/internal/queue/sqs"
	"github.com/Hobbit71/cloudshop/internal/repository/postgres"
	searchch "github.com/Hobbit71/cloudshop/internal/search/clickhouse"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment))

	ctx := context.Background()

	// Initialize Postgres (event log + metric store)
	pgClient, err := postgres.NewClient(ctx, cfg.Postgres.URL, log)
	if err != nil {
		log.Fatal("Failed to create Postgres client", zap.Error(err))
	}
	defer pgClient.Close()

	if err := pgClient.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize Postgres schema", zap.Error(err))
	}
	log.Info("Postgres schema initialized")

	eventLog := postgres.NewEventLog(pgClient, log)
	metrics := postgres.NewMetrics(pgClient, log)

	// Initialize ClickHouse (search index, best-effort)
	chClient, err := searchch.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	indexer := searchch.NewIndexer(chClient, log)
	if err := indexer.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize ClickHouse schema", zap.Error(err))
	}

	// Initialize Redis (unique-viewer tracking)
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", zap.Error(err))
		}
	}()

	viewers := aggregate.NewRedisViewerTracker(redisClient,
		time.Duration(cfg.Redis.ViewerSetTTLHours)*time.Hour)

	// Initialize aggregators and dispatcher
	dispatcher := dispatch.NewDispatcher(
		eventLog,
		indexer,
		aggregate.NewSales(metrics, log),
		aggregate.NewCustomer(metrics, log),
		aggregate.NewProduct(metrics, viewers, log),
		aggregate.NewRevenue(metrics, log),
		dispatch.Config{
			AggregateTimeout: time.Duration(cfg.Dispatch.AggregateTimeoutSec) * time.Second,
			IndexTimeout:     time.Duration(cfg.Dispatch.IndexTimeoutSec) * time.Second,
		},
		log,
	)

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize consumer
	c := consumer.NewConsumer(cfg, sqsClient, dispatcher, log)

	// Start health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := pgClient.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Service.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	// Start consumer
	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Consumer starting")

	go func() {
		if err := c.Start(consumerCtx); err != nil {
			log.Fatal("Consumer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down consumer gracefully")
	cancel()
}
