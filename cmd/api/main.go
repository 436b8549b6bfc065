package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Hobbit71/cloudshop/internal/config"
	"github.com/Hobbit71/cloudshop/internal/handler"
	"github.com/Hobbit71/cloudshop/internal/logger"
	"github.com/Hobbit71/cloudshop/internal/queue/sqs"
	"github.com/Hobbit71/cloudshop/internal/repository/postgres"
	"github.com/Hobbit71/cloudshop/internal/service"
)

func main() {
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

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize Postgres (event log + metric store reads)
	pgClient, err := postgres.NewClient(ctx, cfg.Postgres.URL, log)
	if err != nil {
		log.Fatal("Failed to create Postgres client", zap.Error(err))
	}
	defer pgClient.Close()

	eventLog := postgres.NewEventLog(pgClient, log)
	metrics := postgres.NewMetrics(pgClient, log)

	// Initialize analytics service
	analytics := service.NewAnalyticsService(sqsClient, eventLog, metrics, log)

	// Initialize handler
	h := handler.NewHandler(analytics, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
