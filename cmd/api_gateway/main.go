package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/fingenie-expense-tracker/internal/api_gateway"
	"github.com/fingenie-expense-tracker/internal/api_gateway/service"
	"github.com/fingenie-expense-tracker/internal/config"
	"github.com/fingenie-expense-tracker/internal/data/mongo"
	"github.com/fingenie-expense-tracker/internal/data/postgres"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
	"github.com/fingenie-expense-tracker/internal/logger"
	"github.com/fingenie-expense-tracker/internal/normalizer"
	"github.com/fingenie-expense-tracker/internal/platform/cache"
	"github.com/fingenie-expense-tracker/internal/platform/llm"
	"github.com/fingenie-expense-tracker/internal/platform/messaging/producers"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
	"github.com/fingenie-expense-tracker/internal/platform/persistence"
	"github.com/fingenie-expense-tracker/internal/session"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Redis backs the parse cache and save idempotency. Without it saves fall back to
	// the document store for duplicate detection.
	var (
		redisClient *redis.Client
		parseCache  service.ParseCache
		idempotency service.IdempotencyStore
	)
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewClient(appCtx, cfg.Redis.URL)
		if err != nil {
			log.Error("Failed to initialize Redis", "error", err)
			os.Exit(1)
		}
		idempotency = cache.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL)
		if cfg.ParseCache.Enabled {
			parseCache = cache.NewParseCache(redisClient, cfg.ParseCache.TTL)
		}
	}

	genaiClient, err := llm.NewGeminiClient(appCtx, &cfg.LLM)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}
	parser := llm.NewGeminiParser(genaiClient.Models, &cfg.LLM, log)

	kafkaProducer, err := producers.NewSaveRequestProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize save request producer", "error", err)
		os.Exit(1)
	}

	records := mongo.NewTransactionRepository(log, mongoDB.Transactions())
	summaryRepo := postgres.NewSummaryRepository(log, postgresDB.Pool())
	n := normalizer.New(transaction.DefaultValues)

	services := api_gateway.Services{
		Parse:        service.NewParseService(log, parser, parseCache, m),
		Transactions: service.NewTransactionService(log, records, kafkaProducer, idempotency, mongo.NewObjectIDGenerator(), session.ULIDGenerator{}, m),
		History:      service.NewHistoryService(log, records, n, m),
		Stats:        service.NewStatsService(log, summaryRepo, records, n, cfg.History.RecentLimit),
	}

	server := api_gateway.NewServer(log, cfg, services, m, registry)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before closing the stores they use.
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	if err := kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
		shutdownErr = err
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", "error", err)
			shutdownErr = err
		}
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
