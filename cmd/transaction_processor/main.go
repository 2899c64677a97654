package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/fingenie-expense-tracker/internal/config"
	"github.com/fingenie-expense-tracker/internal/data/mongo"
	"github.com/fingenie-expense-tracker/internal/data/postgres"
	"github.com/fingenie-expense-tracker/internal/logger"
	"github.com/fingenie-expense-tracker/internal/platform/messaging/consumers"
	"github.com/fingenie-expense-tracker/internal/platform/messaging/producers"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
	"github.com/fingenie-expense-tracker/internal/platform/persistence"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/components"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/consumer"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/outbox_poller"
	"github.com/fingenie-expense-tracker/internal/transaction_processor/service"
)

func main() {
	// Cancelled on SIGINT, SIGTERM or SIGQUIT
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.LoadConfig("transaction_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Transaction Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

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

	records := mongo.NewTransactionRepository(log, mongoDB.Transactions())
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB.Pool())
	summaryRepo := postgres.NewSummaryRepository(log, postgresDB.Pool())

	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	processingService := components.CreateProcessingService(
		postgresDB,
		records,
		outboxRepo,
		summaryRepo,
		m,
		log,
		cfg,
	)

	// Keep the interface nil when the DLQ is disabled.
	var deadLetters producers.DeadLetterPublisher
	if dlqProducer != nil {
		deadLetters = dlqProducer
	}
	saveEventHandler := consumer.NewSaveEventHandler(log, processingService, deadLetters)

	storePublisher := outbox_poller.NewStorePublisher(outboxRepo, records, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, storePublisher, m, log)

	metricsServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	g, gCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.SaveTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(gCtx, saveEventHandler.HandleMessage); err != nil {
			return fmt.Errorf("kafka consumer error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		poller.Start(gCtx)
		return nil
	})

	g.Go(func() error {
		log.Info("Starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	<-gCtx.Done()
	log.Info("Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var serviceErr error
	select {
	case serviceErr = <-done:
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// The consumer drains its in-flight message on Close, so the pool goes after it.
	var shutdownErr error
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}

	if wpService, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		log.Info("Shutting down worker pool", "running_workers", wpService.Running())
		wpService.Shutdown()
	}

	if dlqProducer != nil {
		if err := dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
			shutdownErr = err
		}
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serviceErr != nil {
		log.Error("Transaction Processor stopped with errors", "error", serviceErr)
		os.Exit(1)
	}
	if shutdownErr != nil {
		log.Error("Transaction Processor shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Transaction Processor shutdown completed successfully")
}
