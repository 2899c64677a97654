package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fingenie-expense-tracker/internal/api_gateway/handler"
	"github.com/fingenie-expense-tracker/internal/api_gateway/service"
	"github.com/fingenie-expense-tracker/internal/config"
	"github.com/fingenie-expense-tracker/internal/platform/metrics"
)

// Services are the application services the HTTP layer depends on
type Services struct {
	Parse        service.ParseService
	Transactions service.TransactionService
	History      service.HistoryService
	Stats        service.StatsService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services Services, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	h := handlers{
		voice:        handler.NewVoiceHandler(log, services.Parse),
		transactions: handler.NewTransactionHandler(log, services.Transactions),
		history:      handler.NewHistoryHandler(log, services.History),
		stats:        handler.NewStatsHandler(log, services.Stats),
	}

	setupRouter(log, httpRouter, h, m, gatherer, cfg.Server.AllowedOrigins)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server. In-flight parses may take up to the
// server's write timeout to finish.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
