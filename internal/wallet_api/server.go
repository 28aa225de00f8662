package wallet_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wallet-ledger/internal/config"
	"github.com/wallet-ledger/internal/wallet_api/handler"
	"github.com/wallet-ledger/internal/wallet_api/service"
)

// Services holds the business services exposed over HTTP
type Services struct {
	Account           service.AccountService
	Transfer          service.TransferService
	Contact           service.ContactService
	MoneyRequest      service.MoneyRequestService
	ScheduledTransfer service.ScheduledTransferService
	Preferences       service.PreferencesService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services.
// A nil metricsHandler leaves /metrics unmounted.
func NewServer(log *slog.Logger, cfg *config.Config, services Services, metricsHandler http.Handler) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	setupRouter(log, httpRouter, handlers{
		account:     handler.NewAccountHandler(log, services.Account),
		transfer:    handler.NewTransferHandler(log, services.Transfer),
		contact:     handler.NewContactHandler(log, services.Contact),
		request:     handler.NewMoneyRequestHandler(log, services.MoneyRequest),
		schedule:    handler.NewScheduledTransferHandler(log, services.ScheduledTransfer),
		preferences: handler.NewPreferencesHandler(log, services.Preferences),
	}, metricsHandler)

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

// Handler returns the configured router
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

// Stop gracefully shuts down the HTTP server, waiting at most timeout for in-flight requests
func (s *Server) Stop(ctx context.Context, timeout time.Duration) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
