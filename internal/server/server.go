package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"antigravity2newapi/internal/account"
	"antigravity2newapi/internal/config"
	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/metrics"
	"antigravity2newapi/internal/pusher"

	"github.com/gin-gonic/gin"
)

// Server account admin server
type Server struct {
	port    string
	ginMode string

	accountManager *account.Manager
	pusher         core.ChannelPusher
	router         *gin.Engine

	metricsService *metrics.MetricsService

	validAdminKeys map[string]bool

	config config.ServerConfig

	rateLimiter *rateLimiter

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(cfg config.ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required in ServerConfig")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage is required in ServerConfig")
	}

	metricsService := metrics.NewMetricsService(metrics.MetricsConfig{
		HistorySize: core.HistoryBufferSize,
		Logger:      cfg.Logger,
	})

	accountManager, err := account.NewManager(account.ManagerConfig{
		Storage: cfg.Storage,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account manager: %w", err)
	}

	var channelPusher core.ChannelPusher
	if cfg.Pusher != nil {
		channelPusher = pusher.NewClient(pusher.Options{
			Config:  *cfg.Pusher,
			Logger:  cfg.Logger,
			Metrics: metricsService,
		})
	} else {
		cfg.Logger.Warn("No channel push configured, batch add will only import accounts")
	}

	validAdminKeys := make(map[string]bool)
	for _, key := range cfg.AdminAPIKeys {
		validAdminKeys[key] = true
	}

	if len(validAdminKeys) == 0 {
		cfg.Logger.Warn("No admin API keys configured")
	} else {
		cfg.Logger.Info("Loaded %d admin API keys", len(validAdminKeys))
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = core.DefaultRateLimit
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	server := &Server{
		port:           cfg.Port,
		ginMode:        cfg.GinMode,
		accountManager: accountManager,
		pusher:         channelPusher,
		metricsService: metricsService,
		validAdminKeys: validAdminKeys,
		config:         cfg,
		rateLimiter:    newRateLimiter(rateLimit),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	server.setupRoutes()

	return server, nil
}

// Run runs the server
func (s *Server) Run() error {
	s.setupGracefulShutdown()

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute, // batch add pushes every new credential before responding
	}

	go func() {
		<-s.shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.config.Logger.Error("Server shutdown error: %v", err)
		}
	}()

	s.config.Logger.Info("Server starting on port %s", s.port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) setupGracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		s.config.Logger.Info("Shutdown signal received, shutting down gracefully...")
		s.shutdownCancel()
	}()
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Close closes the server
func (s *Server) Close() error {
	if s.shutdownCancel != nil {
		s.shutdownCancel()
	}

	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}

	var closeErr error

	if s.config.Storage != nil {
		if err := s.config.Storage.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close account storage: %w", err))
		}
	}

	return closeErr
}
