// Package api serves committed DEX state over HTTP and accepts operation
// blocks from authorised operators.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/subgame-network/subgame/app"
	"github.com/subgame-network/subgame/app/health"
)

// Version is reported by the status and health endpoints.
const Version = "1.0.0"

// Server represents the API server
type Server struct {
	router  *gin.Engine
	handler http.Handler
	app     *app.App
	config  Config
	logger  log.Logger
	auth    *AuthService
	health  *health.Checker
}

// Config holds server configuration
type Config struct {
	Address         string
	CORSOrigins     []string
	RateLimitRPS    float64
	RateLimitBurst  int
	AuthSecret      []byte
	Metrics         bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// ConfigFromApp builds the server configuration from the host configuration.
func ConfigFromApp(cfg app.Config) Config {
	c := DefaultConfig()
	c.Address = cfg.API.Address
	c.CORSOrigins = cfg.API.AllowedOrigins
	c.RateLimitRPS = cfg.API.RateLimit
	c.RateLimitBurst = cfg.API.RateBurst
	c.AuthSecret = []byte(cfg.API.AuthSecret)
	c.Metrics = cfg.Telemetry.Enabled && cfg.Telemetry.PrometheusEnabled
	return c
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Address:         "127.0.0.1:1317",
		CORSOrigins:     []string{"*"},
		RateLimitRPS:    20,
		RateLimitBurst:  40,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RequestTimeout:  30 * time.Second,
	}
}

// NewServer creates a new API server over host
func NewServer(host *app.App, config Config, logger log.Logger) (*Server, error) {
	checker, err := health.NewChecker(logger, health.Config{
		Version:         Version,
		MaxResponseTime: time.Second,
		CacheDuration:   5 * time.Second,
	}, host)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize health checker: %w", err)
	}

	s := &Server{
		app:    host,
		config: config,
		logger: logger.With("module", "api"),
		health: checker,
	}
	if len(config.AuthSecret) > 0 {
		s.auth = NewAuthService(config.AuthSecret)
	}

	s.setupRouter()
	return s, nil
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()

	// Global middleware - ORDER MATTERS!
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestSizeLimitMiddleware(MaxRequestSize))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(TimeoutMiddleware(s.config.RequestTimeout))

	// Health endpoints keep their own router.
	healthRouter := mux.NewRouter()
	s.health.RegisterRoutes(healthRouter)
	s.router.GET("/health", gin.WrapH(healthRouter))
	s.router.GET("/health/ready", gin.WrapH(healthRouter))
	s.router.GET("/health/detailed", gin.WrapH(healthRouter))

	if s.config.Metrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	s.registerRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}).Handler(handlers.CompressHandler(s.router))
}

// Handler returns the complete HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.config.WriteTimeout,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", s.config.Address, "submission", s.auth != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
