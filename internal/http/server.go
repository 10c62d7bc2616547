// Package http provides the HTTP server, its router and middleware.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ugcforge/credvault/internal/metrics"
	vaultHTTP "github.com/ugcforge/credvault/internal/vault/http"
)

// ReadinessChecker reports whether the vault storage is reachable.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// RouterOptions carries the cross-cutting settings of the API router.
type RouterOptions struct {
	MetricsProvider  *metrics.Provider
	MetricsNamespace string

	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
}

// Server represents the HTTP server
type Server struct {
	server       *http.Server
	readiness    ReadinessChecker
	logger       *slog.Logger
	stopCleanups context.CancelFunc
}

// NewServer creates a new HTTP server
func NewServer(
	readiness ReadinessChecker,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		readiness: readiness,
		logger:    logger,
		server:    newHTTPServer(host, port),
	}
}

// newHTTPServer applies the listener timeouts shared by both servers. The
// write timeout leaves room for a slow vision probe behind test-connection.
func newHTTPServer(host string, port int) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func listenAndServe(srv *http.Server, logger *slog.Logger, name string) error {
	logger.Info("starting "+name, slog.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

// SetupRouter builds the gin engine with the probes and the key-management
// routes. Rate limiting applies to the POST routes only.
func (s *Server) SetupRouter(vaultHandler *vaultHTTP.VaultHandler, opts RouterOptions) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(opts.CORSEnabled, opts.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if opts.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			opts.MetricsProvider.MeterProvider(),
			opts.MetricsNamespace,
			"/health", "/ready",
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api")
	api.GET("/status", vaultHandler.StatusHandler)

	keys := api.Group("")
	if opts.RateLimitEnabled {
		ctx, cancel := context.WithCancel(context.Background())
		s.stopCleanups = cancel
		keys.Use(RateLimitMiddleware(ctx, opts.RateLimitRequestsPerSec, opts.RateLimitBurst, s.logger))
	}
	keys.POST("/save-key", vaultHandler.SaveKeyHandler)
	keys.POST("/list-services", vaultHandler.ListServicesHandler)
	keys.POST("/delete-key", vaultHandler.DeleteKeyHandler)
	keys.POST("/test-connection", vaultHandler.TestConnectionHandler)

	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil {
		return errors.New("http server: router not configured")
	}

	return listenAndServe(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.stopCleanups != nil {
		s.stopCleanups()
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	vaultStatus := "ok"
	if s.readiness == nil {
		vaultStatus = "error"
	} else if err := s.readiness.Ping(c.Request.Context()); err != nil {
		s.logger.Warn("vault storage not reachable", slog.Any("error", err))
		vaultStatus = "error"
	}

	if vaultStatus != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"vault": vaultStatus},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"vault": vaultStatus},
	})
}
