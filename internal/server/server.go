// Package server exposes the parlay service over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/config"
	"github.com/statssync/stats-sync/internal/metrics"
	"github.com/statssync/stats-sync/internal/service"
)

// Server wraps the gin engine and its HTTP listener
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *logrus.Logger
}

// New builds the HTTP server and registers all routes
func New(cfg *config.Config, svc *service.ParlayService, logger *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	h := newHandler(svc, logger)

	engine.GET("/health", h.Health)
	engine.GET("/parlays", h.GetParlays)
	engine.POST("/parlays/refresh", h.RefreshParlays)
	engine.POST("/parlays/custom", h.CustomParlay)
	engine.GET("/props/:sport", h.GetProps)
	engine.GET("/stats", h.GetStats)

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		engine: engine,
		logger: logger,
		server: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start begins serving HTTP requests and blocks until shutdown
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Engine exposes the router for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
