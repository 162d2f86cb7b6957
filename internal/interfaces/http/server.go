// Package http is the HTTP adapter the widget UI talks to. It translates
// requests into core calls and owns no business rules of its own.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     *zap.Logger
}

// NewServer creates a new HTTP server around the given handlers
func NewServer(cfg ServerConfig, handlers *Handlers, logger *zap.Logger) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	server := &Server{
		config:   cfg,
		router:   router,
		handlers: handlers,
		logger:   logger,
	}
	server.registerRoutes()
	return server
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handlers.Health)

	api := s.router.Group("/api/v1")
	{
		api.GET("/settings", s.handlers.GetSettings)
		api.PUT("/settings", s.handlers.UpdateSettings)
		api.GET("/event-types", s.handlers.ListEventTypes)

		api.GET("/reports", s.handlers.ListReports)
		api.POST("/reports", s.handlers.SaveReport)
		api.DELETE("/reports/:itemId", s.handlers.DeleteReport)
		api.POST("/reports/sync", s.handlers.SyncReports)

		api.POST("/timeblocks/reconcile", s.handlers.ReconcileTimeBlocks)

		api.GET("/dashboard/summary", s.handlers.DashboardSummary)
		api.GET("/dashboard/export", s.handlers.DashboardExport)
	}
}

// Start begins serving. It blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
