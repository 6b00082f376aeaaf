// Package server exposes the pincite API over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pincite/pincite"
	"github.com/pincite/pincite/pkg/config"
	"github.com/pincite/pincite/pkg/server/handlers"
	"github.com/pincite/pincite/pkg/types"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	router  *gin.Engine
	pincite pincite.Pincite
	server  *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, client pincite.Pincite) *Server {
	return &Server{
		config:  cfg,
		pincite: client,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	// Set gin mode
	gin.SetMode(s.config.Server.Mode)

	// Create router
	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(contextMiddleware())

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// setupRoutes sets up all the routes
func (s *Server) setupRoutes() {
	// Create handlers
	healthHandler := handlers.NewHealthHandler(s.pincite)
	documentHandler := handlers.NewDocumentHandler(s.pincite)
	searchHandler := handlers.NewSearchHandler(s.pincite)
	citationHandler := handlers.NewCitationHandler(s.pincite)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)
	s.router.GET("/health/detailed", healthHandler.DetailedHealthCheck)

	// Prometheus metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Document routes
		documents := v1.Group("/documents")
		{
			documents.POST("", documentHandler.Process)
			documents.GET("", documentHandler.List)
			documents.GET("/:id", documentHandler.Get)
			documents.DELETE("/:id", documentHandler.Delete)
			documents.POST("/:id/reprocess", documentHandler.Reprocess)
			documents.GET("/:id/integrity", documentHandler.Integrity)

			documents.POST("/:id/search", searchHandler.Search)
			documents.GET("/:id/suggestions", searchHandler.Suggest)
			documents.GET("/:id/navigation", searchHandler.Navigation)
			documents.POST("/:id/optimize", searchHandler.Optimize)
		}

		// Citation routes
		citations := v1.Group("/citations")
		{
			citations.POST("/resolve", citationHandler.Resolve)
			citations.POST("/context", citationHandler.Context)
			citations.GET("/children", citationHandler.Children)
		}

		v1.GET("/stats", documentHandler.Stats)
	}
}

// Router returns the configured gin engine. Setup must run first.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	fmt.Printf("Starting server on %s\n", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	fmt.Println("Stopping server...")
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextMiddleware extracts context information from headers
func contextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID := c.GetHeader("X-User-ID")
		if userID != "" {
			ctx = context.WithValue(ctx, types.ContextKeyUserID, userID)
		}

		sessionID := c.GetHeader("X-Session-ID")
		if sessionID != "" {
			ctx = context.WithValue(ctx, types.ContextKeySessionID, sessionID)
		}

		ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "server")

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
