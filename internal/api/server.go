// Package api exposes the classification engine over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/engine"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/middleware"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/reference"
)

// Version is the API version reported by health and capabilities.
const Version = "1.0.0"

// Server represents the HTTP server.
type Server struct {
	cfg       *domain.Config
	tables    *reference.Tables
	engine    *engine.Engine
	store     domain.ReportStore
	explainer domain.Explainer
	router    *gin.Engine
	server    *http.Server
	log       *logrus.Logger
}

// NewServer creates a new HTTP server instance. store may be nil when
// persistence is disabled.
func NewServer(
	cfg *domain.Config,
	tables *reference.Tables,
	eng *engine.Engine,
	store domain.ReportStore,
	explainer domain.Explainer,
	logger *logrus.Logger,
) *Server {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	s := &Server{
		cfg:       cfg,
		tables:    tables,
		engine:    eng,
		store:     store,
		explainer: explainer,
		router:    router,
		log:       logger,
	}
	s.setupRoutes()
	return s
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.GET("/capabilities", s.handleCapabilities)
		v1.GET("/reports/:patient_id", s.handleListReports)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

func (s *Server) handleCapabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"supported_genes": s.tables.SupportedGenes(),
		"supported_drugs": s.tables.SupportedDrugs(),
		"version":         Version,
	})
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Correlation-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
