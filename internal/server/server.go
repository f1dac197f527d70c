package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeeva562/Universal-Downloader/internal/config"
	"github.com/jeeva562/Universal-Downloader/internal/extractor"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Server is the HTTP relay
type Server struct {
	cfg        *config.Config
	extractor  *extractor.Runner
	httpClient *http.Client
	server     *http.Server
	engine     *gin.Engine
}

// NewServer creates a relay that launches media downloads through runner.
func NewServer(cfg *config.Config, runner *extractor.Runner) *Server {
	s := &Server{
		cfg:       cfg,
		extractor: runner,
		httpClient: &http.Client{
			Timeout: 0, // cancellation is driven by the client connection
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
	}
	s.engine = s.newEngine()
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No timeout for downloads
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler serving the relay routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) newEngine() *gin.Engine {
	engine := gin.New()

	engine.Use(requestIDMiddleware())
	engine.Use(loggingMiddleware())
	engine.Use(recoveryMiddleware())

	api := engine.Group(s.cfg.Server.APIPrefix)
	api.GET("/health", s.handleHealth)
	api.GET("/download", s.handleDownload)

	engine.NoRoute(s.handleNotFound)
	return engine
}

// Start listens on the configured port and blocks until the server stops.
func (s *Server) Start() error {
	log.Printf("Starting relay on port %d", s.cfg.Server.Port)
	log.Printf("Extractor: %s", s.extractor.Path())
	log.Printf("Health check: http://localhost:%d%s/health", s.cfg.Server.Port, s.cfg.Server.APIPrefix)

	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server. Start returns http.ErrServerClosed
// afterwards, even when Stop ran first.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handlers

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleNotFound(c *gin.Context) {
	prefix := s.cfg.Server.APIPrefix
	path := c.Request.URL.Path
	if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "API endpoint not found"})
		return
	}
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
}
