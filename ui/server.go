package ui

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goeda/app"
)

// Server is the HTTP boundary of the dataset analysis API
type Server struct {
	router   *gin.Engine
	analysis *app.AnalysisService
	datasets *app.DatasetService
	timeout  time.Duration
	maxBytes int64
}

// ServerConfig holds the HTTP limits
type ServerConfig struct {
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

// NewServer creates a server and registers all routes
func NewServer(analysis *app.AnalysisService, datasets *app.DatasetService, cfg ServerConfig) *Server {
	s := &Server{
		router:   gin.New(),
		analysis: analysis,
		datasets: datasets,
		timeout:  cfg.RequestTimeout,
		maxBytes: cfg.MaxUploadBytes,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/eda")
	api.POST("/upload", s.handleUpload)
	api.GET("/analyze/:filename", s.handleAnalyze)
	api.GET("/columns/:filename", s.handleColumns)
	api.POST("/remove-columns", s.handleRemoveColumns)
	api.GET("/datasets", s.handleListDatasets)
	api.DELETE("/datasets/:filename", s.handleDeleteDataset)
	api.GET("/datasets/:filename/derived", s.handleDerivedDatasets)
	api.GET("/preview/:filename", s.handlePreview)
	api.GET("/report/:filename", s.handleReport)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("[Server] listening on %s", addr)
	return s.router.Run(addr)
}
