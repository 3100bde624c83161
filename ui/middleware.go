package ui

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())
	if s.timeout > 0 {
		s.router.Use(s.requestTimeout())
	}
	if s.maxBytes > 0 {
		s.router.Use(s.limitBody())
	}
}

// requestTimeout bounds the request context; services observe it between stages
func (s *Server) requestTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// limitBody caps request bodies at the upload limit plus room for multipart framing
func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes+1<<20)
		c.Next()
	}
}
