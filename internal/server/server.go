// Package server exposes the chat pipeline over HTTP.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskpilot-ai/taskpilot/internal/chain"
)

// Processor drives one chat turn; implemented by *chain.Chain.
type Processor interface {
	Process(ctx context.Context, token, message string) (string, *chain.Command, error)
}

// Server is the taskpilot HTTP server.
type Server struct {
	processor Processor
	router    *gin.Engine
	logger    *slog.Logger
}

// NewServer creates the server with all routes registered.
func NewServer(processor Processor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		processor: processor,
		router:    router,
		logger:    logger,
	}

	router.Use(s.requestLogger())
	router.Use(corsMiddleware())

	router.GET("/healthz", s.handleHealthz)
	router.POST("/chat", s.requireBearerToken(), s.handleChat)

	return s
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler returns the underlying http.Handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

const tokenContextKey = "sessionToken"

// requireBearerToken extracts the Authorization bearer token into the request
// context, rejecting requests without one.
func (s *Server) requireBearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token is missing"})
			return
		}
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// requestLogger logs one line per request with a generated request id.
// Tokens are never logged; only a short fingerprint identifies the session.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()[:8]
		c.Set("requestID", requestID)
		start := time.Now()

		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond).String(),
		}
		if token, ok := c.Get(tokenContextKey); ok {
			attrs = append(attrs, "session", tokenFingerprint(token.(string)))
		}
		s.logger.Info("request", attrs...)
	}
}

// corsMiddleware allows any origin: the chat endpoint is called directly from
// browser frontends served elsewhere.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// tokenFingerprint returns a short non-reversible session identifier for logs.
func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:4])
}
