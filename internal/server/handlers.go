package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// chatRequest is the inbound body for POST /chat.
type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token := c.MustGet(tokenContextKey).(string)

	response, command, err := s.processor.Process(c.Request.Context(), token, req.Message)
	if err != nil {
		s.logger.Error("chat turn failed", "request_id", c.GetString("requestID"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": response,
		"commands": command,
	})
}
