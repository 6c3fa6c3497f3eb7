package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleUsage reports LLM token and cost totals over a trailing window.
func (s *Server) handleUsage(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer in [1,365]"})
			return
		}
		days = parsed
	}

	stats, err := s.usage.Stats(c.Request.Context(), days)
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
