package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sourcelens/internal/fetch"
	"sourcelens/internal/model"
)

type contentAnalyzeRequest struct {
	URL     string `json:"url" binding:"required"`
	Content string `json:"content"`
	Model   string `json:"model"`
}

// handleAnalyzeContent fetches (or accepts) article text and runs the LLM
// quality analysis over it. Fetch and analysis failures are reported
// in-band so batch clients can distinguish per-article outcomes.
func (s *Server) handleAnalyzeContent(c *gin.Context) {
	var req contentAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.provider == nil || s.analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no LLM provider configured"})
		return
	}

	ctx := c.Request.Context()

	var content *model.Content
	if req.Content != "" {
		content = fetch.Manual(req.URL, "", req.Content)
	} else {
		fetched, err := s.fetcher.Fetch(ctx, req.URL)
		if err != nil {
			c.JSON(http.StatusOK, model.ContentAnalysis{
				URL:     req.URL,
				Success: false,
				Error:   fmt.Sprintf("failed to fetch article: %v", err),
			})
			return
		}
		content = fetched
	}

	analysis, err := s.analyzer.AnalyzeWithModel(ctx, *content, req.Model)
	if err != nil {
		c.JSON(http.StatusOK, model.ContentAnalysis{
			URL:         req.URL,
			Success:     false,
			Error:       fmt.Sprintf("analysis failed: %v", err),
			WordCount:   content.WordCount,
			FetchMethod: content.Method,
		})
		return
	}

	c.JSON(http.StatusOK, analysis)
}
