package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sourcelens/internal/analyze"
	"sourcelens/internal/model"
)

// analyzeOptions are the caller-tunable knobs shared by the single and
// batch analyze endpoints. Pointer fields distinguish "omitted" from an
// explicit zero: min_credibility 0 is a real request for no floor.
type analyzeOptions struct {
	ClaimType                string   `json:"claim_type"`
	EvidenceRole             string   `json:"evidence_role"`
	IncludeCounternarratives *bool    `json:"include_counternarratives"`
	MinCredibility           *float64 `json:"min_credibility"`
	Limit                    int      `json:"limit"`
	PreferredLeans           []int    `json:"preferred_leans"`
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
	analyzeOptions
}

type batchAnalyzeRequest struct {
	URLs    []string        `json:"urls" binding:"required"`
	Options *analyzeOptions `json:"options"`
}

type batchAnalyzeResponse struct {
	Results []*model.Analysis `json:"results"`
	analyze.BatchSummary
}

// toOptions validates the wire options against the closed enumerations
// and fills defaults.
func (o *analyzeOptions) toOptions() (analyze.Options, error) {
	opts := analyze.DefaultOptions()
	if o == nil {
		return opts, nil
	}

	claimType, err := model.ParseClaimType(o.ClaimType)
	if err != nil {
		return opts, err
	}
	role, err := model.ParseEvidenceRole(o.EvidenceRole)
	if err != nil {
		return opts, err
	}
	if err := validateLeans(o.PreferredLeans); err != nil {
		return opts, err
	}

	opts.Context = model.EvidenceContext{ClaimType: claimType, EvidenceRole: role}
	if o.IncludeCounternarratives != nil {
		opts.IncludeCounternarratives = *o.IncludeCounternarratives
	}
	if o.MinCredibility != nil {
		opts.MinCredibility = *o.MinCredibility
	}
	if o.Limit > 0 {
		opts.Limit = o.Limit
	}
	opts.PreferredLeans = o.PreferredLeans
	return opts, nil
}

func validateLeans(leans []int) error {
	for _, l := range leans {
		if l < -2 || l > 2 {
			return fmt.Errorf("political lean %d out of range [-2,2]", l)
		}
	}
	return nil
}

// handleAnalyze resolves one article URL to its source, scores it and
// optionally attaches counternarratives.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts, err := req.toOptions()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := s.pipeline.AnalyzeURL(c.Request.Context(), req.URL, opts)
	if err != nil {
		s.serverError(c, err)
		return
	}

	switch {
	case analysis.SourceFound:
		s.metrics.recordLookup(outcomeFound)
		c.JSON(http.StatusOK, analysis)
	case analysis.Domain != "":
		s.metrics.recordLookup(outcomeNotFound)
		c.JSON(http.StatusNotFound, analysis)
	default:
		s.metrics.recordLookup(outcomeInvalid)
		c.JSON(http.StatusBadRequest, analysis)
	}
}

// handleAnalyzeBatch analyzes up to the configured batch limit of URLs,
// returning per-URL results in input order plus a summary.
func (s *Server) handleAnalyzeBatch(c *gin.Context) {
	var req batchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "urls list cannot be empty"})
		return
	}
	limit := s.cfg.Concurrency.BatchLimit
	if limit <= 0 {
		limit = 50
	}
	if len(req.URLs) > limit {
		c.JSON(http.StatusBadRequest,
			gin.H{"error": fmt.Sprintf("maximum %d URLs per batch request", limit)})
		return
	}

	opts, err := req.Options.toOptions()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := s.pipeline.AnalyzeBatch(c.Request.Context(), req.URLs, opts)
	for _, a := range results {
		switch {
		case a.SourceFound:
			s.metrics.recordLookup(outcomeFound)
		case a.Domain != "":
			s.metrics.recordLookup(outcomeNotFound)
		default:
			s.metrics.recordLookup(outcomeInvalid)
		}
	}

	c.JSON(http.StatusOK, batchAnalyzeResponse{
		Results:      results,
		BatchSummary: analyze.Summarize(results),
	})
}

// serverError logs the failure and reports a bare 500; internals stay out
// of responses.
func (s *Server) serverError(c *gin.Context, err error) {
	s.log.WithFields(logrus.Fields{
		"error":      err.Error(),
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
