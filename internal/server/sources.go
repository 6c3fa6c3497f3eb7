package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"sourcelens/internal/counter"
	"sourcelens/internal/model"
	"sourcelens/internal/store"
)

type sourceListResponse struct {
	Sources        []*model.Source        `json:"sources"`
	Total          int                    `json:"total"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	FiltersApplied map[string]interface{} `json:"filters_applied"`
}

// handleListSources serves both the filtered catalog listing and, when
// ?domains= is present, a bulk lookup that preserves request order and
// skips unknown domains.
func (s *Server) handleListSources(c *gin.Context) {
	if raw := c.Query("domains"); raw != "" {
		s.handleBulkLookup(c, raw)
		return
	}

	filter := store.QueryFilter{Limit: 100}
	filters := map[string]interface{}{}

	if raw := c.Query("lean"); raw != "" {
		lean, err := strconv.Atoi(raw)
		if err != nil || lean < -2 || lean > 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lean must be an integer in [-2,2]"})
			return
		}
		filter.Lean = &lean
		filters["lean"] = lean
	}
	if raw := c.Query("min_credibility"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_credibility must be a number"})
			return
		}
		filter.MinCredibility = &min
		filters["min_credibility"] = min
	}
	if raw := c.Query("source_type"); raw != "" {
		filter.SourceType = raw
		filters["source_type"] = raw
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if limit > 500 {
			limit = 500
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}
		filter.Offset = offset
	}

	sources, total, err := s.store.Query(c.Request.Context(), filter)
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, sourceListResponse{
		Sources:        sources,
		Total:          total,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
		FiltersApplied: filters,
	})
}

func (s *Server) handleBulkLookup(c *gin.Context, raw string) {
	var domains []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			domains = append(domains, d)
		}
	}
	if len(domains) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "domains list cannot be empty"})
		return
	}

	found, err := s.store.LookupBulk(c.Request.Context(), domains)
	if err != nil {
		s.serverError(c, err)
		return
	}

	sources := make([]*model.Source, 0, len(found))
	for _, d := range domains {
		if src, ok := found[d]; ok {
			sources = append(sources, src)
		}
	}

	c.JSON(http.StatusOK, sourceListResponse{
		Sources:        sources,
		Total:          len(sources),
		Limit:          len(domains),
		Offset:         0,
		FiltersApplied: map[string]interface{}{"domains": domains},
	})
}

// handleGetSource returns the stored record for one domain.
func (s *Server) handleGetSource(c *gin.Context) {
	domain := c.Param("domain")

	src, err := s.store.Lookup(c.Request.Context(), domain)
	if errors.Is(err, model.ErrSourceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("source not found: %s", domain)})
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, src)
}

type counternarrativeResponse struct {
	SourceDomain      string                   `json:"source_domain"`
	SourceName        string                   `json:"source_name"`
	SourceLean        string                   `json:"source_lean"`
	Counternarratives []model.Counternarrative `json:"counternarratives"`
	Total             int                      `json:"total"`
}

// handleCounternarratives suggests opposing-perspective sources for the
// named domain.
func (s *Server) handleCounternarratives(c *gin.Context) {
	domain := c.Param("domain")

	opts := counter.Options{
		MinCredibility: counter.DefaultMinCredibility,
		Limit:          counter.DefaultLimit,
	}
	if raw := c.Query("min_credibility"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_credibility must be a number"})
			return
		}
		opts.MinCredibility = min
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if limit > 50 {
			limit = 50
		}
		opts.Limit = limit
	}
	if raw := c.Query("claim_type"); raw != "" {
		claimType, err := model.ParseClaimType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		opts.ClaimType = claimType
	}
	if raw := c.Query("preferred_leans"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			lean, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || lean < -2 || lean > 2 {
				c.JSON(http.StatusBadRequest,
					gin.H{"error": "preferred_leans must be integers in [-2,2]"})
				return
			}
			opts.PreferredLeans = append(opts.PreferredLeans, lean)
		}
	}

	src, err := s.store.Lookup(c.Request.Context(), domain)
	if errors.Is(err, model.ErrSourceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("source not found: %s", domain)})
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}

	counters, err := s.selector.FindFor(c.Request.Context(), src, opts)
	if err != nil {
		s.serverError(c, err)
		return
	}
	if counters == nil {
		counters = []model.Counternarrative{}
	}

	c.JSON(http.StatusOK, counternarrativeResponse{
		SourceDomain:      src.Domain,
		SourceName:        src.Name,
		SourceLean:        displayLean(src),
		Counternarratives: counters,
		Total:             len(counters),
	})
}

func displayLean(src *model.Source) string {
	if src.PoliticalLeanLabel != "" {
		return src.PoliticalLeanLabel
	}
	return model.LeanLabel(src.PoliticalLean)
}

type scoreRequest struct {
	Domain  string `json:"domain" binding:"required"`
	Context struct {
		ClaimType    string `json:"claim_type"`
		EvidenceRole string `json:"evidence_role"`
	} `json:"context"`
}

type scoreResponse struct {
	Source  *model.Source        `json:"source"`
	Scoring *model.ScoringResult `json:"scoring"`
}

// handleScoreSource applies context-weighted scoring to a known source
// without fetching anything.
func (s *Server) handleScoreSource(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claimType, err := model.ParseClaimType(req.Context.ClaimType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := model.ParseEvidenceRole(req.Context.EvidenceRole)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := s.store.Lookup(c.Request.Context(), req.Domain)
	if errors.Is(err, model.ErrSourceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("source not found: %s", req.Domain)})
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}

	scoring := s.scorer.Score(src, model.EvidenceContext{ClaimType: claimType, EvidenceRole: role})
	c.JSON(http.StatusOK, scoreResponse{Source: src, Scoring: &scoring})
}

// handleStats reports catalog composition.
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
