// Package counter selects credible opposing-perspective sources for a
// subject outlet.
package counter

import (
	"context"
	"fmt"

	"sourcelens/internal/model"
	"sourcelens/internal/score"
)

// SourceReader is the read-only repository view the selector needs.
type SourceReader interface {
	Lookup(ctx context.Context, domain string) (*model.Source, error)
	ByLeans(ctx context.Context, leans []int, minCredibility float64, limit int) ([]*model.Source, error)
}

// Options tune one selection. Zero MinCredibility means no floor; a
// non-positive Limit falls back to the default.
type Options struct {
	MinCredibility float64
	Limit          int
	PreferredLeans []int
	ClaimType      model.ClaimType
}

// Selection defaults, applied by callers that take requests off the wire.
const (
	DefaultMinCredibility = 60.0
	DefaultLimit          = 10
)

// Selector finds counternarrative sources and scores them in that role.
type Selector struct {
	reader SourceReader
	scorer *score.Scorer
}

// NewSelector creates a selector over the given repository view.
func NewSelector(reader SourceReader) *Selector {
	return &Selector{
		reader: reader,
		scorer: score.NewScorer(),
	}
}

// Find resolves the subject domain and returns opposing sources. It returns
// model.ErrSourceNotFound when the subject itself is unknown; a subject with
// no recorded lean yields an empty result, since there is no side to oppose.
func (s *Selector) Find(ctx context.Context, domain string, opts Options) ([]model.Counternarrative, error) {
	subject, err := s.reader.Lookup(ctx, domain)
	if err != nil {
		return nil, err
	}
	return s.FindFor(ctx, subject, opts)
}

// FindFor is Find for an already-resolved subject.
func (s *Selector) FindFor(ctx context.Context, subject *model.Source, opts Options) ([]model.Counternarrative, error) {
	if subject.PoliticalLean == nil {
		return nil, nil
	}

	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	// An explicit lean allow-list replaces the opposite-side rule entirely.
	leans := opts.PreferredLeans
	if len(leans) == 0 {
		leans = opposingLeans(*subject.PoliticalLean)
	}

	candidates, err := s.reader.ByLeans(ctx, leans, opts.MinCredibility, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("opposing sources for %s: %w", subject.Domain, err)
	}

	evctx := model.EvidenceContext{
		ClaimType:    opts.ClaimType,
		EvidenceRole: model.RoleCounternarrative,
	}
	if evctx.ClaimType == "" {
		evctx.ClaimType = model.ClaimGeneral
	}

	out := make([]model.Counternarrative, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, model.Counternarrative{
			Source:  c,
			Scoring: s.scorer.Score(c, evctx),
		})
	}
	return out, nil
}

// opposingLeans maps a subject lean to the leans on the other side.
// Center has no single opposite, so both wings qualify.
func opposingLeans(lean int) []int {
	switch {
	case lean == 0:
		return []int{-2, -1, 1, 2}
	case lean < 0:
		return []int{1, 2}
	default:
		return []int{-2, -1}
	}
}
