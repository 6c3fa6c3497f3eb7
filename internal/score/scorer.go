// Package score computes context-weighted credibility scores with
// transparent breakdowns. All functions are pure: no I/O, no clock,
// no randomness, so the same source and context always produce the
// same result.
package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sourcelens/internal/model"
)

// Scorer weights a source's credibility for a specific evidence context.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Tier classifies the original credibility score into a coarse bucket.
// The tier deliberately ignores context adjustments: a weighted score may
// rise or fall, the tier stays pinned to what the raters measured.
func Tier(score *float64) model.CredibilityTier {
	if score == nil {
		return model.TierUnknown
	}
	switch {
	case *score >= 80:
		return model.TierHigh
	case *score >= 60:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// TypeBonus rewards source types that specialize in verification.
// Think tanks earn more when the claim is policy-sensitive, where their
// expertise is relevant, and less elsewhere.
func TypeBonus(sourceType *string, claim model.ClaimType) float64 {
	if sourceType == nil {
		return 0
	}
	switch *sourceType {
	case "fact_check":
		return 10
	case "think_tank", "think_tank___policy_group":
		if claim.PolicySensitive() {
			return 5
		}
		return 2
	case "wire_service":
		return 5
	case "trade_publication":
		return 3
	}
	return 0
}

// BiasPenalty docks sources with strong partisan leans, but only when the
// source is offered as neutral evidence. Supporting, refuting and
// counternarrative roles declare their perspective up front, so the lean
// is information rather than a defect.
func BiasPenalty(lean *int, role model.EvidenceRole) float64 {
	if lean == nil || role != model.RoleNeutral {
		return 0
	}
	switch abs(*lean) {
	case 2:
		return -10
	case 1:
		return -5
	}
	return 0
}

// Recommendation maps a weighted score to usage guidance. An unknown tier
// forces use_with_caution regardless of the weighted score: bonuses on top
// of the neutral default must not masquerade as measured credibility.
func Recommendation(tier model.CredibilityTier, weighted float64) model.Recommendation {
	if tier == model.TierUnknown {
		return model.RecommendationCaution
	}
	switch {
	case weighted >= 80:
		return model.RecommendationStrong
	case weighted >= 60:
		return model.RecommendationAcceptable
	case weighted >= 40:
		return model.RecommendationCaution
	}
	return model.RecommendationAvoid
}

// Score weights src for the given evidence context and explains the result.
// A missing credibility score falls back to a neutral base of 50; the
// breakdown always records the base that was actually used.
func (s *Scorer) Score(src *model.Source, evctx model.EvidenceContext) model.ScoringResult {
	var base float64
	var clauses []string
	if src.CredibilityScore != nil {
		base = *src.CredibilityScore
		clauses = append(clauses, fmt.Sprintf("Base credibility: %s/100", trimFloat(base)))
	} else {
		base = 50
		clauses = append(clauses, "No credibility rating available; assigned neutral score")
	}

	bonus := TypeBonus(src.SourceType, evctx.ClaimType)
	penalty := BiasPenalty(src.PoliticalLean, evctx.EvidenceRole)

	weighted := base + bonus + penalty
	weighted = math.Max(0, math.Min(100, weighted))

	if bonus > 0 {
		clauses = append(clauses, fmt.Sprintf("+%s type bonus (%s)", trimFloat(bonus), *src.SourceType))
	}
	if penalty < 0 {
		clauses = append(clauses, fmt.Sprintf("%s bias penalty (extreme %s for neutral evidence)",
			trimFloat(penalty), model.LeanLabel(src.PoliticalLean)))
	}
	if evctx.EvidenceRole == model.RoleCounternarrative {
		clauses = append(clauses, fmt.Sprintf("Counternarrative perspective (%s)", model.LeanLabel(src.PoliticalLean)))
	}

	tier := Tier(src.CredibilityScore)

	return model.ScoringResult{
		WeightedScore: math.Round(weighted*10) / 10,
		Breakdown: model.Breakdown{
			BaseCredibility: base,
			TypeBonus:       bonus,
			BiasPenalty:     penalty,
			Explanation:     strings.Join(clauses, "; "),
		},
		CredibilityTier: tier,
		Recommendation:  Recommendation(tier, weighted),
	}
}

// trimFloat renders a float without trailing zeros (90 not 90.0).
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
