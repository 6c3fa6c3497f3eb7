package model

// CredibilityTier is the coarse classification of a source's original
// credibility score. It is always derived from the raw score, never from
// the context-weighted one, so a source cannot change tier by being used
// in a friendlier context.
type CredibilityTier string

const (
	TierHigh    CredibilityTier = "high"    // score >= 80
	TierMedium  CredibilityTier = "medium"  // score >= 60
	TierLow     CredibilityTier = "low"     // score < 60
	TierUnknown CredibilityTier = "unknown" // no score on record
)

// Recommendation is the usage guidance derived from the weighted score
// and the tier.
type Recommendation string

const (
	RecommendationStrong     Recommendation = "strong"
	RecommendationAcceptable Recommendation = "acceptable"
	RecommendationCaution    Recommendation = "use_with_caution"
	RecommendationAvoid      Recommendation = "not_recommended"
)

// Breakdown itemizes how a weighted score was assembled. BaseCredibility is
// the base actually used: the recorded score when present (including a
// recorded 0), otherwise the neutral default of 50.
type Breakdown struct {
	BaseCredibility float64 `json:"base_credibility"`
	TypeBonus       float64 `json:"type_bonus"`
	BiasPenalty     float64 `json:"bias_penalty"`
	Explanation     string  `json:"explanation"`
}

// ScoringResult is the outcome of scoring one source in one evidence context.
type ScoringResult struct {
	WeightedScore   float64         `json:"weighted_score"`
	Breakdown       Breakdown       `json:"scoring_breakdown"`
	CredibilityTier CredibilityTier `json:"credibility_tier"`
	Recommendation  Recommendation  `json:"recommendation"`
}

// Counternarrative pairs an opposing-perspective source with its score in
// the counternarrative role.
type Counternarrative struct {
	Source  *Source       `json:"source"`
	Scoring ScoringResult `json:"scoring"`
}

// Analysis is the full lookup-and-score envelope for one URL. Unknown
// domains and unusable URLs are reported in-band: SourceFound is false and
// Error carries the reason, so batch output keeps one entry per input.
type Analysis struct {
	URL               string             `json:"url"`
	Domain            string             `json:"domain,omitempty"`
	SourceFound       bool               `json:"source_found"`
	Source            *Source            `json:"source,omitempty"`
	Scoring           *ScoringResult     `json:"scoring,omitempty"`
	Counternarratives []Counternarrative `json:"counternarratives,omitempty"`
	Error             string             `json:"error,omitempty"`
}

// RepositoryStats summarizes the source repository.
type RepositoryStats struct {
	TotalSources      int            `json:"total_sources"`
	WithCredibility   int            `json:"with_credibility"`
	WithPoliticalLean int            `json:"with_political_lean"`
	LeanDistribution  map[string]int `json:"lean_distribution"`
	TypeDistribution  map[string]int `json:"type_distribution"`
	CredibilityTiers  map[string]int `json:"credibility_tiers"`
}
