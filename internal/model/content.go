package model

// Content is article text resolved for a URL, ready for LLM analysis.
// Method records how the text was obtained: "reader" (markdown reader API),
// "direct" (raw HTML extraction), "manual" (caller-supplied) or "cache".
type Content struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Text      string `json:"text,omitempty"`
	Method    string `json:"fetch_method"`
	WordCount int    `json:"word_count"`
}

// UnsupportedClaim is one assertion the analyzer flagged as presented
// without adequate sourcing.
type UnsupportedClaim struct {
	Claim string `json:"claim"`
	Issue string `json:"issue"`
}

// AnalysisScores collects the numeric verdicts of a content analysis.
// Section scores run 1-10 (higher = more problematic except factual
// reporting, where higher is better); overall quality runs 1-100.
type AnalysisScores struct {
	InflammatoryLanguage  int    `json:"inflammatory_language"`
	UnsupportedClaims     int    `json:"unsupported_claims"`
	EmotionalManipulation int    `json:"emotional_manipulation"`
	FactualReporting      int    `json:"factual_reporting"`
	OverallQuality        int    `json:"overall_quality"`
	OverallGrade          string `json:"overall_grade"`
}

// ContentAnalysis is the LLM's reading of one article. Success is false
// when fetching or analysis failed; Error then says why.
type ContentAnalysis struct {
	URL                     string             `json:"url"`
	Success                 bool               `json:"success"`
	Summary                 string             `json:"summary,omitempty"`
	Scores                  *AnalysisScores    `json:"scores,omitempty"`
	InflammatoryExamples    []string           `json:"inflammatory_examples,omitempty"`
	InflammatoryExplanation string             `json:"inflammatory_explanation,omitempty"`
	UnsupportedClaims       []UnsupportedClaim `json:"unsupported_claims,omitempty"`
	ClaimsExplanation       string             `json:"claims_explanation,omitempty"`
	ManipulationTechniques  []string           `json:"manipulation_techniques,omitempty"`
	ManipulationExplanation string             `json:"manipulation_explanation,omitempty"`
	FactualStrengths        []string           `json:"factual_strengths,omitempty"`
	FactualWeaknesses       []string           `json:"factual_weaknesses,omitempty"`
	DetectedBias            string             `json:"detected_bias,omitempty"`
	BiasIndicators          []string           `json:"bias_indicators,omitempty"`
	BiasExplanation         string             `json:"bias_explanation,omitempty"`
	Recommendation          string             `json:"recommendation,omitempty"`
	WordCount               int                `json:"word_count,omitempty"`
	FetchMethod             string             `json:"fetch_method,omitempty"`
	ModelUsed               string             `json:"model_used,omitempty"`
	Error                   string             `json:"error,omitempty"`
}
