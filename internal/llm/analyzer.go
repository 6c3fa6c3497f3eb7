package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sourcelens/internal/model"
)

// Recorder receives accounting entries for upstream API calls. The usage
// package implements it; a nil recorder disables accounting.
type Recorder interface {
	Record(ctx context.Context, entry model.UsageEntry)
}

// maxAnalysisChars caps the article text sent for analysis (~4k tokens).
const maxAnalysisChars = 15000

// analyzeEndpoint tags usage ledger entries written by the Analyzer.
const analyzeEndpoint = "content_analyze"

const analysisPrompt = `You are an expert media analyst. Analyze the following news article for quality, bias, and reliability.

ARTICLE CONTENT:
%s

Provide a structured analysis in the following JSON format:

{
  "summary": "2-3 sentence summary of what the article is about",

  "inflammatory_language": {
    "score": <1-10, where 1=neutral/factual, 10=highly inflammatory>,
    "examples": ["list of specific inflammatory phrases found"],
    "explanation": "brief explanation of the inflammatory language used"
  },

  "unsupported_claims": {
    "score": <1-10, where 1=well-sourced, 10=many unsupported claims>,
    "claims": [
      {
        "claim": "the specific claim made",
        "issue": "why it's unsupported (no source, vague attribution, etc.)"
      }
    ],
    "explanation": "overall assessment of sourcing quality"
  },

  "emotional_manipulation": {
    "score": <1-10, where 1=objective, 10=highly manipulative>,
    "techniques": ["list of manipulation techniques detected"],
    "explanation": "how the article attempts to influence reader emotions"
  },

  "factual_reporting": {
    "score": <1-10, where 1=opinion/speculation, 10=factual reporting>,
    "strengths": ["what the article does well factually"],
    "weaknesses": ["factual issues or gaps"]
  },

  "bias_indicators": {
    "detected_lean": "<Left|Lean Left|Center|Lean Right|Right|Unknown>",
    "indicators": ["specific phrases or framing that indicate bias"],
    "explanation": "assessment of political or ideological bias"
  },

  "overall_quality": {
    "score": <1-100, overall quality/reliability score>,
    "grade": "<A|B|C|D|F>",
    "recommendation": "brief recommendation for readers"
  }
}

Return ONLY valid JSON, no additional text or markdown formatting.`

// analysisPayload mirrors the JSON shape the prompt asks for.
type analysisPayload struct {
	Summary              string `json:"summary"`
	InflammatoryLanguage struct {
		Score       int      `json:"score"`
		Examples    []string `json:"examples"`
		Explanation string   `json:"explanation"`
	} `json:"inflammatory_language"`
	UnsupportedClaims struct {
		Score       int                      `json:"score"`
		Claims      []model.UnsupportedClaim `json:"claims"`
		Explanation string                   `json:"explanation"`
	} `json:"unsupported_claims"`
	EmotionalManipulation struct {
		Score       int      `json:"score"`
		Techniques  []string `json:"techniques"`
		Explanation string   `json:"explanation"`
	} `json:"emotional_manipulation"`
	FactualReporting struct {
		Score      int      `json:"score"`
		Strengths  []string `json:"strengths"`
		Weaknesses []string `json:"weaknesses"`
	} `json:"factual_reporting"`
	BiasIndicators struct {
		DetectedLean string   `json:"detected_lean"`
		Indicators   []string `json:"indicators"`
		Explanation  string   `json:"explanation"`
	} `json:"bias_indicators"`
	OverallQuality struct {
		Score          int    `json:"score"`
		Grade          string `json:"grade"`
		Recommendation string `json:"recommendation"`
	} `json:"overall_quality"`
}

// Analyzer runs structured article analysis through a completion provider.
type Analyzer struct {
	provider Provider
	recorder Recorder
	config   Config
}

// NewAnalyzer creates an analyzer. recorder may be nil.
func NewAnalyzer(provider Provider, recorder Recorder, config Config) *Analyzer {
	return &Analyzer{
		provider: provider,
		recorder: recorder,
		config:   config,
	}
}

// Analyze asks the provider for a structured reading of the article and
// maps the reply onto model.ContentAnalysis.
func (a *Analyzer) Analyze(ctx context.Context, content model.Content) (*model.ContentAnalysis, error) {
	return a.AnalyzeWithModel(ctx, content, "")
}

// AnalyzeWithModel is Analyze with a per-call model override. An empty
// override uses the configured default.
func (a *Analyzer) AnalyzeWithModel(ctx context.Context, content model.Content, modelOverride string) (*model.ContentAnalysis, error) {
	if a.provider == nil {
		return nil, ErrNoProvider
	}

	text := content.Text
	if len(text) > maxAnalysisChars {
		text = text[:maxAnalysisChars] + "\n\n[Article truncated for analysis...]"
	}

	modelName := modelOverride
	if modelName == "" {
		modelName = a.config.Model
	}

	resp, err := a.provider.Complete(ctx, CompletionRequest{
		Prompt: fmt.Sprintf(analysisPrompt, text),
		Model:  modelOverride,
	})
	if err != nil {
		a.record(ctx, model.UsageEntry{
			APIName:      a.provider.Name(),
			Endpoint:     analyzeEndpoint,
			Model:        modelName,
			URL:          content.URL,
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	// The provider billed for this call whether or not the reply parses,
	// so account for it before validating the payload.
	a.record(ctx, model.UsageEntry{
		APIName:      a.provider.Name(),
		Endpoint:     analyzeEndpoint,
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		URL:          content.URL,
		Success:      true,
	})

	var payload analysisPayload
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &payload); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	grade := payload.OverallQuality.Grade
	if grade == "" {
		grade = "?"
	}

	return &model.ContentAnalysis{
		URL:     content.URL,
		Success: true,
		Summary: payload.Summary,
		Scores: &model.AnalysisScores{
			InflammatoryLanguage:  payload.InflammatoryLanguage.Score,
			UnsupportedClaims:     payload.UnsupportedClaims.Score,
			EmotionalManipulation: payload.EmotionalManipulation.Score,
			FactualReporting:      payload.FactualReporting.Score,
			OverallQuality:        payload.OverallQuality.Score,
			OverallGrade:          grade,
		},
		InflammatoryExamples:    payload.InflammatoryLanguage.Examples,
		InflammatoryExplanation: payload.InflammatoryLanguage.Explanation,
		UnsupportedClaims:       payload.UnsupportedClaims.Claims,
		ClaimsExplanation:       payload.UnsupportedClaims.Explanation,
		ManipulationTechniques:  payload.EmotionalManipulation.Techniques,
		ManipulationExplanation: payload.EmotionalManipulation.Explanation,
		FactualStrengths:        payload.FactualReporting.Strengths,
		FactualWeaknesses:       payload.FactualReporting.Weaknesses,
		DetectedBias:            payload.BiasIndicators.DetectedLean,
		BiasIndicators:          payload.BiasIndicators.Indicators,
		BiasExplanation:         payload.BiasIndicators.Explanation,
		Recommendation:          payload.OverallQuality.Recommendation,
		WordCount:               content.WordCount,
		FetchMethod:             content.Method,
		ModelUsed:               resp.Model,
	}, nil
}

func (a *Analyzer) record(ctx context.Context, entry model.UsageEntry) {
	if a.recorder == nil {
		return
	}
	a.recorder.Record(ctx, entry)
}

// stripFences unwraps a markdown code block around the JSON payload;
// models sometimes add one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	} else if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}
