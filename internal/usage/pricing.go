// Package usage accounts for upstream LLM spend: per-call cost estimates
// from a static price table, a persistent ledger, and aggregate reporting.
package usage

import "math"

// Pricing is the cost of one model in USD per million tokens.
type Pricing struct {
	Input  float64
	Output float64
}

// ModelPricing lists known per-model prices (USD per 1M tokens, as of
// Dec 2024). Source: https://openrouter.ai/models
var ModelPricing = map[string]Pricing{
	"anthropic/claude-sonnet-4":          {Input: 3.0, Output: 15.0},
	"anthropic/claude-3-5-sonnet":        {Input: 3.0, Output: 15.0},
	"anthropic/claude-3-5-haiku":         {Input: 1.0, Output: 5.0},
	"anthropic/claude-3-haiku":           {Input: 0.25, Output: 1.25},
	"google/gemini-flash-1.5":            {Input: 0.075, Output: 0.30},
	"google/gemini-pro-1.5":              {Input: 1.25, Output: 5.0},
	"meta-llama/llama-3.1-70b-instruct":  {Input: 0.35, Output: 0.40},
	"meta-llama/llama-3.1-405b-instruct": {Input: 2.0, Output: 2.0},
	"openai/gpt-4o":                      {Input: 2.5, Output: 10.0},
	"openai/gpt-4o-mini":                 {Input: 0.15, Output: 0.60},
}

// CalculateCost estimates the USD cost of one call, rounded to six decimal
// places. Unknown models cost zero rather than guessing.
func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		return 0
	}

	inputCost := float64(inputTokens) / 1_000_000 * pricing.Input
	outputCost := float64(outputTokens) / 1_000_000 * pricing.Output

	return math.Round((inputCost+outputCost)*1e6) / 1e6
}
