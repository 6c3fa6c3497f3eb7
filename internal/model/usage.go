package model

// UsageEntry is one recorded upstream API call.
type UsageEntry struct {
	APIName      string  `json:"api_name"`
	Endpoint     string  `json:"endpoint,omitempty"`
	Model        string  `json:"model_used,omitempty"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"estimated_cost_usd"`
	URL          string  `json:"url,omitempty"`
	Success      bool    `json:"success"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// UsageTotals aggregates spend over a reporting period.
type UsageTotals struct {
	TotalCalls        int     `json:"total_calls"`
	TotalInputTokens  int64   `json:"total_input_tokens"`
	TotalOutputTokens int64   `json:"total_output_tokens"`
	TotalCostUSD      float64 `json:"total_cost_usd"`
	SuccessfulCalls   int     `json:"successful_calls"`
	FailedCalls       int     `json:"failed_calls"`
}

// APIUsage is per-provider spend, most expensive first.
type APIUsage struct {
	APIName string  `json:"api_name"`
	Calls   int     `json:"calls"`
	CostUSD float64 `json:"cost_usd"`
}

// ModelUsage is per-model spend.
type ModelUsage struct {
	Model          string  `json:"model"`
	Calls          int     `json:"calls"`
	InputTokens    int64   `json:"input_tokens"`
	OutputTokens   int64   `json:"output_tokens"`
	CostUSD        float64 `json:"cost_usd"`
	AvgCostPerCall float64 `json:"avg_cost_per_call"`
}

// DailyUsage is one day's aggregate, newest first.
type DailyUsage struct {
	Date         string  `json:"date"`
	Calls        int     `json:"calls"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// ExpensiveCall is one of the costliest individual calls in the period.
type ExpensiveCall struct {
	URL          string  `json:"url,omitempty"`
	Model        string  `json:"model,omitempty"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	Timestamp    string  `json:"timestamp"`
}

// UsageStats is the full usage report for the last PeriodDays days.
type UsageStats struct {
	PeriodDays   int             `json:"period_days"`
	Totals       UsageTotals     `json:"totals"`
	ByAPI        []APIUsage      `json:"by_api"`
	ByModel      []ModelUsage    `json:"by_model"`
	Daily        []DailyUsage    `json:"daily"`
	TopExpensive []ExpensiveCall `json:"top_expensive_calls"`
}
