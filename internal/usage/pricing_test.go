package usage

import (
	"context"
	"path/filepath"
	"testing"

	"sourcelens/internal/model"
	"sourcelens/internal/store"
)

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		inputTokens  int
		outputTokens int
		want         float64
	}{
		{
			name:         "claude sonnet 4",
			model:        "anthropic/claude-sonnet-4",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         18.0,
		},
		{
			name:         "gpt-4o-mini small call",
			model:        "openai/gpt-4o-mini",
			inputTokens:  10_000,
			outputTokens: 2_000,
			want:         0.0027,
		},
		{
			name:         "gemini flash rounds to six decimals",
			model:        "google/gemini-flash-1.5",
			inputTokens:  1234,
			outputTokens: 567,
			want:         0.000263,
		},
		{
			name:         "unknown model costs zero",
			model:        "mystery/model-9000",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         0,
		},
		{
			name:  "zero tokens cost zero",
			model: "anthropic/claude-sonnet-4",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCost(tt.model, tt.inputTokens, tt.outputTokens)
			if got != tt.want {
				t.Errorf("CalculateCost(%q, %d, %d) = %v, want %v",
					tt.model, tt.inputTokens, tt.outputTokens, got, tt.want)
			}
		})
	}
}

func TestTracker_Record(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	tracker := NewTracker(st)
	ctx := context.Background()

	// Cost left at zero gets estimated from the price table.
	tracker.Record(ctx, model.UsageEntry{
		APIName:      "openrouter",
		Endpoint:     "content_analyze",
		Model:        "anthropic/claude-sonnet-4",
		InputTokens:  1_000_000,
		OutputTokens: 0,
		URL:          "https://example.com/a",
		Success:      true,
	})

	// An explicit cost is preserved.
	tracker.Record(ctx, model.UsageEntry{
		APIName:     "openrouter",
		Model:       "anthropic/claude-sonnet-4",
		InputTokens: 1_000_000,
		CostUSD:     0.5,
		Success:     true,
	})

	stats, err := tracker.Stats(ctx, 30)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.Totals.TotalCalls != 2 {
		t.Fatalf("Expected 2 calls, got %d", stats.Totals.TotalCalls)
	}
	if stats.Totals.TotalCostUSD != 3.5 {
		t.Errorf("Expected total cost 3.5, got %v", stats.Totals.TotalCostUSD)
	}
}

func TestTracker_Record_UnknownModel(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	tracker := NewTracker(st)
	ctx := context.Background()

	tracker.Record(ctx, model.UsageEntry{
		APIName:     "ollama",
		Model:       "llama3.1:8b",
		InputTokens: 500,
		Success:     true,
	})

	stats, err := tracker.Stats(ctx, 30)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.Totals.TotalCostUSD != 0 {
		t.Errorf("Expected zero cost for unknown model, got %v", stats.Totals.TotalCostUSD)
	}
	if stats.Totals.TotalCalls != 1 {
		t.Errorf("Expected ledger entry despite unknown pricing, got %d calls", stats.Totals.TotalCalls)
	}
}
