package usage

import (
	"context"
	"fmt"
	"os"

	"sourcelens/internal/model"
	"sourcelens/internal/store"
)

// Tracker writes usage entries to the ledger and serves aggregate reports.
// It satisfies llm.Recorder.
type Tracker struct {
	store *store.Store
}

// NewTracker creates a tracker over the given store.
func NewTracker(st *store.Store) *Tracker {
	return &Tracker{store: st}
}

// Record writes one ledger entry, estimating the cost from the token counts
// when the entry carries none. Logging failures are reported to stderr but
// never propagate; accounting must not break analysis.
func (t *Tracker) Record(ctx context.Context, entry model.UsageEntry) {
	if entry.CostUSD == 0 {
		entry.CostUSD = CalculateCost(entry.Model, entry.InputTokens, entry.OutputTokens)
	}

	if err := t.store.LogUsage(ctx, &entry); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to log API usage: %v\n", err)
	}
}

// Stats reports aggregate usage over the last days days.
func (t *Tracker) Stats(ctx context.Context, days int) (*model.UsageStats, error) {
	return t.store.UsageStats(ctx, days)
}
