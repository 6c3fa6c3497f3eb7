package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sourcelens/internal/analyze"
	"sourcelens/internal/worker"
)

var batchConcurrency int

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple article URLs from a file in parallel",
	Long: `Batch reads URLs from a file (one per line, # comments allowed) and
analyzes them concurrently. Output keeps one entry per input URL in input
order; unknown sources and unusable URLs are reported per-URL instead of
aborting the batch.

Example:
  sourcelens batch urls.txt
  sourcelens batch urls.txt --concurrency 10 --json
  sourcelens batch urls.txt --claim-type political --counter 3`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (0 = config default)")
	batchCmd.Flags().StringVar(&claimType, "claim-type", "", "claim type (political, economic, foreign_policy, scientific, general)")
	batchCmd.Flags().StringVar(&evidenceRole, "role", "", "evidence role (support, refute, neutral, counternarrative)")
	batchCmd.Flags().IntVar(&counterLimit, "counter", 0, "max counternarrative suggestions per URL (0 disables)")
	batchCmd.Flags().Float64Var(&minCredibility, "min-credibility", 60, "counternarrative credibility floor")
	batchCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
}

func runBatch(cmd *cobra.Command, args []string) error {
	opts, err := analyzeOptionsFromFlags()
	if err != nil {
		return err
	}

	urls, err := worker.ReadURLsFromFile(args[0])
	if err != nil {
		return fmt.Errorf("read URLs: %w", err)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	pipeline := a.pipeline
	if batchConcurrency > 0 {
		pipeline = analyze.New(a.store, batchConcurrency)
	}

	if !asJSON {
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
		fmt.Fprintf(os.Stderr, "  SourceLens Batch Analysis\n")
		fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "  Input file:  %s\n", args[0])
		fmt.Fprintf(os.Stderr, "  URLs:        %d\n", len(urls))
		fmt.Fprintf(os.Stderr, "\n")
	}

	results := pipeline.AnalyzeBatch(context.Background(), urls, opts)
	summary := analyze.Summarize(results)

	if asJSON {
		return printJSON(map[string]any{
			"results":    results,
			"total":      summary.Total,
			"successful": summary.Successful,
			"failed":     summary.Failed,
		})
	}

	for _, analysis := range results {
		if analysis.Error != "" {
			fmt.Printf("✗ %-50s %s\n", analysis.URL, analysis.Error)
			continue
		}
		fmt.Printf("✓ %-50s %s  %.1f/100 (%s)\n",
			analysis.URL, analysis.Domain,
			analysis.Scoring.WeightedScore, analysis.Scoring.Recommendation)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d URLs\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", summary.Successful)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
