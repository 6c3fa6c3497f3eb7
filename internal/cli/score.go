package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sourcelens/internal/model"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <domain>",
	Short: "Score a known source for an evidence context",
	Long: `Score looks up a domain in the source database and reports its
context-weighted credibility without fetching anything.

Example:
  sourcelens score nytimes.com
  sourcelens score heritage.org --claim-type economic --role support
  sourcelens score reuters.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&claimType, "claim-type", "", "claim type (political, economic, foreign_policy, scientific, general)")
	scoreCmd.Flags().StringVar(&evidenceRole, "role", "", "evidence role (support, refute, neutral, counternarrative)")
	scoreCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
}

func runScore(cmd *cobra.Command, args []string) error {
	claim, err := model.ParseClaimType(claimType)
	if err != nil {
		return err
	}
	role, err := model.ParseEvidenceRole(evidenceRole)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	src, err := a.store.Lookup(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("lookup %s: %w", args[0], err)
	}

	scoring := a.scorer.Score(src, model.EvidenceContext{ClaimType: claim, EvidenceRole: role})

	if asJSON {
		return printJSON(map[string]any{"source": src, "scoring": scoring})
	}

	printSource(src)
	fmt.Println()
	printScoring(&scoring)
	return nil
}
