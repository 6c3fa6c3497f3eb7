package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sourcelens/internal/counter"
	"sourcelens/internal/model"
)

// counterCmd represents the counter command
var counterCmd = &cobra.Command{
	Use:   "counter <domain>",
	Short: "Suggest credible sources from the other side of the spectrum",
	Long: `Counter finds credible outlets whose political lean opposes the given
source's lean. A center source draws suggestions from both wings; a source
with no recorded lean has no side to oppose and yields none.

Example:
  sourcelens counter foxnews.com
  sourcelens counter nytimes.com --min-credibility 75 --limit 5
  sourcelens counter reuters.com --leans "-2,2" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCounter,
}

func init() {
	rootCmd.AddCommand(counterCmd)

	counterCmd.Flags().Float64Var(&minCredibility, "min-credibility", counter.DefaultMinCredibility, "credibility floor for suggestions")
	counterCmd.Flags().IntVar(&counterLimit, "limit", counter.DefaultLimit, "max suggestions")
	counterCmd.Flags().StringVar(&leansCSV, "leans", "", "explicit lean allow-list, comma-separated (replaces the opposite-side rule)")
	counterCmd.Flags().StringVar(&claimType, "claim-type", "", "claim type the suggestions will be used for")
	counterCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
}

func runCounter(cmd *cobra.Command, args []string) error {
	claim, err := model.ParseClaimType(claimType)
	if err != nil {
		return err
	}
	leans, err := parseLeans(leansCSV)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	src, err := a.store.Lookup(ctx, args[0])
	if err != nil {
		return fmt.Errorf("lookup %s: %w", args[0], err)
	}

	counters, err := a.selector.FindFor(ctx, src, counter.Options{
		MinCredibility: minCredibility,
		Limit:          counterLimit,
		PreferredLeans: leans,
		ClaimType:      claim,
	})
	if err != nil {
		return err
	}

	if asJSON {
		if counters == nil {
			counters = []model.Counternarrative{}
		}
		return printJSON(map[string]any{
			"source_domain":     src.Domain,
			"source_name":       src.Name,
			"source_lean":       leanDisplay(src),
			"counternarratives": counters,
			"total":             len(counters),
		})
	}

	fmt.Printf("%s (%s) — %s\n\n", src.Name, src.Domain, leanDisplay(src))
	if len(counters) == 0 {
		if src.PoliticalLean == nil {
			fmt.Println("No recorded lean; nothing to oppose.")
		} else {
			fmt.Println("No opposing sources above the credibility floor.")
		}
		return nil
	}

	printCounternarratives(counters)
	return nil
}
