package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"sourcelens/internal/analyze"
	"sourcelens/internal/model"
)

var (
	claimType      string
	evidenceRole   string
	counterLimit   int
	minCredibility float64
	leansCSV       string
	asJSON         bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Resolve an article URL to its source and score it",
	Long: `Analyze resolves the URL's publishing domain, looks it up in the source
database and reports credibility weighted for the given evidence context,
plus counternarrative suggestions from the other side of the spectrum.

Example:
  sourcelens analyze https://www.nytimes.com/2024/10/01/politics/story.html
  sourcelens analyze https://wsj.com/articles/x --claim-type political --role support
  sourcelens analyze https://cnn.com/x --counter 5 --min-credibility 70 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&claimType, "claim-type", "", "claim type (political, economic, foreign_policy, scientific, general)")
	analyzeCmd.Flags().StringVar(&evidenceRole, "role", "", "evidence role (support, refute, neutral, counternarrative)")
	analyzeCmd.Flags().IntVar(&counterLimit, "counter", 10, "max counternarrative suggestions (0 disables)")
	analyzeCmd.Flags().Float64Var(&minCredibility, "min-credibility", 60, "counternarrative credibility floor")
	analyzeCmd.Flags().StringVar(&leansCSV, "leans", "", "preferred counternarrative leans, comma-separated (e.g. \"-2,-1\")")
	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
}

// analyzeOptionsFromFlags builds pipeline options from the shared flag set.
func analyzeOptionsFromFlags() (analyze.Options, error) {
	opts := analyze.DefaultOptions()

	claim, err := model.ParseClaimType(claimType)
	if err != nil {
		return opts, err
	}
	role, err := model.ParseEvidenceRole(evidenceRole)
	if err != nil {
		return opts, err
	}
	leans, err := parseLeans(leansCSV)
	if err != nil {
		return opts, err
	}

	opts.Context = model.EvidenceContext{ClaimType: claim, EvidenceRole: role}
	opts.IncludeCounternarratives = counterLimit > 0
	opts.Limit = counterLimit
	opts.MinCredibility = minCredibility
	opts.PreferredLeans = leans
	return opts, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts, err := analyzeOptionsFromFlags()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	analysis, err := a.pipeline.AnalyzeURL(context.Background(), args[0], opts)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(analysis)
	}
	if analysis.Error != "" {
		return errors.New(analysis.Error)
	}

	printAnalysis(analysis)
	return nil
}
