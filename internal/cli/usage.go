package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var usageDays int

// usageCmd represents the usage command
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show LLM API usage and estimated cost",
	Args:  cobra.NoArgs,
	RunE:  runUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)

	usageCmd.Flags().IntVar(&usageDays, "days", 30, "reporting window in days")
	usageCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
}

func runUsage(cmd *cobra.Command, args []string) error {
	if usageDays < 1 || usageDays > 365 {
		return fmt.Errorf("days must be in [1,365], got %d", usageDays)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.tracker.Stats(context.Background(), usageDays)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(stats)
	}
	printUsage(stats)
	return nil
}
