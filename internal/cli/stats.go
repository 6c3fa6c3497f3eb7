package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show source repository composition",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.store.Stats(context.Background())
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(stats)
	}
	printStats(stats)
	return nil
}
