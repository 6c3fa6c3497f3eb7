package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sourcelens/internal/model"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import sources from a JSON file into the database",
	Long: `Import loads a JSON array of source records and upserts them into the
source database in one transaction: existing domains are updated, new ones
inserted. Records missing a lean label get one derived from the lean value.

Example:
  sourcelens import sources.json
  sourcelens import sources.json --db ./sources.db`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var sources []*model.Source
	if err := json.Unmarshal(data, &sources); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources found in %s", args[0])
	}

	for _, src := range sources {
		if src.Domain == "" {
			return fmt.Errorf("source record without a domain: %+v", src)
		}
		if src.PoliticalLeanLabel == "" && src.PoliticalLean != nil {
			src.PoliticalLeanLabel = model.LeanLabel(src.PoliticalLean)
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.store.Import(context.Background(), sources)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("✓ Imported %d sources into %s\n", count, a.cfg.Store.Path)
	return nil
}
