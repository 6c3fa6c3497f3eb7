package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sourcelens/internal/fetch"
	"sourcelens/internal/model"
)

var (
	manualFile string
	modelName  string
)

// contentCmd represents the content command
var contentCmd = &cobra.Command{
	Use:   "content <url>",
	Short: "Fetch an article and run LLM quality analysis on it",
	Long: `Content fetches the article text (markdown reader first, then direct
HTML extraction) and asks the configured LLM provider for a structured
quality reading: inflammatory language, unsupported claims, emotional
manipulation, factual reporting and detected bias.

Requires an LLM provider in the configuration and its API key in the
environment (OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY).

Example:
  sourcelens content https://example.com/news/story
  sourcelens content https://example.com/story --model gpt-4o
  sourcelens content https://example.com/story --manual article.txt --json`,
	Args: cobra.ExactArgs(1),
	RunE: runContent,
}

func init() {
	rootCmd.AddCommand(contentCmd)

	contentCmd.Flags().StringVar(&manualFile, "manual", "", "read article text from a file instead of fetching")
	contentCmd.Flags().StringVar(&modelName, "model", "", "override the configured model for this call")
	contentCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
}

func runContent(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.provider == nil {
		return fmt.Errorf("no LLM provider configured (set llm.provider in the config)")
	}

	ctx := context.Background()

	var content *model.Content
	if manualFile != "" {
		text, err := os.ReadFile(manualFile)
		if err != nil {
			return fmt.Errorf("read manual content: %w", err)
		}
		content = fetch.Manual(rawURL, "", string(text))
	} else {
		warnVerbose("⚙️  Fetching %s...\n", rawURL)
		content, err = a.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return fmt.Errorf("fetch article: %w", err)
		}
		warnVerbose("✓ Fetched via %s (%d words)\n", content.Method, content.WordCount)
	}

	warnVerbose("⚙️  Analyzing with %s...\n", a.provider.Name())
	analysis, err := a.analyzer.AnalyzeWithModel(ctx, *content, modelName)
	if err != nil {
		return fmt.Errorf("analyze content: %w", err)
	}

	if asJSON {
		return printJSON(analysis)
	}
	printContentAnalysis(analysis)
	return nil
}
