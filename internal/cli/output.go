package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"sourcelens/internal/model"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func banner(title string) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  " + title)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
}

// printAnalysis renders one analysis for humans.
func printAnalysis(a *model.Analysis) {
	if a.Error != "" {
		fmt.Printf("✗ %s: %s\n", a.URL, a.Error)
		return
	}

	printSource(a.Source)
	if a.Scoring != nil {
		fmt.Println()
		printScoring(a.Scoring)
	}
	if len(a.Counternarratives) > 0 {
		fmt.Println()
		printCounternarratives(a.Counternarratives)
	}
}

// printSource renders the stored metadata for one source.
func printSource(src *model.Source) {
	name := src.Name
	if name == "" {
		name = src.Domain
	}
	fmt.Printf("%s (%s)\n", name, src.Domain)

	if src.CredibilityScore != nil {
		rating := ""
		if src.CredibilityRating != nil {
			rating = fmt.Sprintf(" (%s)", *src.CredibilityRating)
		}
		fmt.Printf("  Credibility:  %.1f/100%s\n", *src.CredibilityScore, rating)
	} else {
		fmt.Printf("  Credibility:  not rated\n")
	}

	fmt.Printf("  Lean:         %s\n", leanDisplay(src))
	if src.SourceType != nil {
		fmt.Printf("  Type:         %s\n", *src.SourceType)
	}
	if src.Description != "" {
		fmt.Printf("  About:        %s\n", src.Description)
	}
	if src.OwnershipSummary != "" {
		fmt.Printf("  Ownership:    %s\n", src.OwnershipSummary)
	}
}

// printScoring renders a weighted score with its breakdown.
func printScoring(r *model.ScoringResult) {
	fmt.Printf("  Weighted score:  %.1f/100 (%s tier)\n", r.WeightedScore, r.CredibilityTier)
	fmt.Printf("  Recommendation:  %s\n", r.Recommendation)
	fmt.Printf("  Breakdown:       %s\n", r.Breakdown.Explanation)
}

// printCounternarratives renders opposing-perspective suggestions.
func printCounternarratives(counters []model.Counternarrative) {
	fmt.Printf("Counternarrative sources (%d):\n", len(counters))
	for _, c := range counters {
		score := "unrated"
		if c.Source.CredibilityScore != nil {
			score = fmt.Sprintf("%.0f/100", *c.Source.CredibilityScore)
		}
		name := c.Source.Name
		if name == "" {
			name = c.Source.Domain
		}
		fmt.Printf("  • %s (%s) — %s, %s, weighted %.1f\n",
			name, c.Source.Domain, leanDisplay(c.Source), score, c.Scoring.WeightedScore)
	}
}

// printStats renders repository composition with stable ordering.
func printStats(stats *model.RepositoryStats) {
	banner("Source Repository")
	fmt.Printf("  Total sources:        %d\n", stats.TotalSources)
	fmt.Printf("  With credibility:     %d\n", stats.WithCredibility)
	fmt.Printf("  With political lean:  %d\n", stats.WithPoliticalLean)

	fmt.Println()
	fmt.Println("  By lean:")
	printDistribution(stats.LeanDistribution)

	fmt.Println()
	fmt.Println("  By credibility tier:")
	printDistribution(stats.CredibilityTiers)

	fmt.Println()
	fmt.Println("  By type:")
	printDistribution(stats.TypeDistribution)
}

func printDistribution(dist map[string]int) {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("    %-20s %d\n", k, dist[k])
	}
}

// printUsage renders an LLM usage report.
func printUsage(stats *model.UsageStats) {
	banner(fmt.Sprintf("API Usage (last %d days)", stats.PeriodDays))
	fmt.Printf("  Calls:          %d (%d ok, %d failed)\n",
		stats.Totals.TotalCalls, stats.Totals.SuccessfulCalls, stats.Totals.FailedCalls)
	fmt.Printf("  Input tokens:   %d\n", stats.Totals.TotalInputTokens)
	fmt.Printf("  Output tokens:  %d\n", stats.Totals.TotalOutputTokens)
	fmt.Printf("  Cost:           $%.4f\n", stats.Totals.TotalCostUSD)

	if len(stats.ByModel) > 0 {
		fmt.Println()
		fmt.Println("  By model:")
		for _, m := range stats.ByModel {
			fmt.Printf("    %-32s %4d calls  $%.4f\n", m.Model, m.Calls, m.CostUSD)
		}
	}
	if len(stats.Daily) > 0 {
		fmt.Println()
		fmt.Println("  Daily:")
		for _, d := range stats.Daily {
			fmt.Printf("    %s  %4d calls  $%.4f\n", d.Date, d.Calls, d.CostUSD)
		}
	}
}

// printContentAnalysis renders an LLM article reading.
func printContentAnalysis(a *model.ContentAnalysis) {
	if !a.Success {
		fmt.Printf("✗ %s: %s\n", a.URL, a.Error)
		return
	}

	banner("Content Analysis")
	fmt.Printf("  URL:      %s\n", a.URL)
	fmt.Printf("  Fetched:  %s (%d words)\n", a.FetchMethod, a.WordCount)
	fmt.Printf("  Model:    %s\n", a.ModelUsed)
	fmt.Println()
	fmt.Printf("  %s\n", a.Summary)

	if a.Scores != nil {
		fmt.Println()
		fmt.Printf("  Overall quality:        %d/100 (grade %s)\n", a.Scores.OverallQuality, a.Scores.OverallGrade)
		fmt.Printf("  Inflammatory language:  %d/10\n", a.Scores.InflammatoryLanguage)
		fmt.Printf("  Unsupported claims:     %d/10\n", a.Scores.UnsupportedClaims)
		fmt.Printf("  Emotional manipulation: %d/10\n", a.Scores.EmotionalManipulation)
		fmt.Printf("  Factual reporting:      %d/10\n", a.Scores.FactualReporting)
	}
	if a.DetectedBias != "" {
		fmt.Println()
		fmt.Printf("  Detected bias: %s\n", a.DetectedBias)
	}
	if len(a.UnsupportedClaims) > 0 {
		fmt.Println()
		fmt.Println("  Flagged claims:")
		for _, claim := range a.UnsupportedClaims {
			fmt.Printf("    • %s (%s)\n", claim.Claim, claim.Issue)
		}
	}
	if a.Recommendation != "" {
		fmt.Println()
		fmt.Printf("  Recommendation: %s\n", a.Recommendation)
	}
}

func leanDisplay(src *model.Source) string {
	if src.PoliticalLeanLabel != "" {
		return src.PoliticalLeanLabel
	}
	return model.LeanLabel(src.PoliticalLean)
}

// parseLeans parses a comma-separated lean list like "-2,-1".
func parseLeans(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lean, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid lean %q", part)
		}
		if lean < -2 || lean > 2 {
			return nil, fmt.Errorf("political lean %d out of range [-2,2]", lean)
		}
		out = append(out, lean)
	}
	return out, nil
}

// warnVerbose prints to stderr only in verbose mode.
func warnVerbose(format string, a ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, a...)
	}
}
