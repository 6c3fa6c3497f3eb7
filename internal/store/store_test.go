package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"sourcelens/internal/model"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }
func sptr(s string) *string   { return &s }

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedSources(t *testing.T, s *Store) {
	t.Helper()
	fixtures := []*model.Source{
		{Domain: "nytimes.com", Name: "The New York Times", CredibilityScore: fptr(87.5),
			CredibilityRating: sptr("high"), PoliticalLean: iptr(-1), PoliticalLeanLabel: "Lean Left",
			SourceType: sptr("news_media")},
		{Domain: "wsj.com", Name: "The Wall Street Journal", CredibilityScore: fptr(85),
			PoliticalLean: iptr(1), PoliticalLeanLabel: "Lean Right", SourceType: sptr("news_media")},
		{Domain: "reuters.com", Name: "Reuters", CredibilityScore: fptr(95),
			PoliticalLean: iptr(0), PoliticalLeanLabel: "Center", SourceType: sptr("wire_service")},
		{Domain: "dailykos.com", Name: "Daily Kos", CredibilityScore: fptr(57.5),
			PoliticalLean: iptr(-2), PoliticalLeanLabel: "Left", SourceType: sptr("news_media")},
		{Domain: "breitbart.com", Name: "Breitbart", CredibilityScore: fptr(42.5),
			PoliticalLean: iptr(2), PoliticalLeanLabel: "Right", SourceType: sptr("news_media")},
		{Domain: "factcheck.org", Name: "FactCheck.org", CredibilityScore: fptr(100),
			PoliticalLean: iptr(0), PoliticalLeanLabel: "Center", SourceType: sptr("fact_check")},
		{Domain: "unrated-blog.example", Name: "Unrated Blog", PoliticalLean: iptr(2),
			PoliticalLeanLabel: "Right"},
	}
	if _, err := s.Import(context.Background(), fixtures); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
}

func TestStore_Lookup_Exact(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	src, err := s.Lookup(context.Background(), "nytimes.com")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if src.Name != "The New York Times" {
		t.Errorf("Expected The New York Times, got %q", src.Name)
	}
	if src.CredibilityScore == nil || *src.CredibilityScore != 87.5 {
		t.Errorf("Expected credibility 87.5, got %v", src.CredibilityScore)
	}
	if src.PoliticalLean == nil || *src.PoliticalLean != -1 {
		t.Errorf("Expected lean -1, got %v", src.PoliticalLean)
	}
}

func TestStore_Lookup_NotFound(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	_, err := s.Lookup(context.Background(), "no-such-outlet.example")
	if !errors.Is(err, model.ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound, got %v", err)
	}
}

func TestStore_Lookup_FuzzyDeterministic(t *testing.T) {
	s := testStore(t)
	fixtures := []*model.Source{
		{Domain: "news.example.com", Name: "Longer"},
		{Domain: "news.example", Name: "Shorter"},
		{Domain: "z-news.example", Name: "SameLengthLater"},
	}
	if _, err := s.Import(context.Background(), fixtures); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	// Shortest matching domain wins, and repeated calls agree.
	for i := 0; i < 5; i++ {
		src, err := s.Lookup(context.Background(), "news.exam")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if src.Domain != "news.example" {
			t.Fatalf("Expected news.example, got %q", src.Domain)
		}
	}
}

func TestStore_Lookup_UnratedFields(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	src, err := s.Lookup(context.Background(), "unrated-blog.example")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if src.CredibilityScore != nil {
		t.Errorf("Expected nil credibility score, got %v", *src.CredibilityScore)
	}
	if src.SourceType != nil {
		t.Errorf("Expected nil source type, got %v", *src.SourceType)
	}
	if src.PoliticalLean == nil || *src.PoliticalLean != 2 {
		t.Errorf("Expected lean 2, got %v", src.PoliticalLean)
	}
}

func TestStore_LookupBulk(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	found, err := s.LookupBulk(context.Background(),
		[]string{"nytimes.com", "reuters.com", "missing.example"})
	if err != nil {
		t.Fatalf("LookupBulk failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(found))
	}
	if _, ok := found["missing.example"]; ok {
		t.Error("Expected missing.example to be absent")
	}
	if found["reuters.com"].Name != "Reuters" {
		t.Errorf("Expected Reuters, got %q", found["reuters.com"].Name)
	}
}

func TestStore_ByLeans(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	// Right-side sources at >= 60: wsj.com qualifies, breitbart (42.5) and
	// the unrated blog (no score) do not.
	sources, err := s.ByLeans(context.Background(), []int{1, 2}, 60, 10)
	if err != nil {
		t.Fatalf("ByLeans failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("Expected 1 source, got %d", len(sources))
	}
	if sources[0].Domain != "wsj.com" {
		t.Errorf("Expected wsj.com, got %q", sources[0].Domain)
	}
}

func TestStore_ByLeans_OrderAndLimit(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	sources, err := s.ByLeans(context.Background(), []int{-2, -1, 0, 1, 2}, 0, 3)
	if err != nil {
		t.Fatalf("ByLeans failed: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("Expected limit of 3, got %d", len(sources))
	}
	want := []string{"factcheck.org", "reuters.com", "nytimes.com"}
	for i, domain := range want {
		if sources[i].Domain != domain {
			t.Errorf("Position %d: expected %q, got %q", i, domain, sources[i].Domain)
		}
	}
}

func TestStore_ByLeans_EmptyLeans(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	sources, err := s.ByLeans(context.Background(), nil, 60, 10)
	if err != nil {
		t.Fatalf("ByLeans failed: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("Expected no sources for empty lean set, got %d", len(sources))
	}
}

func TestStore_Query(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	minCred := 60.0
	sources, total, err := s.Query(context.Background(), QueryFilter{
		MinCredibility: &minCred,
		SourceType:     "news_media",
		Limit:          10,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected total 2, got %d", total)
	}
	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(sources))
	}
	if sources[0].Domain != "nytimes.com" || sources[1].Domain != "wsj.com" {
		t.Errorf("Expected nytimes.com then wsj.com, got %q then %q",
			sources[0].Domain, sources[1].Domain)
	}
}

func TestStore_Query_Pagination(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	first, total, err := s.Query(context.Background(), QueryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if total != 7 {
		t.Errorf("Expected total 7, got %d", total)
	}
	second, _, err := s.Query(context.Background(), QueryFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2 sources per page, got %d and %d", len(first), len(second))
	}
	if first[0].Domain == second[0].Domain {
		t.Error("Expected pages to differ")
	}
}

func TestStore_Query_LeanFilter(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	sources, total, err := s.Query(context.Background(), QueryFilter{Lean: iptr(0), Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if total != 2 || len(sources) != 2 {
		t.Fatalf("Expected 2 center sources, got total %d, len %d", total, len(sources))
	}
	for _, src := range sources {
		if src.PoliticalLean == nil || *src.PoliticalLean != 0 {
			t.Errorf("Expected center lean, got %v for %s", src.PoliticalLean, src.Domain)
		}
	}
}

func TestStore_Stats(t *testing.T) {
	s := testStore(t)
	seedSources(t, s)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSources != 7 {
		t.Errorf("Expected 7 total sources, got %d", stats.TotalSources)
	}
	if stats.WithCredibility != 6 {
		t.Errorf("Expected 6 rated sources, got %d", stats.WithCredibility)
	}
	if stats.WithPoliticalLean != 7 {
		t.Errorf("Expected 7 sources with lean, got %d", stats.WithPoliticalLean)
	}
	if stats.CredibilityTiers["high"] != 4 {
		t.Errorf("Expected 4 high-tier sources, got %d", stats.CredibilityTiers["high"])
	}
	if stats.CredibilityTiers["low"] != 2 {
		t.Errorf("Expected 2 low-tier sources, got %d", stats.CredibilityTiers["low"])
	}
	if stats.LeanDistribution["Center"] != 2 {
		t.Errorf("Expected 2 center sources, got %d", stats.LeanDistribution["Center"])
	}
	if stats.TypeDistribution["news_media"] != 4 {
		t.Errorf("Expected 4 news_media sources, got %d", stats.TypeDistribution["news_media"])
	}
}

func TestStore_Upsert_Replaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	src := &model.Source{Domain: "evolving.example", Name: "First", CredibilityScore: fptr(50)}
	if err := s.Upsert(ctx, src); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	src.Name = "Second"
	src.CredibilityScore = fptr(75)
	if err := s.Upsert(ctx, src); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := s.Lookup(ctx, "evolving.example")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Name != "Second" || *got.CredibilityScore != 75 {
		t.Errorf("Expected updated row, got %q / %v", got.Name, *got.CredibilityScore)
	}
}

func TestStore_Import_SkipsEmptyDomains(t *testing.T) {
	s := testStore(t)

	count, err := s.Import(context.Background(), []*model.Source{
		{Domain: "a.example"},
		{Domain: ""},
		nil,
		{Domain: "b.example"},
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 imported, got %d", count)
	}
}

func TestStore_UsageLogAndStats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	entries := []*model.UsageEntry{
		{APIName: "openrouter", Endpoint: "content_analyze", Model: "anthropic/claude-sonnet-4",
			InputTokens: 4000, OutputTokens: 1000, CostUSD: 0.027, URL: "https://a.example/1", Success: true},
		{APIName: "openrouter", Endpoint: "content_analyze", Model: "anthropic/claude-sonnet-4",
			InputTokens: 2000, OutputTokens: 500, CostUSD: 0.0135, URL: "https://a.example/2", Success: true},
		{APIName: "jina", Endpoint: "reader", URL: "https://a.example/3", Success: false,
			ErrorMessage: "timeout"},
	}
	for _, e := range entries {
		if err := s.LogUsage(ctx, e); err != nil {
			t.Fatalf("LogUsage failed: %v", err)
		}
	}

	stats, err := s.UsageStats(ctx, 30)
	if err != nil {
		t.Fatalf("UsageStats failed: %v", err)
	}
	if stats.Totals.TotalCalls != 3 {
		t.Errorf("Expected 3 calls, got %d", stats.Totals.TotalCalls)
	}
	if stats.Totals.SuccessfulCalls != 2 || stats.Totals.FailedCalls != 1 {
		t.Errorf("Expected 2 successful / 1 failed, got %d / %d",
			stats.Totals.SuccessfulCalls, stats.Totals.FailedCalls)
	}
	if stats.Totals.TotalInputTokens != 6000 {
		t.Errorf("Expected 6000 input tokens, got %d", stats.Totals.TotalInputTokens)
	}
	if len(stats.ByAPI) != 2 || stats.ByAPI[0].APIName != "openrouter" {
		t.Errorf("Expected openrouter first in by-API stats, got %+v", stats.ByAPI)
	}
	if len(stats.ByModel) != 1 || stats.ByModel[0].Calls != 2 {
		t.Errorf("Expected one model with 2 calls, got %+v", stats.ByModel)
	}
	if len(stats.Daily) != 1 {
		t.Errorf("Expected a single day bucket, got %d", len(stats.Daily))
	}
	if len(stats.TopExpensive) != 2 {
		t.Fatalf("Expected 2 expensive calls, got %d", len(stats.TopExpensive))
	}
	if stats.TopExpensive[0].CostUSD != 0.027 {
		t.Errorf("Expected costliest call first, got %v", stats.TopExpensive[0].CostUSD)
	}
}

func TestStore_UsageStats_Empty(t *testing.T) {
	s := testStore(t)

	stats, err := s.UsageStats(context.Background(), 7)
	if err != nil {
		t.Fatalf("UsageStats failed: %v", err)
	}
	if stats.Totals.TotalCalls != 0 || stats.Totals.TotalCostUSD != 0 {
		t.Errorf("Expected zeroed totals, got %+v", stats.Totals)
	}
	if stats.PeriodDays != 7 {
		t.Errorf("Expected period 7, got %d", stats.PeriodDays)
	}
}
