package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"sourcelens/internal/analyze"
	"sourcelens/internal/cache"
	"sourcelens/internal/counter"
	"sourcelens/internal/fetch"
	"sourcelens/internal/llm"
	"sourcelens/internal/model"
	"sourcelens/internal/score"
	"sourcelens/internal/store"
	"sourcelens/internal/usage"
	"sourcelens/internal/worker"
)

// app bundles the wired collaborators every command draws from.
type app struct {
	cfg      *model.Config
	store    *store.Store
	scorer   *score.Scorer
	selector *counter.Selector
	pipeline *analyze.Pipeline
	tracker  *usage.Tracker
	provider llm.Provider
	analyzer *llm.Analyzer
	fetcher  *fetch.Fetcher
}

// newApp loads configuration and wires the full dependency graph. The
// provider is nil when no LLM is configured; commands that need one must
// check.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open source database %s: %w", cfg.Store.Path, err)
	}

	tracker := usage.NewTracker(st)

	llmCfg := llm.ConfigFromModel(cfg.LLM)
	if llmCfg.APIKey == "" {
		llmCfg.APIKey = resolveAPIKey(llmCfg.Provider)
	}
	if llmCfg.Provider == "ollama" && llmCfg.BaseURL == "" {
		llmCfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.New(cfg.Cache)
	}
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	return &app{
		cfg:      cfg,
		store:    st,
		scorer:   score.NewScorer(),
		selector: counter.NewSelector(st),
		pipeline: analyze.New(st, cfg.Concurrency.Workers),
		tracker:  tracker,
		provider: provider,
		analyzer: llm.NewAnalyzer(provider, tracker, llmCfg),
		fetcher:  fetch.New(cfg.Fetch, c, limiter),
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() error {
	return a.store.Close()
}

// loadConfig layers the config file and environment over the defaults.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	return cfg, nil
}

// resolveAPIKey finds the conventional environment variable for a provider.
func resolveAPIKey(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "openrouter":
		return os.Getenv("OPENROUTER_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}
