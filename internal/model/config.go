package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the full runtime configuration. Values come from defaults,
// then the config file, then SOURCELENS_* environment variables, then flags.
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Fetch       FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Counter     CounterConfig     `yaml:"counternarratives" mapstructure:"counternarratives"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig locates the source repository database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig drives the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// FetchConfig drives article content retrieval.
type FetchConfig struct {
	ReaderBase    string        `yaml:"reader_base" mapstructure:"reader_base"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// LLMConfig selects and tunes the completion provider. An empty provider
// disables every LLM-backed feature; lookup and scoring never need one.
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"`
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"-" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig drives the fetched-content cache. An empty Dir keeps the
// cache memory-only.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	Workers    int `yaml:"workers" mapstructure:"workers"`
	BatchLimit int `yaml:"batch_limit" mapstructure:"batch_limit"`
}

// RateLimitConfig throttles outbound fetches per remote host.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CounterConfig sets counternarrative selection defaults.
type CounterConfig struct {
	MinCredibility float64 `yaml:"min_credibility" mapstructure:"min_credibility"`
	Limit          int     `yaml:"limit" mapstructure:"limit"`
}

// LogConfig tunes server logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = ".cache"
	}
	return &Config{
		Store: StoreConfig{
			Path: "sources.db",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Fetch: FetchConfig{
			ReaderBase:    "https://r.jina.ai/",
			Timeout:       30 * time.Second,
			UserAgent:     "sourcelens/1.0",
			MaxBodyBytes:  2 << 20,
			RespectRobots: true,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   120 * time.Second,
			MaxTokens: 2000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(cacheDir, "sourcelens"),
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:    runtime.NumCPU(),
			BatchLimit: 50,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Counter: CounterConfig{
			MinCredibility: 60,
			Limit:          10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
