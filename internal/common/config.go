package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Scraper     ScraperConfig   `toml:"scraper"`
	Pipeline    PipelineConfig  `toml:"pipeline"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Retention   RetentionConfig `toml:"retention"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger    BadgerConfig    `toml:"badger"`
	Documents DocumentsConfig `toml:"documents"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// DocumentsConfig configures where rendered brand documents are written
type DocumentsConfig struct {
	Dir string `toml:"dir"` // Output directory for generated PDFs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// ScraperConfig contains browser rendering and asset collection configuration
type ScraperConfig struct {
	UserAgent          string        `toml:"user_agent"`           // User agent for page renders and asset downloads
	Headless           bool          `toml:"headless"`             // Run Chrome headless
	NoSandbox          bool          `toml:"no_sandbox"`           // Disable Chrome sandbox (containers)
	BrowserInstances   int           `toml:"browser_instances"`    // Browser pool size
	MaxPages           int           `toml:"max_pages"`            // Page cap per scrape, root page included
	MaxConcurrency     int           `toml:"max_concurrency"`      // Concurrent asset downloads per scrape
	PageTimeout        time.Duration `toml:"page_timeout"`         // Timeout for a single page render
	JavaScriptWaitTime time.Duration `toml:"javascript_wait_time"` // Settle time after navigation
	AssetTimeBudget    time.Duration `toml:"asset_time_budget"`    // Wall-clock budget for all asset downloads
	MaxAssetSize       int64         `toml:"max_asset_size"`       // Per-asset byte cap
	MaxStylesheets     int           `toml:"max_stylesheets"`      // Stylesheet download cap
	MaxImages          int           `toml:"max_images"`           // Image download cap
	MaxFonts           int           `toml:"max_fonts"`            // Font download cap
	RequestTimeout     time.Duration `toml:"request_timeout"`      // HTTP timeout per asset request
	RequestsPerSecond  float64       `toml:"requests_per_second"`  // Asset download rate limit
}

// PipelineConfig contains job execution configuration
type PipelineConfig struct {
	Workers      int           `toml:"workers"`       // Concurrent pipeline workers
	QueueSize    int           `toml:"queue_size"`    // Pending job buffer size
	StageTimeout time.Duration `toml:"stage_timeout"` // Timeout applied to each stage
	JobTimeout   time.Duration `toml:"job_timeout"`   // End-to-end budget for one job
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for generation (default: "gemini-3-flash-preview")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for generation (default: "claude-sonnet-4-20250514")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "claude" or "gemini" (default: "claude")
	MaxRetries      int         `toml:"max_retries"`      // Schema-validation retry bound (default: 2)
}

// RetentionConfig controls cleanup of generated documents
type RetentionConfig struct {
	Hours    int    `toml:"hours"`    // Document retention in hours (default: 24)
	Schedule string `toml:"schedule"` // Cron schedule for the cleanup run
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
			Documents: DocumentsConfig{
				Dir: "./data/documents",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Scraper: ScraperConfig{
			UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Headless:           true,
			NoSandbox:          false,
			BrowserInstances:   2,
			MaxPages:           4,
			MaxConcurrency:     5,
			PageTimeout:        30 * time.Second,
			JavaScriptWaitTime: 2 * time.Second,
			AssetTimeBudget:    25 * time.Second,
			MaxAssetSize:       10 * 1024 * 1024, // 10MB
			MaxStylesheets:     10,
			MaxImages:          8,
			MaxFonts:           6,
			RequestTimeout:     15 * time.Second,
			RequestsPerSecond:  10,
		},
		Pipeline: PipelineConfig{
			Workers:      4,
			QueueSize:    64,
			StageTimeout: 60 * time.Second,
			JobTimeout:   2 * time.Minute,
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-3-flash-preview",
			Timeout:     "60s",
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   4096,
			Timeout:     "60s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
			MaxRetries:      2,
		},
		Retention: RetentionConfig{
			Hours:    24,
			Schedule: "0 0 * * * *", // hourly
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BRANDFORGE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("BRANDFORGE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("BRANDFORGE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("BRANDFORGE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if docsDir := os.Getenv("BRANDFORGE_DOCUMENTS_DIR"); docsDir != "" {
		config.Storage.Documents.Dir = docsDir
	}

	if level := os.Getenv("BRANDFORGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("BRANDFORGE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if workers := os.Getenv("BRANDFORGE_PIPELINE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			config.Pipeline.Workers = w
		}
	}

	// API keys follow the provider SDK conventions first, then the app prefix
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("BRANDFORGE_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("BRANDFORGE_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}

	if provider := os.Getenv("BRANDFORGE_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("pipeline workers must be greater than 0, got: %d", c.Pipeline.Workers)
	}
	if c.Scraper.MaxPages <= 0 {
		return fmt.Errorf("scraper max_pages must be greater than 0, got: %d", c.Scraper.MaxPages)
	}
	switch c.LLM.DefaultProvider {
	case LLMProviderClaude, LLMProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLM.DefaultProvider)
	}
	return nil
}
