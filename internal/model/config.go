package model

import "time"

// Config is the full runtime configuration tree. Values are resolved
// in order: CLI flags, DECLARANT_* environment variables, config file
// (~/.declarant/config.yaml), then these defaults.
type Config struct {
	Output OutputConfig      `yaml:"output"`
	Server ServerConfig      `yaml:"server"`
	Cache  CacheConfig       `yaml:"cache"`
	LLM    LLMConfig         `yaml:"llm"`
	Rules  RulesConfig       `yaml:"rules"`
	Batch  ConcurrencyConfig `yaml:"batch"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	MaxUploadBytes    int64   `yaml:"max_upload_bytes"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// CacheConfig controls the in-memory dictionary cache used in serve mode.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// LLMConfig controls optional report summarization.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, ollama, or empty (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// RulesConfig controls the regulatory rule lookup.
type RulesConfig struct {
	// Path to a YAML ruleset overriding the built-in tables.
	Path string `yaml:"path"`
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			MaxUploadBytes:    10 << 20,
			RequestsPerSecond: 5,
			BurstSize:         10,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Model:     "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Rules: RulesConfig{},
		Batch: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
