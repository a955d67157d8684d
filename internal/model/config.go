package model

import "time"

// Config holds the complete process configuration. It is loaded once at
// startup and passed explicitly into each component constructor.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig holds HTTP transport settings
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// LLMConfig holds language-model gateway settings
type LLMConfig struct {
	// Provider name: "ollama", "openai", "mock"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model name (provider-specific, e.g. "llama3.1:8b")
	Model string `yaml:"model" mapstructure:"model"`

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// APIKey for OpenAI
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// Timeout per generate call, seconds
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// Sampling options sent to the backend
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	TopP        float64 `yaml:"top_p" mapstructure:"top_p"`

	// Proxy settings for outbound HTTP
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// ExtractionConfig holds pipeline settings
type ExtractionConfig struct {
	// MaxRetries is the retry budget after the first generate call
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// MinDescriptionLength / MaxDescriptionLength bound the inbound text
	MinDescriptionLength int `yaml:"min_description_length" mapstructure:"min_description_length"`
	MaxDescriptionLength int `yaml:"max_description_length" mapstructure:"max_description_length"`

	// NormalizeText toggles lexical normalization before prompting
	NormalizeText bool `yaml:"normalize_text" mapstructure:"normalize_text"`
}

// RateLimitConfig holds per-client request limiting settings
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig holds in-memory cache settings
type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// ProbeTTL caches gateway availability probes
	ProbeTTL time.Duration `yaml:"probe_ttl" mapstructure:"probe_ttl"`

	// ResultTTL caches extraction results for identical descriptions
	ResultTTL time.Duration `yaml:"result_ttl" mapstructure:"result_ttl"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "llama3.1:8b",
			BaseURL:     "http://localhost:11434",
			Timeout:     30,
			Temperature: 0.1,
			TopP:        0.9,
		},
		Extraction: ExtractionConfig{
			MaxRetries:           2,
			MinDescriptionLength: 10,
			MaxDescriptionLength: 2000,
			NormalizeText:        true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Cache: CacheConfig{
			Enabled:   true,
			ProbeTTL:  30 * time.Second,
			ResultTTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
