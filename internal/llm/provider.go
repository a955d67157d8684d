// Package llm abstracts over language-model backends. The extraction
// pipeline only depends on the Provider interface; concrete providers
// (Ollama, OpenAI, deterministic mock) are selected by the factory.
package llm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

// Response is the gateway contract for a generate call. When Success is
// false, Text is ignored by all downstream stages and Err carries a
// typed failure (model.ErrTimeout, model.ErrServiceUnavailable, ...).
type Response struct {
	Text    string
	Success bool
	Err     error
}

// Provider defines the interface for LLM backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces raw text for the given prompt. Failures are
	// reported in the Response, never panicked.
	Generate(ctx context.Context, prompt string) Response

	// IsAvailable checks if the backend is reachable and the configured
	// model is installed
	IsAvailable(ctx context.Context) bool
}

// Config holds provider configuration
type Config struct {
	// Provider name: "ollama", "openai", "mock"
	Provider string

	// Model name (provider-specific)
	Model string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// APIKey for OpenAI
	APIKey string

	// Timeout per generate call, seconds
	Timeout int

	// Sampling options. Low temperature keeps extraction consistent.
	Temperature float64
	TopP        float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "ollama",
		BaseURL:     "http://localhost:11434",
		Timeout:     30,
		Temperature: 0.1,
		TopP:        0.9,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:    mc.Provider,
		Model:       mc.Model,
		BaseURL:     mc.BaseURL,
		APIKey:      mc.APIKey,
		Timeout:     mc.Timeout,
		Temperature: mc.Temperature,
		TopP:        mc.TopP,
		HTTPProxy:   mc.HTTPProxy,
		HTTPSProxy:  mc.HTTPSProxy,
	}
}

// newProxyFunc builds a proxy resolver from configuration, falling back
// to the process environment.
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
