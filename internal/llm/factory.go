package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates an LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "ollama":
		return NewOllamaProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "mock":
		return NewMockProvider(""), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: ollama, openai, mock)", config.Provider)
	}
}
