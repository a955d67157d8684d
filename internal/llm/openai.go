package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

const extractionSystemPrompt = "Você é um especialista em análise de incidentes. " +
	"Responda sempre com um único objeto JSON válido, sem texto adicional."

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the API is reachable with the configured key
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Generate produces text via the Chat Completions API
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) Response {
	llmModel := p.config.Model
	if llmModel == "" {
		llmModel = openai.GPT4oMini
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: llmModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: extractionSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: float32(p.config.Temperature),
		TopP:        float32(p.config.TopP),
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Response{Success: false, Err: fmt.Errorf("%w: %v", model.ErrTimeout, err)}
		}
		return Response{Success: false, Err: fmt.Errorf("%w: %v", model.ErrServiceUnavailable, err)}
	}

	if len(resp.Choices) == 0 {
		return Response{Success: false, Err: fmt.Errorf("%w: no choices returned", model.ErrServiceUnavailable)}
	}

	return Response{Text: strings.TrimSpace(resp.Choices[0].Message.Content), Success: true}
}
