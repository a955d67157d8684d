package llm

import (
	"context"
	"sync"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

const defaultMockResponse = `{"data_ocorrencia": "2025-08-20 14:00", "local": "São Paulo", ` +
	`"tipo_incidente": "Falha no servidor", "impacto": "Sistema indisponível por 2 horas"}`

// MockProvider is a deterministic in-process provider used for tests
// and offline runs. It is safe for concurrent use.
type MockProvider struct {
	mu        sync.RWMutex
	response  string
	available bool
}

// NewMockProvider creates a mock provider with a canned JSON response.
func NewMockProvider(response string) *MockProvider {
	if response == "" {
		response = defaultMockResponse
	}
	return &MockProvider{response: response, available: true}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// IsAvailable reports the configured availability
func (p *MockProvider) IsAvailable(_ context.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.available
}

// Generate returns the canned response, or a failure when marked
// unavailable.
func (p *MockProvider) Generate(_ context.Context, _ string) Response {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.available {
		return Response{Success: false, Err: model.ErrServiceUnavailable}
	}
	return Response{Text: p.response, Success: true}
}

// SetResponse replaces the canned response.
func (p *MockProvider) SetResponse(response string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.response = response
}

// SetAvailable toggles the mock availability.
func (p *MockProvider) SetAvailable(available bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = available
}
