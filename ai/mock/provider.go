package mock

import "github.com/jovianatlas/moonatlas/ai"

// MockProvider aggregates mock AI services for testing.
type MockProvider struct {
	embedder  *MockEmbedder
	generator *MockGenerator
}

// NewMockProvider creates a provider backed by default mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		generator: NewMockGenerator(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the mock chat completion service.
func (p *MockProvider) Generator() ai.Generator {
	return p.generator
}

// Close releases nothing; mocks hold no resources.
func (p *MockProvider) Close() error {
	return nil
}

// MockEmbedder returns the concrete mock for test assertions.
func (p *MockProvider) MockEmbedder() *MockEmbedder {
	return p.embedder
}

// MockGenerator returns the concrete mock for test assertions.
func (p *MockProvider) MockGenerator() *MockGenerator {
	return p.generator
}
