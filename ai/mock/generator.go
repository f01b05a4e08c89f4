package mock

import (
	"context"
	"strings"

	"github.com/jovianatlas/moonatlas/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default canned behavior.
	GenerateFunc func(ctx context.Context, system string, history []core.Message, finalTurn string) (string, error)

	// Answer is returned by the default behavior. If empty, the default
	// behavior echoes the final turn.
	Answer string

	callCount   int
	lastSystem  string
	lastHistory []core.Message
	lastTurn    string
}

// NewMockGenerator creates a mock generator with default canned behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records its arguments and returns the configured answer.
func (m *MockGenerator) Generate(ctx context.Context, system string, history []core.Message, finalTurn string) (string, error) {
	m.callCount++
	m.lastSystem = system
	m.lastHistory = history
	m.lastTurn = finalTurn

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, history, finalTurn)
	}
	if m.Answer != "" {
		return m.Answer, nil
	}
	return "echo: " + strings.TrimSpace(finalTurn), nil
}

// CallCount returns the number of Generate calls.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastSystem returns the system instruction from the most recent call.
func (m *MockGenerator) LastSystem() string {
	return m.lastSystem
}

// LastHistory returns the history from the most recent call.
func (m *MockGenerator) LastHistory() []core.Message {
	return m.lastHistory
}

// LastFinalTurn returns the final turn from the most recent call.
func (m *MockGenerator) LastFinalTurn() string {
	return m.lastTurn
}
