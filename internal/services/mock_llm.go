package services

import (
	"context"
	"sync"

	"github.com/timonchiklol/console-rpg/pkg/chat"
)

// MockLLM is a mock implementation of LLMService for testing.
type MockLLM struct {
	GenerateTurnFunc func(ctx context.Context, messages []chat.ChatMessage) (*chat.TurnResponse, error)

	// Track calls for testing
	GenerateTurnCalls [][]chat.ChatMessage

	mu sync.Mutex // protects all fields above
}

var _ LLMService = (*MockLLM)(nil)

// NewMockLLM creates a new mock LLM service.
func NewMockLLM() *MockLLM {
	return &MockLLM{
		GenerateTurnCalls: make([][]chat.ChatMessage, 0),
	}
}

// GenerateTurn mocks turn generation. The default reply is plain narration
// with no mechanical effects.
func (m *MockLLM) GenerateTurn(ctx context.Context, messages []chat.ChatMessage) (*chat.TurnResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateTurnCalls = append(m.GenerateTurnCalls, messages)

	if m.GenerateTurnFunc != nil {
		return m.GenerateTurnFunc(ctx, messages)
	}
	return &chat.TurnResponse{Message: "Mock narration"}, nil
}

// SetResponse sets up the mock to always return the given turn.
func (m *MockLLM) SetResponse(tr *chat.TurnResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateTurnFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.TurnResponse, error) {
		return tr, nil
	}
}

// SetError sets up the mock to return an error on GenerateTurn.
func (m *MockLLM) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateTurnFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.TurnResponse, error) {
		return nil, err
	}
}

// Calls returns a copy of the recorded GenerateTurn calls.
func (m *MockLLM) Calls() [][]chat.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([][]chat.ChatMessage, len(m.GenerateTurnCalls))
	copy(calls, m.GenerateTurnCalls)
	return calls
}

// Reset clears all call tracking.
func (m *MockLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateTurnCalls = make([][]chat.ChatMessage, 0)
	m.GenerateTurnFunc = nil
}
