package remote

import (
	"context"
	"sync"
)

// Mock is a test double for Controller.
type Mock struct {
	mu      sync.Mutex
	actions []string
	err     error
}

// NewMock creates a mock controller that accepts every action.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Send(_ context.Context, action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
	return m.err
}

// Test helpers

func (m *Mock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Mock) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.actions...)
}

// Verify Mock implements Controller at compile time.
var _ Controller = (*Mock)(nil)
