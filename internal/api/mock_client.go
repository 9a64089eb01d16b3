package api

import (
	"context"
	"sync"

	"github.com/diogo/browseagent/internal/models"
)

// MockGenerator is a Generator for tests
type MockGenerator struct {
	// Mock return values
	Result     *models.SearchResult
	Err        error
	PanicValue any

	// Block, when set, holds Generate until it is closed or ctx is done.
	// Started receives one value per call once Generate is entered.
	Block   chan struct{}
	Started chan struct{}

	mu         sync.Mutex
	calls      int
	lastModel  string
	lastPrompt string
}

// Ensure MockGenerator implements Generator
var _ Generator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(ctx context.Context, model, prompt string) (*models.SearchResult, error) {
	m.mu.Lock()
	m.calls++
	m.lastModel = model
	m.lastPrompt = prompt
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.PanicValue != nil {
		panic(m.PanicValue)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// Calls returns how many times Generate was invoked
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the prompt of the most recent call
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// LastModel returns the model of the most recent call
func (m *MockGenerator) LastModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastModel
}
