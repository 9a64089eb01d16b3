package api

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/diogo/browseagent/internal/models"
)

// Generator performs one grounded generation request against a backend.
// Sources are returned unfiltered, in the order the API produced them.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (*models.SearchResult, error)
}

// Searcher is the adapter contract consumed by the chat layer
type Searcher interface {
	BrowseAndAnswer(ctx context.Context, url, task string) (*models.SearchResult, error)
}

// ErrUnsupportedBackend is returned for an unknown backend name
type ErrUnsupportedBackend struct {
	Backend string
}

func (e ErrUnsupportedBackend) Error() string {
	return fmt.Sprintf("unsupported backend: %s", e.Backend)
}

// Client is the search adapter: it builds the prompt, calls the backend and
// maps the response into a SearchResult.
type Client struct {
	generator Generator
	model     string
	logger    *zap.Logger
	mu        sync.RWMutex
}

// Ensure Client implements Searcher
var _ Searcher = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithModel sets the model for the client
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Client around a backend generator
func NewClient(generator Generator, opts ...ClientOption) (*Client, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}

	client := &Client{
		generator: generator,
		model:     models.DefaultModel,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BackendConfig selects and configures a backend generator
type BackendConfig struct {
	Backend string
	APIKey  string
	BaseURL string
}

// NewGenerator creates the generator for the configured backend
func NewGenerator(ctx context.Context, cfg BackendConfig) (Generator, error) {
	switch cfg.Backend {
	case models.BackendGenAI, "":
		return NewGenAIGenerator(ctx, cfg.APIKey)
	case models.BackendREST:
		return NewRESTGenerator(cfg.APIKey, cfg.BaseURL)
	default:
		return nil, ErrUnsupportedBackend{Backend: cfg.Backend}
	}
}

// GetModel returns the model used for requests
func (c *Client) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the model used for requests
func (c *Client) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}
