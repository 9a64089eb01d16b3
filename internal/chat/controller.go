package chat

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/diogo/browseagent/internal/api"
	apierrors "github.com/diogo/browseagent/internal/errors"
)

// ErrBusy is returned when a submit arrives while a request is in flight
var ErrBusy = errors.New("a request is already in progress")

// Controller owns one session State and runs submissions against a Searcher.
// It is safe for concurrent use; at most one request is in flight.
type Controller struct {
	mu       sync.Mutex
	state    State
	searcher api.Searcher
	logger   *zap.Logger
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithLogger sets the logger used for session events
func WithLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller in the initial state
func NewController(searcher api.Searcher, opts ...ControllerOption) *Controller {
	c := &Controller{
		state:    New(),
		searcher: searcher,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the session
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Submit appends the task, calls the searcher and records the outcome.
// Adapter failures are not returned: they end up in the transcript and in
// LastError. The returned error is ErrBusy when another request is in
// flight, or a validation error for a blank task; in both cases nothing
// is appended and no call is made.
func (c *Controller) Submit(ctx context.Context, task, url string) (State, error) {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return c.State(), ErrBusy
	}

	pending := SetPendingURL(SetPendingTask(c.state, task), url)
	next, req, ok := Submit(pending)
	if !ok {
		c.mu.Unlock()
		return c.State(), apierrors.NewValidationError("task", apierrors.ErrEmptyTask)
	}
	c.state = next
	c.mu.Unlock()

	c.logger.Debug("request started", zap.Uint64("seq", req.Seq), zap.Bool("has_url", req.URL != ""))
	result, err := c.searcher.BrowseAndAnswer(ctx, req.URL, req.Task)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.InFlight() != req.Seq {
		c.logger.Debug("dropping late result", zap.Uint64("seq", req.Seq))
		return c.state.Snapshot(), nil
	}
	c.state = Resolve(c.state, req.Seq, result, err)
	if c.state.HasError() {
		c.logger.Info("request failed", zap.Uint64("seq", req.Seq), zap.String("error", c.state.LastError))
	} else {
		c.logger.Debug("request completed", zap.Uint64("seq", req.Seq))
	}
	return c.state.Snapshot(), nil
}

// Reset discards the transcript. A request still in flight keeps running but
// its result is dropped.
func (c *Controller) Reset() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reset(c.state)
	return c.state.Snapshot()
}
