package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/diogo/browseagent/internal/api"
	"github.com/diogo/browseagent/internal/config"
	"github.com/diogo/browseagent/internal/logging"
	"github.com/diogo/browseagent/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	LoadConfig   func() (config.Config, error)
	SaveConfig   func(config.Config) error
	LoadAPIKey   func() (string, error)
	NewGenerator func(ctx context.Context, cfg api.BackendConfig) (api.Generator, error)
	NewLogger    func(cfg config.Config) (*zap.Logger, error)
	RunChat      func(searcher api.Searcher, opts tui.Options) error
	Copy         func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinPiped reports whether input is being piped in
	StdinPiped func() bool
	// StdoutTTY reports whether decorated output should be used
	StdoutTTY func() bool
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:   config.LoadConfig,
		SaveConfig:   config.SaveConfig,
		LoadAPIKey:   config.LoadAPIKey,
		NewGenerator: api.NewGenerator,
		NewLogger:    logging.New,
		RunChat:      tui.RunChat,
		Copy:         clipboard.WriteAll,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		StdinPiped:   isStdinPiped,
		StdoutTTY:    isStdoutTTY,
	}
}

// globalFlags are the flags shared by every command
type globalFlags struct {
	model   string
	backend string
}

// runtime is everything a command needs to talk to the API
type runtime struct {
	cfg    config.Config
	model  string
	logger *zap.Logger
	client *api.Client
}

// setup loads configuration, validates the credential and builds the client.
// A missing API key fails here, before any UI is started.
func (d *Dependencies) setup(ctx context.Context, flags *globalFlags) (*runtime, func(), error) {
	cfg, err := d.LoadConfig()
	if err != nil {
		fmt.Fprintf(d.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if flags.model != "" {
		cfg.DefaultModel = flags.model
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}

	apiKey, err := d.LoadAPIKey()
	if err != nil {
		return nil, nil, err
	}

	logger, err := d.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(d.Stderr, "Warning: logging disabled: %v\n", err)
		logger = zap.NewNop()
	}
	cleanup := func() { _ = logger.Sync() }

	gen, err := d.NewGenerator(ctx, api.BackendConfig{
		Backend: cfg.Backend,
		APIKey:  apiKey,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create %s backend: %w", cfg.Backend, err)
	}

	client, err := api.NewClient(gen, api.WithModel(cfg.DefaultModel), api.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug("client ready",
		zap.String("backend", cfg.Backend),
		zap.String("model", client.GetModel()))

	return &runtime{
		cfg:    cfg,
		model:  client.GetModel(),
		logger: logger,
		client: client,
	}, cleanup, nil
}
