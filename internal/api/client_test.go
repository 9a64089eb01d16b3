package api

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/diogo/browseagent/internal/models"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(&MockGenerator{})
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	if client.GetModel() != models.DefaultModel {
		t.Errorf("GetModel() = %s, want %s", client.GetModel(), models.DefaultModel)
	}
}

func TestNewClient_NilGenerator(t *testing.T) {
	if _, err := NewClient(nil); err == nil {
		t.Error("Expected error for nil generator")
	}
}

func TestClientOptions(t *testing.T) {
	client, err := NewClient(&MockGenerator{},
		WithModel("gemini-2.5-pro"),
		WithLogger(zap.NewExample()),
		WithModel(""),
		WithLogger(nil),
	)
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	if client.GetModel() != "gemini-2.5-pro" {
		t.Errorf("GetModel() = %s, empty model option should be ignored", client.GetModel())
	}
	if client.logger == nil {
		t.Error("nil logger option should be ignored")
	}

	client.SetModel("gemini-2.5-flash-lite")
	if client.GetModel() != "gemini-2.5-flash-lite" {
		t.Errorf("SetModel() not applied, got %s", client.GetModel())
	}
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BackendConfig
		wantErr bool
		check   func(Generator) bool
	}{
		{
			name:  "rest",
			cfg:   BackendConfig{Backend: models.BackendREST, APIKey: "k"},
			check: func(g Generator) bool { _, ok := g.(*RESTGenerator); return ok },
		},
		{
			name:    "rest without key",
			cfg:     BackendConfig{Backend: models.BackendREST},
			wantErr: true,
		},
		{
			name:    "genai without key",
			cfg:     BackendConfig{Backend: models.BackendGenAI},
			wantErr: true,
		},
		{
			name:    "unknown",
			cfg:     BackendConfig{Backend: "smoke-signals", APIKey: "k"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewGenerator() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(g) {
				t.Errorf("NewGenerator() returned %T", g)
			}
		})
	}
}

func TestErrUnsupportedBackend(t *testing.T) {
	_, err := NewGenerator(context.Background(), BackendConfig{Backend: "x", APIKey: "k"})
	var unsupported ErrUnsupportedBackend
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrUnsupportedBackend, got %T", err)
	}
	if unsupported.Error() != "unsupported backend: x" {
		t.Errorf("Error() = %s", unsupported.Error())
	}
}
