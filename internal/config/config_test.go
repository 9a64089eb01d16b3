package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apierrors "github.com/diogo/browseagent/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultModel != "gemini-2.5-flash" {
		t.Errorf("Expected default model to be 'gemini-2.5-flash', got '%s'", cfg.DefaultModel)
	}
	if cfg.Backend != "genai" {
		t.Errorf("Expected default backend to be 'genai', got '%s'", cfg.Backend)
	}
	if cfg.Verbose {
		t.Errorf("Expected Verbose to be false, got %v", cfg.Verbose)
	}
	if cfg.Markdown.Style != "dark" {
		t.Errorf("Expected markdown style 'dark', got '%s'", cfg.Markdown.Style)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".browseagent", "config.json")
	if path != want {
		t.Errorf("GetConfigPath() = %s, want %s", path, want)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.DefaultModel != DefaultConfig().DefaultModel {
		t.Errorf("Expected defaults, got model %s", cfg.DefaultModel)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.DefaultModel = "gemini-2.5-pro"
	cfg.Backend = "rest"
	cfg.Verbose = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".browseagent", "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file permissions = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.DefaultModel != "gemini-2.5-pro" || loaded.Backend != "rest" || !loaded.Verbose {
		t.Errorf("LoadConfig() = %+v, want saved values", loaded)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".browseagent")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(map[string]any{"backend": "rest"})
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Backend != "rest" {
		t.Errorf("Backend = %s, want rest", cfg.Backend)
	}
	if cfg.DefaultModel != "gemini-2.5-flash" {
		t.Errorf("DefaultModel = %s, want default", cfg.DefaultModel)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".browseagent")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("Expected parse error")
	}
	if cfg.DefaultModel != DefaultConfig().DefaultModel {
		t.Error("Expected defaults on parse error")
	}
}

func TestLoadAPIKey(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		t.Setenv("API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")

		_, err := LoadAPIKey()
		if err == nil {
			t.Fatal("Expected error when no key is set")
		}
		if !apierrors.IsConfigurationError(err) {
			t.Errorf("Expected configuration error, got %T", err)
		}
		if !errors.Is(err, apierrors.ErrMissingAPIKey) {
			t.Error("Expected errors.Is(err, ErrMissingAPIKey)")
		}
	})

	t.Run("primary", func(t *testing.T) {
		t.Setenv("API_KEY", "  key-1 ")
		t.Setenv("GEMINI_API_KEY", "key-2")

		key, err := LoadAPIKey()
		if err != nil {
			t.Fatalf("LoadAPIKey() returned error: %v", err)
		}
		if key != "key-1" {
			t.Errorf("LoadAPIKey() = %q, want key-1", key)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		t.Setenv("API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "key-2")

		key, err := LoadAPIKey()
		if err != nil {
			t.Fatalf("LoadAPIKey() returned error: %v", err)
		}
		if key != "key-2" {
			t.Errorf("LoadAPIKey() = %q, want key-2", key)
		}
	})
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"default_model", "gemini-2.5-pro", false, func(c Config) bool { return c.DefaultModel == "gemini-2.5-pro" }},
		{"default_model", " ", true, nil},
		{"backend", "rest", false, func(c Config) bool { return c.Backend == "rest" }},
		{"backend", "carrier-pigeon", true, nil},
		{"verbose", "true", false, func(c Config) bool { return c.Verbose }},
		{"verbose", "maybe", true, nil},
		{"copy_to_clipboard", "1", false, func(c Config) bool { return c.CopyToClipboard }},
		{"markdown.style", "light", false, func(c Config) bool { return c.Markdown.Style == "light" }},
		{"listen_addr", ":9000", false, func(c Config) bool { return c.ListenAddr == ":9000" }},
		{"nope", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%s, %s) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestKeysAreSettable(t *testing.T) {
	for _, key := range Keys() {
		cfg := DefaultConfig()
		value := "x"
		switch key {
		case "verbose", "copy_to_clipboard":
			value = "false"
		case "backend":
			value = "genai"
		}
		if err := cfg.Set(key, value); err != nil {
			t.Errorf("Set(%s) returned error: %v", key, err)
		}
	}
}
