// Package config handles configuration and credentials for browseagent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apierrors "github.com/diogo/browseagent/internal/errors"
	"github.com/diogo/browseagent/internal/models"
)

// Environment variables holding the API credential, in lookup order
var APIKeyEnvVars = []string{"API_KEY", "GEMINI_API_KEY"}

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "dracula", ...
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	DefaultModel string `json:"default_model"`
	// Backend selects the transport used to reach the API: "genai" uses the
	// official SDK, "rest" posts JSON directly.
	Backend string `json:"backend"`
	// BaseURL overrides the REST endpoint root (rest backend only).
	BaseURL string `json:"base_url,omitempty"`
	// Verbose lowers the log level to debug.
	Verbose         bool   `json:"verbose"`
	CopyToClipboard bool   `json:"copy_to_clipboard"`
	TUITheme        string `json:"tui_theme,omitempty"`
	// LogFile receives structured logs. The terminal is left to the UI.
	LogFile    string         `json:"log_file,omitempty"`
	ListenAddr string         `json:"listen_addr,omitempty"`
	Markdown   MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	logFile := ""
	if dir, err := GetConfigDir(); err == nil {
		logFile = filepath.Join(dir, "browseagent.log")
	}
	return Config{
		DefaultModel:    models.DefaultModel,
		Backend:         models.BackendGenAI,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		LogFile:         logFile,
		ListenAddr:      "127.0.0.1:8787",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".browseagent"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadAPIKey reads the API credential from the environment. A missing key is
// a fatal configuration error.
func LoadAPIKey() (string, error) {
	for _, name := range APIKeyEnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", apierrors.NewConfigurationError("", apierrors.ErrMissingAPIKey)
}

// Set updates a single configuration field by its JSON key
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_model":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("default_model cannot be empty")
		}
		c.DefaultModel = value
	case "backend":
		if !models.IsKnownBackend(value) {
			return fmt.Errorf("unknown backend %q (available: %s)", value, strings.Join(models.AvailableBackends(), ", "))
		}
		c.Backend = value
	case "base_url":
		c.BaseURL = value
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose: %w", err)
		}
		c.Verbose = b
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard: %w", err)
		}
		c.CopyToClipboard = b
	case "tui_theme":
		c.TUITheme = value
	case "log_file":
		c.LogFile = value
	case "listen_addr":
		c.ListenAddr = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Keys returns the configuration keys accepted by Set
func Keys() []string {
	return []string{
		"default_model",
		"backend",
		"base_url",
		"verbose",
		"copy_to_clipboard",
		"tui_theme",
		"log_file",
		"listen_addr",
		"markdown.style",
	}
}
