package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/browseagent/internal/config"
	"github.com/diogo/browseagent/internal/render"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change browseagent settings stored in ~/.browseagent/config.json.

The API key is never stored on disk. Export API_KEY (or GEMINI_API_KEY) instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(deps)
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(deps)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a configuration value",
		Long:  "Change a configuration value.\n\nKeys: " + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfig(deps, args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List markdown and TUI themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(deps.Stdout, "Markdown styles:")
			for _, t := range render.AvailableThemes() {
				fmt.Fprintf(deps.Stdout, "  %-12s %s\n", t.Name, t.Description)
			}
			fmt.Fprintln(deps.Stdout, "TUI themes:")
			for _, name := range render.TUIThemeNames() {
				fmt.Fprintf(deps.Stdout, "  %s\n", name)
			}
			return nil
		},
	})

	return configCmd
}

func showConfig(deps *Dependencies) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(data))

	status := "not set"
	if _, err := deps.LoadAPIKey(); err == nil {
		status = "set"
	}
	fmt.Fprintf(deps.Stdout, "API key: %s\n", status)
	return nil
}

func setConfig(deps *Dependencies, key, value string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return err
	}

	if key == "tui_theme" {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown tui theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}
	if key == "markdown.style" {
		if _, statErr := os.Stat(value); !render.IsBuiltinStyle(value) && statErr != nil {
			return fmt.Errorf("unknown markdown style %q (available: %s, or a JSON style file)", value, strings.Join(render.ThemeNames(), ", "))
		}
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := deps.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s = %s\n", key, value)
	return nil
}
