package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/browseagent/internal/render"
	"github.com/diogo/browseagent/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the browser agent.

Each task is answered independently and grounded in a live web search.
Press Tab to move between the task and URL fields, Enter to send.
Commands: /clear, /copy, /export [path], /exit. Ctrl+C or Esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, flags)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, flags *globalFlags) error {
	rt, cleanup, err := deps.setup(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer cleanup()

	if rt.cfg.TUITheme != "" && !render.SetTUITheme(rt.cfg.TUITheme) {
		rt.logger.Warn("unknown tui theme, keeping default")
	}
	tui.UpdateTheme()

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}

	return deps.RunChat(rt.client, tui.Options{
		ModelName:  rt.model,
		Render:     render.OptionsFromConfig(rt.cfg),
		ExportDir:  exportDir,
		Hyperlinks: deps.StdoutTTY(),
		Logger:     rt.logger,
	})
}
