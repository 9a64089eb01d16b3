// Package commands provides CLI commands for browseagent.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/browseagent/internal/models"
)

// BuildTime is set at build time
var BuildTime = "unknown"

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &globalFlags{}
	var (
		urlFlag    string
		outputFlag string
		fileFlag   string
	)

	rootCmd := &cobra.Command{
		Use:   "browseagent [task]",
		Short: "AI browser agent grounded in live web search",
		Long: `browseagent answers natural-language tasks with a Gemini model that is
grounded in Google Search, and lists the web sources the answer used.

Examples:
  browseagent chat                                  Start interactive chat
  browseagent "What is the capital of France?"      Send a single task
  browseagent -u https://go.dev/blog "Summarize"    Give the agent a context URL
  browseagent -f task.md                            Read the task from a file
  cat task.md | browseagent                         Read the task from stdin
  browseagent "Latest Go release" -o answer.md      Save the answer to a file
  browseagent serve                                 Expose the session over HTTP`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "browseagent %s (built %s)\n", models.Version, BuildTime)
				return nil
			}

			in := queryInput{url: urlFlag, output: outputFlag}
			raw := !deps.StdoutTTY()

			switch {
			case fileFlag != "":
				data, err := os.ReadFile(fileFlag)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				in.task = string(data)
			case deps.StdinPiped():
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				in.task = string(data)
			case len(args) > 0:
				in.task = args[0]
			default:
				return cmd.Help()
			}

			return runQuery(cmd.Context(), deps, flags, in, raw)
		},
	}

	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.PersistentFlags().StringVarP(&flags.model, "model", "m", "",
		"Model to use (e.g. gemini-2.5-flash, gemini-2.5-pro)")
	rootCmd.PersistentFlags().StringVar(&flags.backend, "backend", "",
		"API transport: genai or rest")

	rootCmd.Flags().StringVarP(&urlFlag, "url", "u", "", "Context URL the agent should focus on")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the answer to a file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the task from a file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(NewChatCmd(deps, flags))
	rootCmd.AddCommand(NewConfigCmd(deps))
	rootCmd.AddCommand(NewServeCmd(deps, flags))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd(NewDependencies()).ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		}
		os.Exit(1)
	}
}
