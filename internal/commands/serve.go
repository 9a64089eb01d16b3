package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/browseagent/internal/chat"
	"github.com/diogo/browseagent/internal/server"
)

// NewServeCmd creates the HTTP session command
func NewServeCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a chat session over HTTP",
		Long: `Serve a single chat session as a JSON API.

  GET  /health         liveness probe
  GET  /api/messages   current transcript and loading state
  POST /api/messages   submit {"task": "...", "url": "..."}
  POST /api/reset      clear the transcript`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := deps.setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer cleanup()

			addr := addrFlag
			if addr == "" {
				addr = rt.cfg.ListenAddr
			}

			controller := chat.NewController(rt.client, chat.WithLogger(rt.logger))
			srv := server.NewServer(controller, rt.model, rt.logger)

			fmt.Fprintf(deps.Stderr, "Listening on http://%s (model %s)\n", addr, rt.model)
			return srv.Start(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config listen_addr)")
	return cmd
}
