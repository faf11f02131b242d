package cli

import (
	"github.com/spf13/cobra"

	"github.com/jameslewellyn/recipe-scan-tool/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: "Serves the autocrop, colour, PDF and OCR tools over the Model Context Protocol.\n" +
			"Requests are read from stdin one per line; logs go to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.New(a.cfg, a.log).Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
