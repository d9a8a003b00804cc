package main

import (
	"os"

	"github.com/offerlens/backend/internal/app"
	"github.com/offerlens/backend/internal/delivery/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the offer search tool over stdio",
	Long: `Mcp runs a JSON-RPC tool server on stdin/stdout. Both Content-Length framed
and newline-delimited messages are accepted; logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(engine.Search, "offerlens-mcp", app.Version, engine.Logger)
		engine.Logger.Info().Msg("tool server ready on stdio")
		return server.Serve(cmd.Context(), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
