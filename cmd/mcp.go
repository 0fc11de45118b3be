package cmd

import (
	"log/slog"
	"os"

	"github.com/jcdickinson/soldoc/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the generated documentation over MCP (stdio)",
	Run:   runMCP,
}

func runMCP(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	if _, err := os.Stat(cfg.Out); err != nil {
		slog.Warn("documentation directory not found; run soldoc build first", "dir", cfg.Out)
	}

	server := mcp.NewServer(cfg.Out, Version)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	if err := waitForSignal(errCh); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
