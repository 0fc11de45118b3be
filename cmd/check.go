package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jcdickinson/soldoc/internal/docs"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every SUMMARY.md link points at a generated document",
	Run:   runCheck,
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	links, err := docs.CheckSummary(cfg.Out)
	if err != nil {
		slog.Error("check failed", "error", err)
		os.Exit(1)
	}

	for _, l := range links {
		if l.Status == docs.LinkDirectory {
			slog.Debug("directory page without file", "link", l.Destination)
		}
	}

	dangling := docs.Dangling(links)
	for _, l := range dangling {
		fmt.Printf("dangling link: [%s](%s)\n", l.Text, l.Destination)
	}
	if len(dangling) > 0 {
		os.Exit(1)
	}
	fmt.Printf("%d links ok\n", len(links))
}
