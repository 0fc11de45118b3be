package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcdickinson/soldoc/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var debug bool

var rootCmd = &cobra.Command{
	Use:   "soldoc",
	Short: "Generate Markdown documentation from Solidity NatSpec",
	Long: `soldoc compiles a Solidity project, reads the ABI and NatSpec the compiler
emits, and writes one Markdown document per source file plus an mdBook
SUMMARY.md.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("src", "", "Solidity source directory (default \"src\")")
	rootCmd.PersistentFlags().String("out", "", "documentation directory (default <parent of src>/docs/src)")
	viper.BindPFlag("src", rootCmd.PersistentFlags().Lookup("src"))
	viper.BindPFlag("out", rootCmd.PersistentFlags().Lookup("out"))

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the soldoc version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

// waitForSignal blocks until SIGINT/SIGTERM or until errCh yields.
func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case sig := <-sigs:
		slog.Info("received signal", "signal", sig)
		return nil
	case err := <-errCh:
		return err
	}
}
