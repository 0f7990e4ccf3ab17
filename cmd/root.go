package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "masspec",
	Short: "masspec: reconstruct a dimuon invariant-mass spectrum from a tabular dataset",
	Long: `masspec is a one-shot batch analyzer. It locates a delimited dataset of
two-particle kinematic records, detects its header and delimiter, reconstructs
the invariant mass per event, validates it against the dataset's reference
column, and writes metrics, histogram figures, and a Markdown report.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(setupLogger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func setupLogger() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
