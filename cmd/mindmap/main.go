// Package main provides the mindmap CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindmap/config"
	"mindmap/logging"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errValidationFailed makes validate exit non-zero after printing its report.
var errValidationFailed = errors.New("validation failed")

// app holds what every command shares once flags are parsed.
type app struct {
	cfgFile string
	verbose bool
	block   int

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mindmap",
		Short: "Mind map editor with automatic layout",
		Long: `mindmap edits, lays out and converts mind maps.

Maps are stored as JSON documents. Mermaid and PlantUML mindmaps can be
imported and are laid out on load.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./mindmap.yaml or $HOME/mindmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVar(&a.block, "block", 1, "mind map block to read from Markdown input")

	rootCmd.AddCommand(a.viewCmd())
	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(a.importCmd())
	rootCmd.AddCommand(a.validateCmd())
	rootCmd.AddCommand(a.statsCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mindmap %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
