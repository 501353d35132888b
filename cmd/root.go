// Package cmd defines the CLI surface for the bookpipeline executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/libdata/bookpipeline/internal/config"
	"github.com/libdata/bookpipeline/internal/logging"
	"github.com/libdata/bookpipeline/internal/pipeline"
)

var cfgFile string

// newRootCmd creates the root command. Running the binary with no arguments
// executes one pipeline pass.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookpipeline",
		Short: "Fetches Open Library book metadata and persists it to CSV, JSON, and Postgres",
		Long: `bookpipeline runs a fixed linear pipeline: fetch the top-rated fiction
search results from the Open Library API, flatten them into a four-column
table, export the table to CSV and JSON, replace the LibBooks Postgres
table with it, and render a publish-year count plot.`,
		SilenceUsage: true,
		RunE:         runPipeline,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; defaults and environment are enough)")

	return cmd
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	p, err := pipeline.New(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize pipeline services", zap.Error(err))
		return err
	}
	defer p.Close()

	return p.Run(cmd.Context())
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
