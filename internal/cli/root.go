// Package cli provides the command-line interface for textdecoder.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/digitalabcs/textdecoder/internal/behavior"
	"github.com/digitalabcs/textdecoder/internal/config"
	"github.com/digitalabcs/textdecoder/internal/engine"
	"github.com/digitalabcs/textdecoder/internal/llm"
	"github.com/digitalabcs/textdecoder/internal/metrics"
	"github.com/digitalabcs/textdecoder/internal/profile"
	"github.com/digitalabcs/textdecoder/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, store, and logging
	cfg       config.Config
	recStore  *store.Store
	collector *metrics.Collector
	library   *behavior.Library
	logger    *slog.Logger
	closeLog  func() error

	// Lazy-initialized analysis client
	client llm.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "textdecoder",
	Short: "Decode the psychology of your conversations",
	Long: `Textdecoder analyzes pasted conversations: it identifies who said what,
surfaces communication styles, power dynamics, and manipulation patterns,
and builds long-term behavioral profiles of the people you talk to.

Everything is stored locally; conversation text only leaves the machine
for the configured analysis provider.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		logger, closeLog = config.SetupLogger(cfg.LogFile, cfg.LogLevel)

		var err error
		library, err = behavior.Load(cfg.BehaviorLibrary)
		if err != nil {
			return fmt.Errorf("load behavior library: %w", err)
		}

		recStore, err = store.Open(store.Config{
			Path:       filepath.Join(cfg.DataDir, "records"),
			SyncWrites: true,
			Logger:     logger,
			GCInterval: 10 * time.Minute,
		})
		if err != nil {
			return fmt.Errorf("open record store: %w", err)
		}

		collector = metrics.NewCollector()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if recStore != nil {
			if err := recStore.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
			}
		}
		if closeLog != nil {
			_ = closeLog()
		}
	},
}

// getEngine creates the lifecycle engine. Commands that call the analysis
// service pass requireLLM=true; read-only commands skip client setup so
// they work without an API key.
func getEngine(ctx context.Context, requireLLM bool) (*engine.Engine, error) {
	if requireLLM && client == nil {
		var err error
		client, err = llm.NewModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init analysis client: %w", err)
		}
	}
	return engine.New(recStore, client, engine.Options{
		Library:       library,
		Timeout:       cfg.AnalysisTimeout,
		MaxInputChars: cfg.MaxInputChars,
		Logger:        logger,
		Metrics:       collector,
	}), nil
}

// getAggregator creates the profile aggregator with the same lazy client
// rule as getEngine.
func getAggregator(ctx context.Context, requireLLM bool) (*profile.Aggregator, error) {
	if requireLLM && client == nil {
		var err error
		client, err = llm.NewModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init analysis client: %w", err)
		}
	}
	return profile.New(recStore, client, profile.Options{
		DefaultRetentionMonths: cfg.RetentionMonths,
		Timeout:                cfg.AnalysisTimeout,
		Logger:                 logger,
		Metrics:                collector,
	}), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(reassignCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(behaviorsCmd)
	rootCmd.AddCommand(statsCmd)
}
