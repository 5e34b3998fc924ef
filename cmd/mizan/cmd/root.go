package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mizan/internal/config"
	"mizan/internal/storage"
)

var (
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "mizan",
	Short:         "Mizan product catalog tools",
	Long:          "Harvest packaged-food products from Open Food Facts and clean them into a listing-ready catalog.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger, err = newLogger(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command. An interrupt cancels the running command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runsCmd)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var zc zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "json":
		zc = zap.NewProductionConfig()
	case "", "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unsupported LOG_FORMAT: %s", cfg.LogFormat)
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zc.Level = level
	return zc.Build()
}

func openDB() (*storage.DB, error) {
	if err := cfg.Require("DB_PATH", cfg.DBPath); err != nil {
		return nil, err
	}
	return storage.Open(cfg.DBPath)
}
