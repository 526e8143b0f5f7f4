package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/eccstats/ecc-rankings/internal/config"
	"github.com/eccstats/ecc-rankings/pkg/logger"
	"github.com/eccstats/ecc-rankings/pkg/metrics"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ecc-rankings",
	Short: "Club batting, bowling and all-rounder leaderboards",
	Long: `Merges per-division season statistics into batting, bowling and
all-rounder club rankings.

Configuration is layered: defaults, then the YAML file named by ECC_CONFIG,
then ECC_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.Init(); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		c, err := config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		// Apply configured log level (fallback to info on invalid input)
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
				logger.String("log_level", cfg.LogLevel), logger.Error(err))
			_ = logger.SetLevelString("info")
		}
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return logger.Sync()
	},
}

// newMetrics builds the run's metrics manager on a fresh registry, labelled
// with the configured club and season.
func newMetrics() (*metrics.Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	m := metrics.NewManager(
		metrics.WithPrometheusRegistry(reg),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithConstLabels(map[string]string{"club": cfg.Club, "season": cfg.Season}),
	)
	return m, reg
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
