package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/eccstats/ecc-rankings/internal/app"
	"github.com/eccstats/ecc-rankings/pkg/logger"
)

var rankOut string

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Run the ranking pipeline once and print the result",
	Long: `Loads every configured division source, ranks batting, bowling and
all-rounders, and writes the result as indented JSON.

Examples:
  ecc-rankings rank
  ecc-rankings rank --out rankings.json`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().StringVar(&rankOut, "out", "", "Output file (default: stdout)")
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, _ := newMetrics()
	svc, err := service.New(cfg, service.WithLogger(logger.Get()), service.WithMetrics(m))
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	res, err := svc.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}

	if rankOut == "" {
		return writeResult(cmd.OutOrStdout(), res)
	}

	f, err := os.Create(rankOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", rankOut, err)
	}
	if err := writeResult(f, res); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", rankOut, err)
	}
	return nil
}

// writeResult encodes res as indented JSON.
func writeResult(w io.Writer, res service.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
