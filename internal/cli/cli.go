//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-starbuild.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-starbuild/internal/config"
	"github.com/pgEdge/pgedge-starbuild/internal/logging"
	"github.com/pgEdge/pgedge-starbuild/pkg/version"
)

var (
	// Global flags
	cfgFile   string
	inputDir  string
	outputDir string
	logLevel  string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-starbuild",
		Short: "Star schema warehouse builder for e-commerce snapshots",
		Long: `pgedge-starbuild reads a CSV snapshot of an e-commerce system
(users, products, orders, order items, distribution centers) and builds a
dimensional warehouse from it: ten dimension tables, sales, delivery and
satisfaction fact tables, and a daily sales summary.

Attributes missing from the source are synthesized from a seed, so the
same snapshot and seed always produce the same warehouse. Outputs can be
written as CSV, Parquet, a DuckDB database or a PostgreSQL schema.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-starbuild.yaml)")
	rootCmd.PersistentFlags().StringVar(&inputDir, "input", "",
		"directory holding the source CSV snapshot")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "",
		"directory receiving output files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
