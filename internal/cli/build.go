//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-starbuild/internal/config"
	"github.com/pgEdge/pgedge-starbuild/internal/datagen"
	"github.com/pgEdge/pgedge-starbuild/internal/fact"
	"github.com/pgEdge/pgedge-starbuild/internal/logging"
	"github.com/pgEdge/pgedge-starbuild/internal/manifest"
	"github.com/pgEdge/pgedge-starbuild/internal/metrics"
	"github.com/pgEdge/pgedge-starbuild/internal/pipeline"
	"github.com/pgEdge/pgedge-starbuild/internal/publish"
	"github.com/pgEdge/pgedge-starbuild/internal/resolve"
	"github.com/pgEdge/pgedge-starbuild/internal/sink"
)

var (
	buildSeed          uint64
	buildPolicy        string
	buildFormats       []string
	buildCompress      bool
	buildReferenceDate string
	buildWorkers       int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the warehouse from a source snapshot",
	Long: `Build every dimension, fact and summary table from the CSV snapshot in
the input directory and write them in each selected output format.

Example:
  pgedge-starbuild build --input ./snapshot --output ./warehouse --format csv --format parquet`,
	RunE: runBuildCmd,
}

func init() {
	buildCmd.Flags().Uint64Var(&buildSeed, "seed", 0,
		"seed for synthesized values (default: 42)")
	buildCmd.Flags().StringVar(&buildPolicy, "policy", "",
		"resolution policy for unknown references: lenient or strict")
	buildCmd.Flags().StringArrayVar(&buildFormats, "format", nil,
		"output format: csv, parquet, duckdb, postgres (repeatable)")
	buildCmd.Flags().BoolVar(&buildCompress, "compress", false,
		"gzip CSV outputs")
	buildCmd.Flags().StringVar(&buildReferenceDate, "reference-date", "",
		"date anchoring the is_current calendar flags (YYYY-MM-DD, default: today)")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0,
		"parallel table builders (default: 4)")
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if cmd.Flags().Changed("seed") {
		cfg.Seed = buildSeed
	}
	if buildPolicy != "" {
		cfg.Resolution.Policy = buildPolicy
	}
	if len(buildFormats) > 0 {
		cfg.Output.Formats = buildFormats
	}
	if cmd.Flags().Changed("compress") {
		cfg.Output.Compress = buildCompress
	}
	if buildReferenceDate != "" {
		cfg.Calendar.ReferenceDate = buildReferenceDate
	}
	if buildWorkers > 0 {
		cfg.Build.Workers = buildWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := runBuild(ctx, cfg, clockwork.NewRealClock(), cmd.OutOrStdout()); err != nil {
		logging.Error().Err(err).Msg("Build failed")
		return err
	}
	return nil
}

// runBuild executes one build from c, writes every output and prints the
// run summary to out.
func runBuild(ctx context.Context, c *config.Config, clock clockwork.Clock, out io.Writer) (*manifest.Manifest, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	start, end, _ := c.Calendar.Range()
	ref, _ := c.Calendar.Reference()
	policy, _ := resolve.ParsePolicy(c.Resolution.Policy)

	logging.Info().
		Str("input", c.InputDir).
		Str("output", c.OutputDir).
		Uint64("seed", c.Seed).
		Str("policy", string(policy)).
		Strs("formats", c.Output.Formats).
		Msg("Starting build")

	rec := metrics.NewRecorder()
	result, err := pipeline.Run(ctx, pipeline.Options{
		InputDir:      c.InputDir,
		Start:         start,
		End:           end,
		ReferenceDate: ref,
		Policy:        policy,
		Facts: fact.Options{
			Seed:                   c.Seed,
			SalesRows:              c.Sampling.SalesRows,
			DeliveryRows:           c.Sampling.DeliveryRows,
			SatisfactionRows:       c.Sampling.SatisfactionRows,
			AttributedChannelShare: c.Synthesis.AttributedChannelShare,
		},
		Workers: c.Build.Workers,
		Clock:   clock,
		Metrics: rec,
	})
	if err != nil {
		return nil, err
	}

	runID := manifest.NewRunID()
	tables := result.Tables()

	sinks, err := sink.Open(ctx, c.Output.Formats, sink.Options{
		OutputDir:      c.OutputDir,
		Compress:       c.Output.Compress,
		DuckDBPath:     c.DuckDB.Path,
		PostgresConn:   c.Postgres.Connection,
		PostgresSchema: c.Postgres.Schema,
		RunID:          runID,
		Seed:           c.Seed,
		Policy:         string(policy),
	})
	if err != nil {
		return nil, err
	}
	files, err := sink.WriteAll(ctx, sinks, tables)
	for _, s := range sinks {
		for range s.Files() {
			rec.FileWritten(s.Name())
		}
	}
	if err != nil {
		return nil, err
	}

	m := manifest.New(runID, clock.Now())
	m.Seed = c.Seed
	m.Policy = string(policy)
	m.ReferenceDate = result.ReferenceDate.Format(config.DateLayout)
	m.Formats = c.Output.Formats
	m.AddTables(tables)
	m.Fallbacks = result.Fallbacks.Snapshot()
	m.ParseErrors = result.Parse.Counts()
	m.Files = files

	if pc := publishConfig(c.S3); pc.Enabled() {
		publisher, err := publish.NewS3Publisher(ctx, pc, runID)
		if err != nil {
			return nil, err
		}
		keys, err := publisher.Publish(ctx, files)
		if err != nil {
			return nil, err
		}
		m.Published = keys
	}

	if c.Output.Manifest {
		path, err := manifest.Write(c.OutputDir, m)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("path", path).Msg("Wrote manifest")
	}

	if c.Metrics.Textfile != "" {
		if err := rec.WriteTextfile(c.Metrics.Textfile); err != nil {
			return nil, err
		}
	}

	printSummary(out, m, result)
	return m, nil
}

func publishConfig(s config.S3Config) publish.Config {
	return publish.Config{
		Bucket:          s.Bucket,
		Region:          s.Region,
		Prefix:          s.Prefix,
		Endpoint:        s.Endpoint,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
	}
}

// printSummary renders row counts per table followed by recovered-error counts.
func printSummary(w io.Writer, m *manifest.Manifest, result *pipeline.Result) {
	fmt.Fprintf(w, "Run %s (seed %d, policy %s, reference date %s)\n",
		m.RunID, m.Seed, m.Policy, m.ReferenceDate)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Table", "Rows", "Columns"})
	for _, t := range m.Tables {
		table.Append([]string{t.Name, strconv.Itoa(t.Rows), strconv.Itoa(len(t.Columns))})
	}
	table.Render()

	stages := tablewriter.NewWriter(w)
	stages.SetHeader([]string{"Stage", "Duration"})
	for _, s := range result.Stages {
		stages.Append([]string{s.Stage, s.Duration.String()})
	}
	stages.Render()

	counts := tablewriter.NewWriter(w)
	counts.SetHeader([]string{"Recovered", "Where", "Count"})
	for _, d := range result.Fallbacks.Dimensions() {
		counts.Append([]string{"fallback", d, strconv.FormatInt(result.Fallbacks.Fallbacks(d), 10)})
	}
	for _, col := range result.Parse.Columns() {
		counts.Append([]string{"parse error", col, strconv.FormatInt(m.ParseErrors[col], 10)})
	}
	counts.Render()

	if len(m.Files) > 0 {
		sizes := tablewriter.NewWriter(w)
		sizes.SetAutoWrapText(false)
		sizes.SetHeader([]string{"File", "Size"})
		for _, f := range m.Files {
			size := "?"
			if info, err := os.Stat(f); err == nil {
				size = datagen.FormatSize(info.Size())
			}
			sizes.Append([]string{f, size})
		}
		sizes.Render()
	}

	if len(m.Published) > 0 {
		fmt.Fprintf(w, "Published %d files\n", len(m.Published))
	}
}
