//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-starbuild.
// Configuration is loaded from a config file and STARBUILD_* environment
// variables. CLI flags take precedence over both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-starbuild/internal/resolve"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// STARBUILD_POSTGRES_CONNECTION.
const EnvPrefix = "STARBUILD"

// DateLayout is the format of every configured date.
const DateLayout = "2006-01-02"

// Formats lists the supported output formats.
var Formats = []string{"csv", "parquet", "duckdb", "postgres"}

// Config holds all configuration for pgedge-starbuild.
type Config struct {
	// InputDir holds the source CSV snapshot.
	InputDir string `mapstructure:"input_dir"`

	// OutputDir receives file outputs and the manifest.
	OutputDir string `mapstructure:"output_dir"`

	// Seed drives every synthesized value.
	Seed uint64 `mapstructure:"seed"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	Calendar   CalendarConfig   `mapstructure:"calendar"`
	Resolution ResolutionConfig `mapstructure:"resolution"`
	Sampling   SamplingConfig   `mapstructure:"sampling"`
	Synthesis  SynthesisConfig  `mapstructure:"synthesis"`
	Build      BuildConfig      `mapstructure:"build"`
	Output     OutputConfig     `mapstructure:"output"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	DuckDB     DuckDBConfig     `mapstructure:"duckdb"`
	S3         S3Config         `mapstructure:"s3"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// CalendarConfig bounds the time dimension.
type CalendarConfig struct {
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	// ReferenceDate anchors the is_current flags; empty means today.
	ReferenceDate string `mapstructure:"reference_date"`
}

// ResolutionConfig selects how unknown foreign keys are handled.
type ResolutionConfig struct {
	Policy string `mapstructure:"policy"`
}

// SamplingConfig caps fact table sizes. Zero means no cap.
type SamplingConfig struct {
	SalesRows        int `mapstructure:"sales_rows"`
	DeliveryRows     int `mapstructure:"delivery_rows"`
	SatisfactionRows int `mapstructure:"satisfaction_rows"`
}

type SynthesisConfig struct {
	// AttributedChannelShare is the probability that a sale takes its
	// channel from the customer's traffic source.
	AttributedChannelShare float64 `mapstructure:"attributed_channel_share"`
}

type BuildConfig struct {
	Workers int `mapstructure:"workers"`
}

// OutputConfig selects the sinks.
type OutputConfig struct {
	Formats  []string `mapstructure:"formats"`
	Compress bool     `mapstructure:"compress"`
	Manifest bool     `mapstructure:"manifest"`
}

type PostgresConfig struct {
	Connection string `mapstructure:"connection"`
	Schema     string `mapstructure:"schema"`
}

type DuckDBConfig struct {
	// Path defaults to <output_dir>/warehouse.duckdb.
	Path string `mapstructure:"path"`
}

// S3Config enables publishing when Bucket is set.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Prefix          string `mapstructure:"prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type MetricsConfig struct {
	// Textfile is a Prometheus textfile collector path; empty disables it.
	Textfile string `mapstructure:"textfile"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		InputDir:  ".",
		OutputDir: "./warehouse",
		Seed:      42,
		LogLevel:  "info",
		Calendar: CalendarConfig{
			StartDate: "2019-01-01",
			EndDate:   "2026-01-31",
		},
		Resolution: ResolutionConfig{Policy: string(resolve.Lenient)},
		Sampling: SamplingConfig{
			SalesRows:        10000,
			DeliveryRows:     5000,
			SatisfactionRows: 3000,
		},
		Synthesis: SynthesisConfig{AttributedChannelShare: 0.6},
		Build:     BuildConfig{Workers: 4},
		Output: OutputConfig{
			Formats:  []string{"csv"},
			Manifest: true,
		},
		Postgres: PostgresConfig{Schema: "warehouse"},
	}
}

// setDefaults registers every key with viper so environment overrides apply
// to keys absent from the config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("input_dir", cfg.InputDir)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("calendar.start_date", cfg.Calendar.StartDate)
	v.SetDefault("calendar.end_date", cfg.Calendar.EndDate)
	v.SetDefault("calendar.reference_date", cfg.Calendar.ReferenceDate)
	v.SetDefault("resolution.policy", cfg.Resolution.Policy)
	v.SetDefault("sampling.sales_rows", cfg.Sampling.SalesRows)
	v.SetDefault("sampling.delivery_rows", cfg.Sampling.DeliveryRows)
	v.SetDefault("sampling.satisfaction_rows", cfg.Sampling.SatisfactionRows)
	v.SetDefault("synthesis.attributed_channel_share", cfg.Synthesis.AttributedChannelShare)
	v.SetDefault("build.workers", cfg.Build.Workers)
	v.SetDefault("output.formats", cfg.Output.Formats)
	v.SetDefault("output.compress", cfg.Output.Compress)
	v.SetDefault("output.manifest", cfg.Output.Manifest)
	v.SetDefault("postgres.connection", cfg.Postgres.Connection)
	v.SetDefault("postgres.schema", cfg.Postgres.Schema)
	v.SetDefault("duckdb.path", cfg.DuckDB.Path)
	v.SetDefault("s3.bucket", cfg.S3.Bucket)
	v.SetDefault("s3.region", cfg.S3.Region)
	v.SetDefault("s3.prefix", cfg.S3.Prefix)
	v.SetDefault("s3.endpoint", cfg.S3.Endpoint)
	v.SetDefault("s3.access_key_id", cfg.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", cfg.S3.SecretAccessKey)
	v.SetDefault("metrics.textfile", cfg.Metrics.Textfile)
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-starbuild.yaml
// 3. ~/.config/pgedge-starbuild/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-starbuild")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-starbuild"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Range returns the parsed calendar bounds.
func (c *CalendarConfig) Range() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid calendar.start_date %q: %w", c.StartDate, err)
	}
	end, err := time.Parse(DateLayout, c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid calendar.end_date %q: %w", c.EndDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("calendar.end_date %s is before start_date %s", c.EndDate, c.StartDate)
	}
	return start, end, nil
}

// Reference returns the parsed reference date, or the zero time when unset.
func (c *CalendarConfig) Reference() (time.Time, error) {
	if c.ReferenceDate == "" {
		return time.Time{}, nil
	}
	ref, err := time.Parse(DateLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar.reference_date %q: %w", c.ReferenceDate, err)
	}
	return ref, nil
}

// HasFormat reports whether an output format is selected.
func (c *Config) HasFormat(name string) bool {
	return slices.Contains(c.Output.Formats, name)
}

// Validate checks that the configuration is usable for a build.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if _, _, err := c.Calendar.Range(); err != nil {
		return err
	}
	if _, err := c.Calendar.Reference(); err != nil {
		return err
	}
	if _, err := resolve.ParsePolicy(c.Resolution.Policy); err != nil {
		return err
	}
	if c.Sampling.SalesRows < 0 || c.Sampling.DeliveryRows < 0 || c.Sampling.SatisfactionRows < 0 {
		return fmt.Errorf("sampling row counts must be non-negative")
	}
	if s := c.Synthesis.AttributedChannelShare; s < 0 || s > 1 {
		return fmt.Errorf("synthesis.attributed_channel_share must be between 0 and 1")
	}
	if c.Build.Workers < 1 {
		return fmt.Errorf("build.workers must be at least 1")
	}
	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("at least one output format is required")
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(Formats, f) {
			return fmt.Errorf("unknown output format %q (valid: %s)", f, strings.Join(Formats, ", "))
		}
	}
	if c.HasFormat("postgres") && c.Postgres.Connection == "" {
		return fmt.Errorf("postgres.connection is required for the postgres format")
	}
	return nil
}
