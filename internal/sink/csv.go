//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/pgEdge/pgedge-starbuild/internal/logging"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// FormatCSV is the registered name of the CSV sink.
const FormatCSV = "csv"

// CSVSink writes one CSV file per table, optionally gzip compressed.
type CSVSink struct {
	dir      string
	compress bool
	files    []string
}

// NewCSVSink creates a CSV sink writing into dir.
func NewCSVSink(dir string, compress bool) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &CSVSink{dir: dir, compress: compress}, nil
}

func (s *CSVSink) Name() string { return FormatCSV }

// Path returns the file a table is written to.
func (s *CSVSink) Path(table string) string {
	name := table + ".csv"
	if s.compress {
		name += ".gz"
	}
	return filepath.Join(s.dir, name)
}

// Write writes the table with a header row, overwriting any existing file.
func (s *CSVSink) Write(ctx context.Context, t *warehouse.Table) error {
	path := s.Path(t.Name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	var out io.Writer = f
	var zw *gzip.Writer
	if s.compress {
		zw = gzip.NewWriter(f)
		out = zw
	}

	if err := writeCSV(ctx, out, t); err != nil {
		f.Close()
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	s.files = append(s.files, path)
	logging.Debug().
		Str("table", t.Name).
		Str("path", path).
		Int("rows", t.Len()).
		Msg("Wrote CSV table")
	return nil
}

func writeCSV(ctx context.Context, w io.Writer, t *warehouse.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, v := range row {
			record[j] = warehouse.FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Close is a no-op; files are closed after each table.
func (s *CSVSink) Close() error { return nil }

func (s *CSVSink) Files() []string {
	return append([]string(nil), s.files...)
}

func init() {
	Register(FormatCSV, func(_ context.Context, opts Options) (Sink, error) {
		return NewCSVSink(opts.OutputDir, opts.Compress)
	})
}
