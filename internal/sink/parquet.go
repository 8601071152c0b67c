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
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/pgEdge/pgedge-starbuild/internal/logging"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// FormatParquet is the registered name of the Parquet sink.
const FormatParquet = "parquet"

const parquetParallelism = 4

// ParquetSink writes one Parquet file per table.
type ParquetSink struct {
	dir   string
	files []string
}

// NewParquetSink creates a Parquet sink writing into dir.
func NewParquetSink(dir string) (*ParquetSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &ParquetSink{dir: dir}, nil
}

func (s *ParquetSink) Name() string { return FormatParquet }

// Path returns the file a table is written to.
func (s *ParquetSink) Path(table string) string {
	return filepath.Join(s.dir, table+".parquet")
}

// ParquetSchema returns the CSV-writer metadata for the table's columns.
func ParquetSchema(t *warehouse.Table) []string {
	md := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		switch c.Kind {
		case warehouse.KindInt:
			md[i] = fmt.Sprintf("name=%s, type=INT64", c.Name)
		case warehouse.KindFloat:
			md[i] = fmt.Sprintf("name=%s, type=DOUBLE", c.Name)
		case warehouse.KindBool:
			md[i] = fmt.Sprintf("name=%s, type=BOOLEAN", c.Name)
		default:
			md[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY", c.Name)
		}
	}
	return md
}

// Write writes the table to <dir>/<table>.parquet using Snappy compression.
func (s *ParquetSink) Write(ctx context.Context, t *warehouse.Table) error {
	path := s.Path(t.Name)

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create local file writer: %w", err)
	}

	pw, err := writer.NewCSVWriter(ParquetSchema(t), fw, parquetParallelism)
	if err != nil {
		fw.Close()
		os.Remove(path)
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i, row := range t.Rows {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				fw.Close()
				os.Remove(path)
				return err
			}
		}
		if err := pw.Write(row); err != nil {
			fw.Close()
			os.Remove(path)
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		os.Remove(path)
		return fmt.Errorf("error in WriteStop: %w", err)
	}
	if err := fw.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("error closing file writer: %w", err)
	}

	s.files = append(s.files, path)
	logging.Debug().
		Str("table", t.Name).
		Str("path", path).
		Int("rows", t.Len()).
		Msg("Wrote Parquet table")
	return nil
}

func (s *ParquetSink) Close() error { return nil }

func (s *ParquetSink) Files() []string {
	return append([]string(nil), s.files...)
}

func init() {
	Register(FormatParquet, func(_ context.Context, opts Options) (Sink, error) {
		return NewParquetSink(opts.OutputDir)
	})
}
