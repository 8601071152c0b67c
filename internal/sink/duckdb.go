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

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jmoiron/sqlx"

	"github.com/pgEdge/pgedge-starbuild/internal/logging"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// FormatDuckDB is the registered name of the DuckDB sink.
const FormatDuckDB = "duckdb"

// DuckDBFile is the database file name used when no path is configured.
const DuckDBFile = "warehouse.duckdb"

// DuckDBSink loads every table into a single DuckDB database file.
type DuckDBSink struct {
	path    string
	db      *sqlx.DB
	written bool
}

// NewDuckDBSink opens (or creates) the database at path.
func NewDuckDBSink(path string) (*DuckDBSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	db, err := sqlx.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &DuckDBSink{path: path, db: db}, nil
}

func (s *DuckDBSink) Name() string { return FormatDuckDB }

// DB exposes the underlying handle for queries against loaded tables.
func (s *DuckDBSink) DB() *sqlx.DB { return s.db }

// Write replaces the table inside one transaction.
func (s *DuckDBSink) Write(ctx context.Context, t *warehouse.Table) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+qualified("", t.Name)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, CreateTableSQL("", t)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, InsertSQL("", t))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.written = true

	logging.Debug().
		Str("table", t.Name).
		Str("path", s.path).
		Int("rows", t.Len()).
		Msg("Loaded table into DuckDB")
	return nil
}

// RowCount returns the number of rows stored for a table.
func (s *DuckDBSink) RowCount(ctx context.Context, table string) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+qualified("", table))
	return n, err
}

func (s *DuckDBSink) Close() error {
	return s.db.Close()
}

func (s *DuckDBSink) Files() []string {
	if !s.written {
		return nil
	}
	return []string{s.path}
}

func init() {
	Register(FormatDuckDB, func(_ context.Context, opts Options) (Sink, error) {
		path := opts.DuckDBPath
		if path == "" {
			path = filepath.Join(opts.OutputDir, DuckDBFile)
		}
		return NewDuckDBSink(path)
	})
}
