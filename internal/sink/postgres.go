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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-starbuild/internal/db"
	"github.com/pgEdge/pgedge-starbuild/internal/logging"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// FormatPostgres is the registered name of the PostgreSQL sink.
const FormatPostgres = "postgres"

// DefaultSchema is the schema tables are loaded into when none is configured.
const DefaultSchema = "warehouse"

// PostgresSink loads tables into a PostgreSQL schema with COPY.
type PostgresSink struct {
	pool   *pgxpool.Pool
	schema string
	run    db.RunInfo
	saved  bool
}

// NewPostgresSink wraps an open pool. The schema is created on first write.
func NewPostgresSink(pool *pgxpool.Pool, schema string, run db.RunInfo) *PostgresSink {
	if schema == "" {
		schema = DefaultSchema
	}
	return &PostgresSink{pool: pool, schema: schema, run: run}
}

func (s *PostgresSink) Name() string { return FormatPostgres }

// Write drops and recreates the table, then copies every row in.
func (s *PostgresSink) Write(ctx context.Context, t *warehouse.Table) error {
	if !s.saved {
		if err := db.EnsureSchema(ctx, s.pool, s.schema); err != nil {
			return err
		}
		if err := db.SaveRunMetadata(ctx, s.pool, s.schema, s.run); err != nil {
			return err
		}
		s.saved = true
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+qualified(s.schema, t.Name)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err := tx.Exec(ctx, CreateTableSQL(s.schema, t)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{s.schema, t.Name},
		t.ColumnNames(),
		pgx.CopyFromRows(t.Rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy rows: %w", err)
	}
	if n != int64(t.Len()) {
		return fmt.Errorf("copied %d of %d rows", n, t.Len())
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	if err := db.SaveTableRows(ctx, s.pool, s.schema, t.Name, t.Len()); err != nil {
		return err
	}

	logging.Debug().
		Str("schema", s.schema).
		Str("table", t.Name).
		Int64("rows", n).
		Msg("Loaded table into PostgreSQL")
	return nil
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}

// Files returns nothing; the output lives in the database.
func (s *PostgresSink) Files() []string { return nil }

func init() {
	Register(FormatPostgres, func(ctx context.Context, opts Options) (Sink, error) {
		if opts.PostgresConn == "" {
			return nil, errors.New("postgres connection string is required")
		}
		pool, err := db.Connect(ctx, opts.PostgresConn)
		if err != nil {
			return nil, err
		}
		return NewPostgresSink(pool, opts.PostgresSchema, db.RunInfo{
			RunID:  opts.RunID,
			Seed:   opts.Seed,
			Policy: opts.Policy,
		}), nil
	})
}
