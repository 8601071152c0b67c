//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-starbuild/internal/logging"
	"github.com/pgEdge/pgedge-starbuild/pkg/version"
)

// MetadataTable holds key/value facts about the last build loaded into a schema.
const MetadataTable = "starbuild_metadata"

// RunInfo identifies one build.
type RunInfo struct {
	RunID   string
	Seed    uint64
	Policy  string
	BuiltAt time.Time
}

func metadataIdent(schema string) string {
	return pgx.Identifier{schema, MetadataTable}.Sanitize()
}

// EnsureSchema creates the schema and its metadata table if they don't exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, err)
	}

	_, err := pool.Exec(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`, metadataIdent(schema)))
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}
	return nil
}

// SaveRunMetadata records the build identity in the schema's metadata table.
func SaveRunMetadata(ctx context.Context, pool *pgxpool.Pool, schema string, run RunInfo) error {
	built := run.BuiltAt
	if built.IsZero() {
		built = time.Now()
	}

	metadata := map[string]string{
		"run_id":   run.RunID,
		"seed":     strconv.FormatUint(run.Seed, 10),
		"policy":   run.Policy,
		"version":  version.Short(),
		"built_at": built.UTC().Format(time.RFC3339),
	}
	for key, value := range metadata {
		if err := setMetadata(ctx, pool, schema, key, value); err != nil {
			return err
		}
	}

	logging.Debug().
		Str("schema", schema).
		Str("run_id", run.RunID).
		Msg("Saved run metadata")

	return nil
}

// SaveTableRows records the row count loaded for a table.
func SaveTableRows(ctx context.Context, pool *pgxpool.Pool, schema, table string, rows int) error {
	return setMetadata(ctx, pool, schema, "rows."+table, strconv.Itoa(rows))
}

func setMetadata(ctx context.Context, pool *pgxpool.Pool, schema, key, value string) error {
	_, err := pool.Exec(ctx, fmt.Sprintf(`
        INSERT INTO %s (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `, metadataIdent(schema)), key, value)
	if err != nil {
		return fmt.Errorf("failed to save metadata %s: %w", key, err)
	}
	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, schema, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT value FROM %s WHERE key = $1
    `, metadataIdent(schema)), key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool, schema string) (map[string]string, error) {
	rows, err := pool.Query(ctx, "SELECT key, value FROM "+metadataIdent(schema))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}
