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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

func sampleTable() *warehouse.Table {
	return &warehouse.Table{
		Name:  "dim_sample",
		Grain: "one row per sample",
		Columns: []warehouse.Column{
			{Name: "sample_id", Kind: warehouse.KindInt},
			{Name: "label", Kind: warehouse.KindString},
			{Name: "score", Kind: warehouse.KindFloat},
			{Name: "active", Kind: warehouse.KindBool},
		},
		Rows: [][]any{
			{int64(1), "alpha", 1.5, true},
			{int64(2), "beta, with comma", 0.25, false},
			{int64(3), "gamma", 0.0, true},
		},
	}
}

func readCSV(t *testing.T, path string, gz bool) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var r *csv.Reader
	if gz {
		zr, err := gzip.NewReader(f)
		require.NoError(t, err)
		defer zr.Close()
		r = csv.NewReader(zr)
	} else {
		r = csv.NewReader(f)
	}
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestRegistry(t *testing.T) {
	require.Equal(t, []string{FormatCSV, FormatDuckDB, FormatParquet, FormatPostgres}, List())

	_, err := Get("xml")
	require.EqualError(t, err, "unknown output format: xml")

	f, err := Get(FormatCSV)
	require.NoError(t, err)
	s, err := f(context.Background(), Options{OutputDir: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, FormatCSV, s.Name())
}

func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open(context.Background(), []string{FormatCSV, "xml"}, Options{OutputDir: t.TempDir()})
	require.Error(t, err)
}

func TestOpenPostgresWithoutConnection(t *testing.T) {
	_, err := Open(context.Background(), []string{FormatPostgres}, Options{OutputDir: t.TempDir()})
	require.ErrorContains(t, err, "postgres connection string is required")
}

func TestCSVSink(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir, false)
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), sampleTable()))
	// Overwrite.
	require.NoError(t, s.Write(context.Background(), sampleTable()))
	require.NoError(t, s.Close())

	path := filepath.Join(dir, "dim_sample.csv")
	records := readCSV(t, path, false)
	require.Equal(t, []string{"sample_id", "label", "score", "active"}, records[0])
	require.Len(t, records, 4)
	require.Equal(t, []string{"2", "beta, with comma", "0.25", "false"}, records[2])
	require.Equal(t, []string{path, path}, s.Files())
}

func TestCSVSinkCompressed(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir, true)
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), sampleTable()))

	path := filepath.Join(dir, "dim_sample.csv.gz")
	require.Equal(t, path, s.Path("dim_sample"))
	records := readCSV(t, path, true)
	require.Len(t, records, 4)
	require.Equal(t, "alpha", records[1][1])
}

func TestCSVSinkCancelled(t *testing.T) {
	s, err := NewCSVSink(t.TempDir(), false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Write(ctx, sampleTable()), context.Canceled)
	require.Empty(t, s.Files())
}

func TestParquetSchema(t *testing.T) {
	md := ParquetSchema(sampleTable())
	require.Equal(t, []string{
		"name=sample_id, type=INT64",
		"name=label, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY",
		"name=score, type=DOUBLE",
		"name=active, type=BOOLEAN",
	}, md)
}

func TestParquetSink(t *testing.T) {
	dir := t.TempDir()
	s, err := NewParquetSink(dir)
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), sampleTable()))
	require.NoError(t, s.Close())

	path := filepath.Join(dir, "dim_sample.parquet")
	require.Equal(t, []string{path}, s.Files())

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 1)
	require.NoError(t, err)
	defer pr.ReadStop()
	require.Equal(t, int64(3), pr.GetNumRows())
}

func TestDDL(t *testing.T) {
	ddl := CreateTableSQL("warehouse", sampleTable())
	require.True(t, strings.HasPrefix(ddl, `CREATE TABLE "warehouse"."dim_sample" (`))
	require.Contains(t, ddl, `"sample_id" BIGINT NOT NULL`)
	require.Contains(t, ddl, `"label" TEXT NOT NULL`)
	require.Contains(t, ddl, `"score" DOUBLE PRECISION NOT NULL`)
	require.Contains(t, ddl, `"active" BOOLEAN NOT NULL`)
	require.Contains(t, ddl, `PRIMARY KEY ("sample_id")`)

	fact := sampleTable()
	fact.Name = "fact_sample"
	require.NotContains(t, CreateTableSQL("", fact), "PRIMARY KEY")

	require.Equal(t,
		`INSERT INTO "dim_sample" ("sample_id", "label", "score", "active") VALUES (?, ?, ?, ?)`,
		InsertSQL("", sampleTable()))
	require.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}

func TestDuckDBSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DuckDBFile)
	s, err := NewDuckDBSink(path)
	require.NoError(t, err)
	require.Empty(t, s.Files())

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, sampleTable()))

	// Rewriting replaces rather than appends.
	tbl := sampleTable()
	tbl.Rows = tbl.Rows[:2]
	require.NoError(t, s.Write(ctx, tbl))

	n, err := s.RowCount(ctx, "dim_sample")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	var label string
	require.NoError(t, s.DB().GetContext(ctx, &label, `SELECT label FROM dim_sample WHERE sample_id = 2`))
	require.Equal(t, "beta, with comma", label)

	require.NoError(t, s.Close())
	require.Equal(t, []string{path}, s.Files())
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	sinks, err := Open(context.Background(), []string{FormatCSV, FormatParquet}, Options{OutputDir: dir})
	require.NoError(t, err)

	other := sampleTable()
	other.Name = "fact_sample"
	files, err := WriteAll(context.Background(), sinks, []*warehouse.Table{sampleTable(), other})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "dim_sample.csv"),
		filepath.Join(dir, "fact_sample.csv"),
		filepath.Join(dir, "dim_sample.parquet"),
		filepath.Join(dir, "fact_sample.parquet"),
	}, files)
}
