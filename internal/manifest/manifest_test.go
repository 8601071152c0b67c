//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.NotEqual(t, id, NewRunID())
}

func TestWriteAndRead(t *testing.T) {
	built := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	m := New("run-1", built)
	m.Seed = 42
	m.Policy = "lenient"
	m.ReferenceDate = "2025-03-04"
	m.Formats = []string{"csv"}
	m.Fallbacks["region"] = 2
	m.ParseErrors["orders.created_at"] = 1
	m.AddTables([]*warehouse.Table{{
		Name:    "dim_region",
		Grain:   "one row per (city, region, country)",
		Columns: []warehouse.Column{{Name: "region_id", Kind: warehouse.KindInt}, {Name: "city", Kind: warehouse.KindString}},
		Rows:    [][]any{{int64(1), "Austin"}, {int64(2), "Boston"}},
	}})
	m.Files = []string{"out/dim_region.csv"}

	dir := filepath.Join(t.TempDir(), "out")
	path, err := Write(dir, m)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, FileName), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "run_id: run-1\n"))
	require.NotContains(t, string(raw), "published")

	got, err := Read(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, got.Tables[0].Rows)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
}
