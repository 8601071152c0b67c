//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package manifest records what a build produced.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
	"github.com/pgEdge/pgedge-starbuild/pkg/version"
)

// FileName is the manifest written into the output directory.
const FileName = "manifest.yaml"

// Manifest describes one build.
type Manifest struct {
	RunID         string           `yaml:"run_id"`
	Version       string           `yaml:"version"`
	BuiltAt       time.Time        `yaml:"built_at"`
	Seed          uint64           `yaml:"seed"`
	Policy        string           `yaml:"policy"`
	ReferenceDate string           `yaml:"reference_date"`
	Formats       []string         `yaml:"formats"`
	Tables        []Table          `yaml:"tables"`
	Fallbacks     map[string]int64 `yaml:"fallbacks"`
	ParseErrors   map[string]int64 `yaml:"parse_errors"`
	Files         []string         `yaml:"files,omitempty"`
	Published     []string         `yaml:"published,omitempty"`
}

// Table summarizes one output table.
type Table struct {
	Name    string   `yaml:"name"`
	Grain   string   `yaml:"grain"`
	Rows    int      `yaml:"rows"`
	Columns []string `yaml:"columns"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// New creates a manifest for the given run.
func New(runID string, builtAt time.Time) *Manifest {
	return &Manifest{
		RunID:       runID,
		Version:     version.Short(),
		BuiltAt:     builtAt.UTC(),
		Fallbacks:   map[string]int64{},
		ParseErrors: map[string]int64{},
	}
}

// AddTables appends a summary for each table.
func (m *Manifest) AddTables(tables []*warehouse.Table) {
	for _, t := range tables {
		m.Tables = append(m.Tables, Table{
			Name:    t.Name,
			Grain:   t.Grain,
			Rows:    t.Len(),
			Columns: t.ColumnNames(),
		})
	}
}

// Write stores the manifest as dir/manifest.yaml and returns its path.
func Write(dir string, m *Manifest) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// Read loads a manifest written by Write.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
