//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sink writes warehouse tables to their output formats.
package sink

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// Sink persists materialized tables. Implementations are not safe for
// concurrent use; the build writes tables one at a time.
type Sink interface {
	// Name returns the format name the sink is registered under.
	Name() string

	// Write persists one table, replacing any previous copy.
	Write(ctx context.Context, t *warehouse.Table) error

	// Close flushes and releases resources.
	Close() error

	// Files returns the local files written so far, in write order.
	Files() []string
}

// Options carries the settings every sink factory may need.
type Options struct {
	OutputDir string
	Compress  bool

	DuckDBPath string

	PostgresConn   string
	PostgresSchema string

	// Recorded alongside database outputs.
	RunID  string
	Seed   uint64
	Policy string
}

// Factory creates a sink for one build.
type Factory func(ctx context.Context, opts Options) (Sink, error)

var (
	registry = make(map[string]Factory)
	mu       sync.RWMutex
)

// Register adds a sink factory under a format name.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = f
}

// Get retrieves a sink factory by format name.
func Get(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return f, nil
}

// List returns all registered format names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates one sink per requested format. On failure the sinks opened
// so far are closed.
func Open(ctx context.Context, formats []string, opts Options) ([]Sink, error) {
	sinks := make([]Sink, 0, len(formats))
	for _, name := range formats {
		f, err := Get(name)
		if err == nil {
			var s Sink
			s, err = f(ctx, opts)
			if err == nil {
				sinks = append(sinks, s)
				continue
			}
			err = fmt.Errorf("failed to open %s sink: %w", name, err)
		}
		for _, s := range sinks {
			_ = s.Close()
		}
		return nil, err
	}
	return sinks, nil
}

// WriteAll writes every table to every sink, closing the sinks afterwards.
// It returns the files written across all sinks.
func WriteAll(ctx context.Context, sinks []Sink, tables []*warehouse.Table) ([]string, error) {
	var writeErr error
	for _, s := range sinks {
		if writeErr != nil {
			break
		}
		for _, t := range tables {
			if err := ctx.Err(); err != nil {
				writeErr = err
				break
			}
			if err := s.Write(ctx, t); err != nil {
				writeErr = fmt.Errorf("%s sink: table %s: %w", s.Name(), t.Name, err)
				break
			}
		}
	}

	var files []string
	for _, s := range sinks {
		if err := s.Close(); err != nil && writeErr == nil {
			writeErr = fmt.Errorf("failed to close %s sink: %w", s.Name(), err)
		}
		files = append(files, s.Files()...)
	}
	return files, writeErr
}
