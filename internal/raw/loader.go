package raw

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/pgEdge/pgedge-starbuild/internal/logging"
)

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open opens <dir>/<table>.csv, falling back to <table>.csv.gz.
func Open(dir, table string) (io.ReadCloser, string, error) {
	path := filepath.Join(dir, table+".csv")
	f, err := os.Open(path)
	if err == nil {
		return f, path, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, path, fmt.Errorf("failed to open %s: %w", path, err)
	}

	gzPath := path + ".gz"
	f, gzErr := os.Open(gzPath)
	if gzErr != nil {
		return nil, path, fmt.Errorf("failed to open %s: %w", path, err)
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, gzPath, fmt.Errorf("failed to read %s: %w", gzPath, err)
	}
	return &gzipFile{Reader: zr, f: f}, gzPath, nil
}

func load[T any](dir, table string, stats *ParseStats, read func(io.Reader, *ParseStats) ([]T, error)) ([]T, error) {
	rc, path, err := Open(dir, table)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := read(rc, stats)
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Str("table", table).
		Str("path", path).
		Int("rows", len(rows)).
		Msg("Loaded source table")
	return rows, nil
}

// Load reads the five source tables from dir. A missing required column
// fails the load with a *warehouse.SchemaError before anything is built.
func Load(ctx context.Context, dir string) (*Snapshot, error) {
	snap := &Snapshot{Parse: NewParseStats()}

	steps := []struct {
		table string
		run   func() error
	}{
		{TableUsers, func() (err error) {
			snap.Users, err = load(dir, TableUsers, snap.Parse, ReadUsers)
			return err
		}},
		{TableProducts, func() (err error) {
			snap.Products, err = load(dir, TableProducts, snap.Parse, ReadProducts)
			return err
		}},
		{TableOrders, func() (err error) {
			snap.Orders, err = load(dir, TableOrders, snap.Parse, ReadOrders)
			return err
		}},
		{TableOrderItems, func() (err error) {
			snap.OrderItems, err = load(dir, TableOrderItems, snap.Parse, ReadOrderItems)
			return err
		}},
		{TableDistributionCenters, func() (err error) {
			snap.DistributionCenters, err = load(dir, TableDistributionCenters, snap.Parse, ReadDistributionCenters)
			return err
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logging.Debug().Str("table", step.table).Str("dir", dir).Msg("Loading source table")
		if err := step.run(); err != nil {
			return nil, err
		}
	}

	logging.Info().
		Int("users", len(snap.Users)).
		Int("products", len(snap.Products)).
		Int("orders", len(snap.Orders)).
		Int("order_items", len(snap.OrderItems)).
		Int("distribution_centers", len(snap.DistributionCenters)).
		Int64("parse_errors", snap.Parse.Total()).
		Msg("Snapshot loaded")
	return snap, nil
}
