//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-starbuild/internal/fact"
	"github.com/pgEdge/pgedge-starbuild/internal/metrics"
	"github.com/pgEdge/pgedge-starbuild/internal/resolve"
	fixtures "github.com/pgEdge/pgedge-starbuild/internal/testutil"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

var refTime = time.Date(2024, 2, 10, 18, 0, 0, 0, time.UTC)

func testOptions(dir string) Options {
	return Options{
		InputDir: dir,
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Policy:   resolve.Lenient,
		Facts:    fact.DefaultOptions(),
		Workers:  4,
		Clock:    clockwork.NewFakeClockAt(refTime),
		Metrics:  metrics.NewRecorder(),
	}
}

func TestRunFixture(t *testing.T) {
	opts := testOptions(fixtures.SnapshotDir(t))
	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	names := make([]string, 0)
	for _, tbl := range res.Tables() {
		names = append(names, tbl.Name)
	}
	require.Equal(t, []string{
		"dim_time", "dim_region", "dim_channel", "dim_customer", "dim_product",
		"dim_distribution_center", "dim_delivery_method", "dim_customer_segment",
		"dim_order_status", "dim_satisfaction_category",
		"fact_sales", "fact_delivery", "fact_satisfaction", "fact_daily_sales",
	}, names)

	require.Len(t, res.Sales, fixtures.FixtureOrderItems)
	require.Len(t, res.Delivery, fixtures.FixtureDeliveryOrders)
	require.Len(t, res.Satisfaction, 4)
	require.Len(t, res.Dimensions.Region, fixtures.FixtureRegions)
	require.Equal(t, int64(fixtures.FixtureParseErrors), res.Parse.Total())

	// Enrichment ran.
	require.Equal(t, refTime, res.ReferenceDate)
	require.Equal(t, "Monday", res.Dimensions.Time[0].DayName)
	for _, s := range res.Sales {
		require.InDelta(t, s.Revenue-s.TotalCost, s.GrossMargin, 1e-9)
	}
	for _, d := range res.Delivery {
		require.NotEqual(t, d.IsOnTime, d.IsLate)
	}
	for _, s := range res.Satisfaction {
		require.NotEmpty(t, s.NPSCategory)
	}

	current := 0
	for _, r := range res.Dimensions.Time {
		if r.IsCurrentDay {
			current++
			require.Equal(t, "2024-02-10", r.FullDate)
		}
	}
	require.Equal(t, 1, current)

	// Lossless rollup.
	total := 0.0
	for _, d := range res.DailySales {
		total += d.TotalRevenue
	}
	require.InDelta(t, fixtures.FixtureRevenue, total, 1e-9)

	// Sales: one time, region and customer fallback. Satisfaction: one
	// product fallback. Delivery: none, the unknown user's order is not
	// Complete or Shipped.
	require.Equal(t, int64(1), res.Fallbacks.Fallbacks(resolve.DimTime))
	require.Equal(t, int64(1), res.Fallbacks.Fallbacks(resolve.DimRegion))
	require.Equal(t, int64(1), res.Fallbacks.Fallbacks(resolve.DimCustomer))
	require.Equal(t, int64(1), res.Fallbacks.Fallbacks(resolve.DimProduct))

	stages := make([]string, len(res.Stages))
	for i, s := range res.Stages {
		stages[i] = s.Stage
	}
	require.Equal(t, []string{StageLoad, StageDimensions, StageResolve, StageFacts, StageEnrich, StageAggregate}, stages)

	require.Equal(t, float64(fixtures.FixtureOrderItems),
		testutil.ToFloat64(opts.Metrics.TableRows.WithLabelValues(warehouse.TableFactSales)))
	require.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.Fallbacks.WithLabelValues(resolve.DimRegion)))
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	dir := fixtures.SnapshotDir(t)

	serial := testOptions(dir)
	serial.Workers = 1
	first, err := Run(context.Background(), serial)
	require.NoError(t, err)

	parallel := testOptions(dir)
	parallel.Workers = 8
	second, err := Run(context.Background(), parallel)
	require.NoError(t, err)

	a, b := first.Tables(), second.Tables()
	require.Equal(t, len(a), len(b))
	for i := range a {
		if diff := cmp.Diff(a[i].Rows, b[i].Rows); diff != "" {
			t.Errorf("%s differs between runs (-first +second):\n%s", a[i].Name, diff)
		}
	}
}

func TestRunReferenceDateOverride(t *testing.T) {
	opts := testOptions(fixtures.SnapshotDir(t))
	opts.ReferenceDate = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, opts.ReferenceDate, res.ReferenceDate)

	last := res.Dimensions.Time[len(res.Dimensions.Time)-1]
	require.True(t, last.IsCurrentDay)
	require.False(t, res.Dimensions.Time[0].IsCurrentMonth)
}

func TestRunSchemaError(t *testing.T) {
	dir := fixtures.SnapshotDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.csv"), []byte("id,cost\n1,2\n"), 0o644))

	_, err := Run(context.Background(), testOptions(dir))
	var se *warehouse.SchemaError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "products", se.Table)
	require.Equal(t, "category", se.Column)
	require.Contains(t, err.Error(), "load stage failed")
}

func TestRunStrictPolicyFails(t *testing.T) {
	opts := testOptions(fixtures.SnapshotDir(t))
	opts.Policy = resolve.Strict

	_, err := Run(context.Background(), opts)
	var re *warehouse.ResolutionError
	require.True(t, errors.As(err, &re))
	require.Contains(t, err.Error(), "facts stage failed")
}

func TestRunInvalidCalendar(t *testing.T) {
	opts := testOptions(fixtures.SnapshotDir(t))
	opts.Start, opts.End = opts.End, opts.Start

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to build dim_time")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, testOptions(fixtures.SnapshotDir(t)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSchema(t *testing.T) {
	tables := Schema()
	require.Len(t, tables, 14)
	require.Equal(t, warehouse.TableDimTime, tables[0].Name)
	require.Equal(t, warehouse.TableFactDailySales, tables[len(tables)-1].Name)
	for _, tbl := range tables {
		require.Zero(t, tbl.Len(), tbl.Name)
		require.NotEmpty(t, tbl.Columns, tbl.Name)
		require.NotEmpty(t, tbl.Grain, tbl.Name)
	}
}
