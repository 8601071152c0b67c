//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs a warehouse build from source snapshot to summary
// tables.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/jonboulle/clockwork"

	"github.com/pgEdge/pgedge-starbuild/internal/aggregate"
	"github.com/pgEdge/pgedge-starbuild/internal/dim"
	"github.com/pgEdge/pgedge-starbuild/internal/enrich"
	"github.com/pgEdge/pgedge-starbuild/internal/fact"
	"github.com/pgEdge/pgedge-starbuild/internal/logging"
	"github.com/pgEdge/pgedge-starbuild/internal/metrics"
	"github.com/pgEdge/pgedge-starbuild/internal/raw"
	"github.com/pgEdge/pgedge-starbuild/internal/resolve"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// Stage names, in execution order.
const (
	StageLoad       = "load"
	StageDimensions = "dimensions"
	StageResolve    = "resolve"
	StageFacts      = "facts"
	StageEnrich     = "enrich"
	StageAggregate  = "aggregate"
)

// Options configures a build.
type Options struct {
	InputDir string

	// Calendar range of the time dimension, inclusive.
	Start time.Time
	End   time.Time

	// ReferenceDate anchors the is_current calendar flags. When zero the
	// clock's current time is used.
	ReferenceDate time.Time

	Policy  resolve.Policy
	Facts   fact.Options
	Workers int

	Clock   clockwork.Clock
	Metrics *metrics.Recorder
}

// Result holds every table of a finished build.
type Result struct {
	Dimensions   *dim.Set
	Sales        warehouse.SalesFacts
	Delivery     warehouse.DeliveryFacts
	Satisfaction warehouse.SatisfactionFacts
	DailySales   warehouse.DailySales

	Fallbacks     *resolve.Stats
	Parse         *raw.ParseStats
	ReferenceDate time.Time
	Stages        []StageTiming
}

// StageTiming is the wall time of one stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Tables returns every output table in output order: dimensions, facts,
// then summaries.
func (r *Result) Tables() []*warehouse.Table {
	var tabs []warehouse.Tabular
	tabs = append(tabs, r.Dimensions.Tables()...)
	tabs = append(tabs, r.Sales, r.Delivery, r.Satisfaction, r.DailySales)

	out := make([]*warehouse.Table, len(tabs))
	for i, t := range tabs {
		out[i] = t.Table()
	}
	return out
}

// Schema returns every output table, empty, in output order.
func Schema() []*warehouse.Table {
	return (&Result{Dimensions: &dim.Set{}}).Tables()
}

type runner struct {
	opts   Options
	result *Result
}

// stage runs fn and records how long it took.
func (r *runner) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := r.opts.Clock.Now()
	logging.Debug().Str("stage", name).Msg("Stage started")

	if err := fn(ctx); err != nil {
		return fmt.Errorf("%s stage failed: %w", name, err)
	}

	d := r.opts.Clock.Since(start)
	r.result.Stages = append(r.result.Stages, StageTiming{Stage: name, Duration: d})
	r.opts.Metrics.ObserveStage(name, d)
	logging.Info().Str("stage", name).Dur("duration", d).Msg("Stage complete")
	return nil
}

// Run executes a full build. Dimensions and the three fact tables are
// each built concurrently on a worker pool; every other stage waits for
// the one before it.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRecorder()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Policy == "" {
		opts.Policy = resolve.Lenient
	}

	pool := pond.NewPool(opts.Workers)
	defer pool.StopAndWait()

	r := &runner{opts: opts, result: &Result{}}
	res := r.result

	var snap *raw.Snapshot
	var resolver *resolve.Resolver

	err := r.stage(ctx, StageLoad, func(ctx context.Context) (err error) {
		snap, err = raw.Load(ctx, opts.InputDir)
		if err == nil {
			res.Parse = snap.Parse
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageDimensions, func(ctx context.Context) error {
		set := &dim.Set{}
		group := pool.NewGroupContext(ctx)
		for _, task := range dim.Tasks(set, snap, opts.Start, opts.End) {
			group.SubmitErr(func() error {
				if err := task.Run(); err != nil {
					return fmt.Errorf("failed to build %s: %w", task.Table, err)
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}
		res.Dimensions = set
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageResolve, func(context.Context) error {
		resolver = resolve.New(res.Dimensions, snap.Users, opts.Policy)
		res.Fallbacks = resolver.Stats()
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageFacts, func(ctx context.Context) error {
		b := fact.NewBuilder(resolver, res.Dimensions, opts.Facts)
		group := pool.NewGroupContext(ctx)
		group.SubmitErr(func() (err error) {
			res.Sales, err = b.Sales(ctx, fact.Join(snap.OrderItems, snap.Orders))
			return err
		})
		group.SubmitErr(func() (err error) {
			res.Delivery, err = b.Delivery(ctx, snap.Orders)
			return err
		})
		group.SubmitErr(func() (err error) {
			res.Satisfaction, err = b.Satisfaction(ctx, snap.Orders, snap.OrderItems)
			return err
		})
		return group.Wait()
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageEnrich, func(context.Context) error {
		ref := opts.ReferenceDate
		if ref.IsZero() {
			ref = opts.Clock.Now()
		}
		res.ReferenceDate = ref.UTC()
		res.Dimensions.Time = enrich.Calendar(res.Dimensions.Time, res.ReferenceDate)
		res.Sales = enrich.SalesMargins(res.Sales, res.Dimensions.Product)
		res.Delivery = enrich.DeliverySLA(res.Delivery)
		res.Satisfaction = enrich.Satisfaction(res.Satisfaction)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageAggregate, func(context.Context) error {
		res.DailySales = aggregate.DailySales(res.Sales)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, t := range res.Tables() {
		opts.Metrics.SetTableRows(t.Name, t.Len())
	}
	opts.Metrics.SetFallbacks(res.Fallbacks.Snapshot())
	opts.Metrics.SetParseErrors(res.Parse.Counts())

	logging.Info().
		Int("sales", len(res.Sales)).
		Int("delivery", len(res.Delivery)).
		Int("satisfaction", len(res.Satisfaction)).
		Int("daily_sales", len(res.DailySales)).
		Int64("fallbacks", res.Fallbacks.Total()).
		Int64("parse_errors", res.Parse.Total()).
		Msg("Build complete")
	return res, nil
}
