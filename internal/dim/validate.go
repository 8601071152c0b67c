//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dim builds the dimension tables of the warehouse.
package dim

import (
	"fmt"
	"math"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// weightTolerance absorbs float rounding when summing weights.
const weightTolerance = 1e-9

// ValidateDenseKeys checks that keys are unique and form the range 1..N.
// Order does not matter.
func ValidateDenseKeys(table string, keys []int64) error {
	seen := make([]bool, len(keys)+1)
	for _, k := range keys {
		if k < 1 || k > int64(len(keys)) {
			return &warehouse.ValidationError{
				Table:  table,
				Reason: fmt.Sprintf("key %d outside dense range 1..%d", k, len(keys)),
			}
		}
		if seen[k] {
			return &warehouse.ValidationError{Table: table, Reason: fmt.Sprintf("duplicate key %d", k)}
		}
		seen[k] = true
	}
	return nil
}

// ValidateUniqueKeys checks that keys are unique.
func ValidateUniqueKeys(table string, keys []int64) error {
	seen := make(map[int64]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			return &warehouse.ValidationError{Table: table, Reason: fmt.Sprintf("duplicate key %d", k)}
		}
		seen[k] = struct{}{}
	}
	return nil
}

// ValidateWeights checks that weights are non-negative and sum to 1.0.
func ValidateWeights(table string, weights []float64) error {
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return &warehouse.ValidationError{Table: table, Reason: fmt.Sprintf("negative weight %g", w)}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return &warehouse.ValidationError{Table: table, Reason: fmt.Sprintf("weights sum to %g, want 1.0", sum)}
	}
	return nil
}
