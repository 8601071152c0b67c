//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides the seeded random sources used to synthesize
// fact attributes that have no counterpart in the source snapshot.
package datagen

import (
	"encoding/binary"
	"math"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cespare/xxhash/v2"
)

// Faker provides seeded random draws using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// Stream returns the random source for one row of a named stream. The
// values it yields depend only on the run seed, the stream name and the
// row index, so rows can be synthesized in any order or in parallel.
func Stream(seed uint64, name string, row int) *Faker {
	return NewFakerWithSeed(DeriveSeed(seed, name, row))
}

// DeriveSeed hashes the run seed, stream name and row index into a
// sub-seed.
func DeriveSeed(seed uint64, name string, row int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(row))

	d := xxhash.New()
	_, _ = d.Write(buf[:8])
	_, _ = d.WriteString(name)
	_, _ = d.Write(buf[8:])
	return d.Sum64()
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Unit returns a float64 in [0, 1).
func (f *Faker) Unit() float64 {
	return f.faker.Float64()
}

// Chance reports true with probability p.
func (f *Faker) Chance(p float64) bool {
	return f.Unit() < p
}

// Poisson draws from a Poisson distribution with mean lambda using
// Knuth's multiplication method.
func (f *Faker) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= f.Unit()
		if p <= limit {
			return k
		}
		k++
	}
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights. Weights need
// not be normalized.
func ChooseWeighted[T any](f *Faker, items []T, weights []float64) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0.0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Unit() * totalWeight
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}
