//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package resolve maps natural keys to the surrogate keys of the built
// dimensions.
package resolve

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Policy decides what a lookup miss does.
type Policy string

const (
	// Lenient substitutes the dimension's default key and counts the miss.
	Lenient Policy = "lenient"
	// Strict fails with a *warehouse.ResolutionError.
	Strict Policy = "strict"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case Lenient, Strict:
		return Policy(s), nil
	case "":
		return Lenient, nil
	default:
		return "", fmt.Errorf("invalid resolution policy: %s (must be lenient or strict)", s)
	}
}

// Dimension names used for fallback accounting.
const (
	DimTime     = "time"
	DimRegion   = "region"
	DimChannel  = "channel"
	DimCustomer = "customer"
	DimProduct  = "product"
)

// Stats counts lenient fallbacks per dimension.
type Stats struct {
	mu       sync.Mutex
	counters map[string]*atomic.Int64
}

func newStats() *Stats {
	s := &Stats{counters: make(map[string]*atomic.Int64)}
	for _, d := range []string{DimTime, DimRegion, DimChannel, DimCustomer, DimProduct} {
		s.counters[d] = new(atomic.Int64)
	}
	return s
}

func (s *Stats) inc(dimension string) {
	s.mu.Lock()
	c, ok := s.counters[dimension]
	if !ok {
		c = new(atomic.Int64)
		s.counters[dimension] = c
	}
	s.mu.Unlock()
	c.Add(1)
}

// Fallbacks returns the fallback count for one dimension.
func (s *Stats) Fallbacks(dimension string) int64 {
	s.mu.Lock()
	c, ok := s.counters[dimension]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return c.Load()
}

// Snapshot returns a copy of all counters.
func (s *Stats) Snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.counters))
	for d, c := range s.counters {
		out[d] = c.Load()
	}
	return out
}

// Dimensions returns the dimension names tracked, sorted.
func (s *Stats) Dimensions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.counters))
	for d := range s.counters {
		names = append(names, d)
	}
	sort.Strings(names)
	return names
}

// Total returns the fallback count across all dimensions.
func (s *Stats) Total() int64 {
	var n int64
	for _, v := range s.Snapshot() {
		n += v
	}
	return n
}
