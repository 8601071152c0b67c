package raw

import (
	"sort"
	"sync"
)

// ParseStats counts field values that could not be parsed, keyed by
// "table.column".
type ParseStats struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewParseStats creates an empty counter set.
func NewParseStats() *ParseStats {
	return &ParseStats{counts: make(map[string]int64)}
}

// Add records one parse error.
func (s *ParseStats) Add(table, column string) {
	s.mu.Lock()
	s.counts[table+"."+column]++
	s.mu.Unlock()
}

// Total returns the number of parse errors across all columns.
func (s *ParseStats) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Counts returns a copy of the per-column counters.
func (s *ParseStats) Counts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Columns returns the columns with at least one parse error, sorted.
func (s *ParseStats) Columns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cols := make([]string, 0, len(s.counts))
	for k := range s.counts {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
