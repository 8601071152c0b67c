//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package resolve

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-starbuild/internal/dim"
	"github.com/pgEdge/pgedge-starbuild/internal/raw"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

var testUsers = []raw.User{
	{ID: 10, City: "Austin", State: "Texas", Country: "United States", TrafficSource: "Search"},
	{ID: 11, City: "Paris", State: "Ile-de-France", Country: "France", TrafficSource: "Facebook"},
	{ID: 12, City: "Austin", State: "Texas", Country: "United States", TrafficSource: "Email"},
}

func newTestResolver(t *testing.T, policy Policy) *Resolver {
	t.Helper()
	set := &dim.Set{}
	var err error
	set.Time, err = dim.BuildTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	set.Region = dim.BuildRegion(testUsers)
	set.Channel, err = dim.BuildChannel()
	require.NoError(t, err)
	set.Customer, err = dim.BuildCustomer(testUsers)
	require.NoError(t, err)
	set.Product, err = dim.BuildProduct([]raw.Product{{ID: 500}, {ID: 501}})
	require.NoError(t, err)
	return New(set, testUsers, policy)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in        string
		want      Policy
		wantError bool
	}{
		{"lenient", Lenient, false},
		{"strict", Strict, false},
		{"", Lenient, false},
		{"loose", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantError {
			t.Errorf("ParsePolicy(%q) error = %v, wantError %v", tt.in, err, tt.wantError)
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimeKey(t *testing.T) {
	r := newTestResolver(t, Lenient)

	ts := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)
	id, err := r.TimeKey(&ts)
	require.NoError(t, err)
	require.Equal(t, int64(15), id)

	// Outside the generated range.
	out := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	id, err = r.TimeKey(&out)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	id, err = r.TimeKey(nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	require.Equal(t, int64(2), r.Stats().Fallbacks(DimTime))
}

func TestRegionFallbackCountsOnce(t *testing.T) {
	r := newTestResolver(t, Lenient)

	id, err := r.RegionKeyForCustomer(11)
	require.NoError(t, err)
	require.Equal(t, int64(2), id)
	require.Equal(t, int64(0), r.Stats().Total())

	// A triple absent from the region dimension falls back to key 1.
	id, err = r.RegionKey(warehouse.RegionKey{City: "Lyon", Region: "Rhone", Country: "France"})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, int64(1), r.Stats().Fallbacks(DimRegion))
	require.Equal(t, int64(1), r.Stats().Total())

	id, err = r.RegionKeyForCustomer(999)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, int64(2), r.Stats().Fallbacks(DimRegion))
}

func TestChannelKeyOnlyAcquisitionChannels(t *testing.T) {
	r := newTestResolver(t, Lenient)

	id, err := r.ChannelKey("Instagram")
	require.NoError(t, err)
	require.Equal(t, int64(6), id)

	id, err = r.ChannelKey("Amazon")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, int64(1), r.Stats().Fallbacks(DimChannel))

	src, ok := r.TrafficSource(11)
	require.True(t, ok)
	require.Equal(t, "Facebook", src)
	_, ok = r.TrafficSource(404)
	require.False(t, ok)
}

func TestPassthroughKeys(t *testing.T) {
	r := newTestResolver(t, Lenient)

	id, err := r.CustomerKey(12)
	require.NoError(t, err)
	require.Equal(t, int64(12), id)

	id, err = r.CustomerKey(404)
	require.NoError(t, err)
	require.Equal(t, int64(10), id, "default customer is the first row")

	id, err = r.ProductKey(501)
	require.NoError(t, err)
	require.Equal(t, int64(501), id)

	id, err = r.ProductKey(0)
	require.NoError(t, err)
	require.Equal(t, int64(500), id)

	require.Equal(t, map[string]int64{
		DimTime: 0, DimRegion: 0, DimChannel: 0, DimCustomer: 1, DimProduct: 1,
	}, r.Stats().Snapshot())
}

func TestStrictPolicy(t *testing.T) {
	r := newTestResolver(t, Strict)

	_, err := r.RegionKeyForCustomer(999)
	var re *warehouse.ResolutionError
	require.True(t, errors.As(err, &re))
	require.Equal(t, DimRegion, re.Dimension)

	_, err = r.TimeKey(nil)
	require.True(t, errors.As(err, &re))
	require.Equal(t, DimTime, re.Dimension)

	_, err = r.ProductKey(1)
	require.Error(t, err)

	require.Equal(t, int64(0), r.Stats().Total())
}

func TestStatsConcurrent(t *testing.T) {
	r := newTestResolver(t, Lenient)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = r.CustomerKey(-1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(800), r.Stats().Fallbacks(DimCustomer))
}
