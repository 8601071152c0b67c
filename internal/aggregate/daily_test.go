//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package aggregate

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-starbuild/internal/datagen"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

func TestDailySalesGroups(t *testing.T) {
	sales := warehouse.SalesFacts{
		{TimeID: 2, RegionID: 1, ChannelID: 3, OrderID: "ORD1000", CustomerID: 10, Revenue: 50, Quantity: 1, GrossMargin: 30},
		{TimeID: 2, RegionID: 1, ChannelID: 3, OrderID: "ORD1000", CustomerID: 10, Revenue: 15, Quantity: 1, GrossMargin: 9.5},
		{TimeID: 2, RegionID: 1, ChannelID: 3, OrderID: "ORD1001", CustomerID: 11, Revenue: 35, Quantity: 2, GrossMargin: 0.5},
		{TimeID: 1, RegionID: 2, ChannelID: 1, OrderID: "ORD1001", CustomerID: 11, Revenue: 0, Quantity: 1, GrossMargin: 0},
	}

	got := DailySales(sales)
	want := warehouse.DailySales{
		{
			TimeID: 1, RegionID: 2, ChannelID: 1,
			TotalRevenue: 0, TotalOrders: 1, TotalItems: 1, TotalCustomers: 1,
			TotalProfit: 0, AvgOrderValue: 0, AvgProfitMargin: 0,
		},
		{
			TimeID: 2, RegionID: 1, ChannelID: 3,
			TotalRevenue: 100, TotalOrders: 2, TotalItems: 4, TotalCustomers: 2,
			TotalProfit: 40, AvgOrderValue: 50, AvgProfitMargin: 40,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DailySales mismatch (-want +got):\n%s", diff)
	}
}

func TestDailySalesEmpty(t *testing.T) {
	require.Empty(t, DailySales(nil))
}

func TestDailySalesLosslessAndUnique(t *testing.T) {
	f := datagen.NewFakerWithSeed(2024)
	sales := make(warehouse.SalesFacts, 2000)
	total := 0.0
	for i := range sales {
		sales[i] = warehouse.SalesFact{
			SaleID:      int64(i + 1),
			TimeID:      int64(f.Int(1, 30)),
			RegionID:    int64(f.Int(1, 5)),
			ChannelID:   int64(f.Int(1, 10)),
			CustomerID:  int64(f.Int(1, 200)),
			OrderID:     fmt.Sprintf("ORD%d", i/2+1000),
			Revenue:     float64(f.Int(0, 50000)) / 100,
			Quantity:    1,
			GrossMargin: float64(f.Int(-1000, 20000)) / 100,
		}
		total += sales[i].Revenue
	}

	got := DailySales(sales)
	require.Less(t, len(got), len(sales))

	seen := make(map[DailyKey]bool)
	sum := 0.0
	var items int64
	for i, r := range got {
		k := DailyKey{r.TimeID, r.RegionID, r.ChannelID}
		require.False(t, seen[k], "duplicate key %+v", k)
		seen[k] = true
		if i > 0 {
			prev := got[i-1]
			require.True(t, DailyKey{prev.TimeID, prev.RegionID, prev.ChannelID}.less(k), "rows not sorted")
		}
		sum += r.TotalRevenue
		items += r.TotalItems
		require.LessOrEqual(t, r.TotalOrders, r.TotalItems)
	}
	require.InDelta(t, total, sum, 1e-6)
	require.Equal(t, int64(len(sales)), items)
}
