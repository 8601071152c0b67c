//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package aggregate rolls fact tables up to summary grains.
package aggregate

import (
	"sort"

	"github.com/pgEdge/pgedge-starbuild/internal/enrich"
	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// DailyKey is the grain of the daily sales summary.
type DailyKey struct {
	TimeID    int64
	RegionID  int64
	ChannelID int64
}

func (k DailyKey) less(o DailyKey) bool {
	if k.TimeID != o.TimeID {
		return k.TimeID < o.TimeID
	}
	if k.RegionID != o.RegionID {
		return k.RegionID < o.RegionID
	}
	return k.ChannelID < o.ChannelID
}

type dailyGroup struct {
	revenue   float64
	items     int64
	profit    float64
	orders    map[string]struct{}
	customers map[int64]struct{}
}

// DailySales groups enriched sales by (time, region, channel). Sums are
// exact regroupings of the input, so total revenue is preserved. Rows are
// sorted by key.
func DailySales(sales warehouse.SalesFacts) warehouse.DailySales {
	groups := make(map[DailyKey]*dailyGroup)
	for _, s := range sales {
		k := DailyKey{TimeID: s.TimeID, RegionID: s.RegionID, ChannelID: s.ChannelID}
		g, ok := groups[k]
		if !ok {
			g = &dailyGroup{
				orders:    make(map[string]struct{}),
				customers: make(map[int64]struct{}),
			}
			groups[k] = g
		}
		g.revenue += s.Revenue
		g.items += s.Quantity
		g.profit += s.GrossMargin
		g.orders[s.OrderID] = struct{}{}
		g.customers[s.CustomerID] = struct{}{}
	}

	keys := make([]DailyKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make(warehouse.DailySales, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		orders := int64(len(g.orders))
		out = append(out, warehouse.DailySalesRow{
			TimeID:          k.TimeID,
			RegionID:        k.RegionID,
			ChannelID:       k.ChannelID,
			TotalRevenue:    g.revenue,
			TotalOrders:     orders,
			TotalItems:      g.items,
			TotalCustomers:  int64(len(g.customers)),
			TotalProfit:     g.profit,
			AvgOrderValue:   enrich.SafeDiv(g.revenue, float64(orders)),
			AvgProfitMargin: enrich.Percent(g.profit, g.revenue),
		})
	}
	return out
}
