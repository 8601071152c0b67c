//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package fact builds the fact tables from the source snapshot and the
// dimension lookups.
package fact

import (
	"time"

	"github.com/pgEdge/pgedge-starbuild/internal/raw"
)

// JoinedItem is an order line with the columns it takes from its order.
// Order columns are copied under their own names when the join runs;
// nothing downstream reads item and order columns by guessing.
type JoinedItem struct {
	Item raw.OrderItem

	OrderFound     bool
	OrderUserID    int64
	OrderCreatedAt *time.Time
	OrderStatus    string
}

// UserID returns the order's user, or the line's own user when the order
// is missing from the snapshot.
func (j JoinedItem) UserID() int64 {
	if j.OrderFound {
		return j.OrderUserID
	}
	return j.Item.UserID
}

// EventTime returns the order creation time, or the line's own creation
// time when the order is missing from the snapshot.
func (j JoinedItem) EventTime() *time.Time {
	if j.OrderFound {
		return j.OrderCreatedAt
	}
	return j.Item.CreatedAt
}

// Join left-joins items to orders on order_id, keeping item order.
func Join(items []raw.OrderItem, orders []raw.Order) []JoinedItem {
	byID := make(map[int64]*raw.Order, len(orders))
	for i := range orders {
		if _, ok := byID[orders[i].OrderID]; !ok {
			byID[orders[i].OrderID] = &orders[i]
		}
	}

	out := make([]JoinedItem, len(items))
	for i, it := range items {
		j := JoinedItem{Item: it}
		if o, ok := byID[it.OrderID]; ok {
			j.OrderFound = true
			j.OrderUserID = o.UserID
			j.OrderCreatedAt = o.CreatedAt
			j.OrderStatus = o.Status
		}
		out[i] = j
	}
	return out
}

// limit returns the sample size for n candidate rows under a row budget.
// A budget of 0 or less means no limit.
func limit(n, budget int) int {
	if budget > 0 && budget < n {
		return budget
	}
	return n
}
