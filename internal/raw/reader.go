//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package raw

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// record addresses the fields of one CSV row by column name.
type record struct {
	table  string
	index  map[string]int
	fields []string
	stats  *ParseStats
}

func (r *record) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// int parses a base-10 integer. Leading zeros do not switch the base.
func (r *record) int(col string) int64 {
	s := r.str(col)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Identifiers exported through float columns look like "12.0".
		f, ok := parseFloat(s)
		if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			r.stats.Add(r.table, col)
			return 0
		}
		return int64(f)
	}
	return v
}

func (r *record) float(col string) float64 {
	s := r.str(col)
	if s == "" {
		return 0
	}
	v, ok := parseFloat(s)
	if !ok {
		r.stats.Add(r.table, col)
		return 0
	}
	return v
}

// parseFloat accepts finite decimal numbers only. NaN, infinities and hex
// floats are rejected.
func parseFloat(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (r *record) time(col string) *time.Time {
	s := r.str(col)
	if s == "" {
		return nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		r.stats.Add(r.table, col)
		return nil
	}
	return &t
}

// exportLayouts are the layouts the snapshot exports use. They are tried
// before falling back to format detection.
var exportLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339Nano,
	"2006-01-02",
}

// ParseTimestamp parses a timestamp in any of the formats found in the
// exports. Values without a zone are taken as UTC; the result is in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range exportLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// readTable reads a CSV stream with a header row, checks the required
// columns and converts every data row with build.
func readTable[T any](r io.Reader, table string, stats *ParseStats, build func(*record) T) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &warehouse.SchemaError{Table: table, Column: RequiredColumns[table][0]}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", table, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range RequiredColumns[table] {
		if _, ok := index[col]; !ok {
			return nil, &warehouse.SchemaError{Table: table, Column: col}
		}
	}

	var rows []T
	rec := &record{table: table, index: index, stats: stats}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", table, err)
		}
		rec.fields = fields
		rows = append(rows, build(rec))
	}
	return rows, nil
}

// ReadUsers reads users.csv content.
func ReadUsers(r io.Reader, stats *ParseStats) ([]User, error) {
	return readTable(r, TableUsers, stats, func(rec *record) User {
		return User{
			ID:            rec.int("id"),
			FirstName:     rec.str("first_name"),
			LastName:      rec.str("last_name"),
			Email:         rec.str("email"),
			Age:           rec.int("age"),
			Gender:        rec.str("gender"),
			State:         rec.str("state"),
			StreetAddress: rec.str("street_address"),
			PostalCode:    rec.str("postal_code"),
			City:          rec.str("city"),
			Country:       rec.str("country"),
			Latitude:      rec.float("latitude"),
			Longitude:     rec.float("longitude"),
			TrafficSource: rec.str("traffic_source"),
			CreatedAt:     rec.time("created_at"),
			CreatedAtText: rec.str("created_at"),
		}
	})
}

// ReadProducts reads products.csv content.
func ReadProducts(r io.Reader, stats *ParseStats) ([]Product, error) {
	return readTable(r, TableProducts, stats, func(rec *record) Product {
		return Product{
			ID:                   rec.int("id"),
			Cost:                 rec.float("cost"),
			Category:             rec.str("category"),
			Name:                 rec.str("name"),
			Brand:                rec.str("brand"),
			RetailPrice:          rec.float("retail_price"),
			Department:           rec.str("department"),
			SKU:                  rec.str("sku"),
			DistributionCenterID: rec.int("distribution_center_id"),
		}
	})
}

// ReadOrders reads orders.csv content.
func ReadOrders(r io.Reader, stats *ParseStats) ([]Order, error) {
	return readTable(r, TableOrders, stats, func(rec *record) Order {
		return Order{
			OrderID:     rec.int("order_id"),
			UserID:      rec.int("user_id"),
			Status:      rec.str("status"),
			CreatedAt:   rec.time("created_at"),
			ShippedAt:   rec.time("shipped_at"),
			DeliveredAt: rec.time("delivered_at"),
			ReturnedAt:  rec.time("returned_at"),
			NumOfItem:   rec.int("num_of_item"),
		}
	})
}

// ReadOrderItems reads order_items.csv content.
func ReadOrderItems(r io.Reader, stats *ParseStats) ([]OrderItem, error) {
	return readTable(r, TableOrderItems, stats, func(rec *record) OrderItem {
		return OrderItem{
			ID:        rec.int("id"),
			OrderID:   rec.int("order_id"),
			UserID:    rec.int("user_id"),
			ProductID: rec.int("product_id"),
			SalePrice: rec.float("sale_price"),
			CreatedAt: rec.time("created_at"),
		}
	})
}

// ReadDistributionCenters reads distribution_centers.csv content.
func ReadDistributionCenters(r io.Reader, stats *ParseStats) ([]DistributionCenter, error) {
	return readTable(r, TableDistributionCenters, stats, func(rec *record) DistributionCenter {
		return DistributionCenter{
			ID:        rec.int("id"),
			Name:      rec.str("name"),
			Latitude:  rec.float("latitude"),
			Longitude: rec.float("longitude"),
		}
	})
}
