//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"errors"
	"testing"
)

func TestTablesHaveMatchingRowWidths(t *testing.T) {
	tables := []Tabular{
		TimeDim{{TimeID: 1}},
		RegionDim{{RegionID: 1}},
		ChannelDim{{ChannelID: 1}},
		CustomerDim{{CustomerID: 1}},
		ProductDim{{ProductID: 1}},
		DistributionCenterDim{{DistributionCenterID: 1}},
		DeliveryMethodDim{{DeliveryMethodID: 1}},
		CustomerSegmentDim{{SegmentID: 1}},
		OrderStatusDim{{StatusID: 1}},
		SatisfactionCategoryDim{{CategoryID: 1}},
		SalesFacts{{SaleID: 1}},
		DeliveryFacts{{DeliveryFactID: 1}},
		SatisfactionFacts{{SatisfactionID: 1}},
		DailySales{{TimeID: 1}},
	}

	seen := make(map[string]bool)
	for _, tab := range tables {
		tbl := tab.Table()
		if seen[tbl.Name] {
			t.Errorf("duplicate table name %s", tbl.Name)
		}
		seen[tbl.Name] = true

		if tbl.Len() != 1 {
			t.Fatalf("%s: expected 1 row, got %d", tbl.Name, tbl.Len())
		}
		if len(tbl.Rows[0]) != len(tbl.Columns) {
			t.Errorf("%s: row has %d values, table has %d columns", tbl.Name, len(tbl.Rows[0]), len(tbl.Columns))
		}
		for i, c := range tbl.Columns {
			if !kindMatches(c.Kind, tbl.Rows[0][i]) {
				t.Errorf("%s.%s: value %T does not match kind %s", tbl.Name, c.Name, tbl.Rows[0][i], c.Kind)
			}
		}
		if tbl.Grain == "" {
			t.Errorf("%s: empty grain", tbl.Name)
		}
	}
}

func kindMatches(k Kind, v any) bool {
	switch v.(type) {
	case int64:
		return k == KindInt
	case float64:
		return k == KindFloat
	case string:
		return k == KindString
	case bool:
		return k == KindBool
	}
	return false
}

func TestColumnIndex(t *testing.T) {
	tbl := SalesFacts{}.Table()
	if got := tbl.ColumnIndex("sale_id"); got != 0 {
		t.Errorf("sale_id index = %d, want 0", got)
	}
	if got := tbl.ColumnIndex("margin_rate"); got != len(tbl.Columns)-1 {
		t.Errorf("margin_rate index = %d, want %d", got, len(tbl.Columns)-1)
	}
	if got := tbl.ColumnIndex("nope"); got != -1 {
		t.Errorf("unknown column index = %d, want -1", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{int64(42), "42"},
		{3.5, "3.5"},
		{60.0, "60"},
		{true, "true"},
		{"Q1 2024", "Q1 2024"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	var err error = &SchemaError{Table: "users", Column: "traffic_source"}
	if got := err.Error(); got != `schema error: table users is missing required column "traffic_source"` {
		t.Errorf("unexpected message %q", got)
	}

	err = &ResolutionError{Dimension: "region", Key: "Paris|IDF|France"}
	var re *ResolutionError
	if !errors.As(err, &re) || re.Dimension != "region" {
		t.Errorf("errors.As failed for ResolutionError")
	}
}
