//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sink

import (
	"fmt"
	"strings"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

// sqlType maps a column kind to the type used by both database sinks.
func sqlType(k warehouse.Kind) string {
	switch k {
	case warehouse.KindInt:
		return "BIGINT"
	case warehouse.KindFloat:
		return "DOUBLE PRECISION"
	case warehouse.KindBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// qualified returns schema.table quoted, or just the table when schema is empty.
func qualified(schema, table string) string {
	if schema == "" {
		return quoteIdent(table)
	}
	return quoteIdent(schema) + "." + quoteIdent(table)
}

// CreateTableSQL returns the CREATE TABLE statement for t. The first column
// is the primary key for dimensions; facts and aggregates carry no key.
func CreateTableSQL(schema string, t *warehouse.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", qualified(schema, t.Name))
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "    %s %s NOT NULL", quoteIdent(c.Name), sqlType(c.Kind))
	}
	if strings.HasPrefix(t.Name, "dim_") && len(t.Columns) > 0 {
		fmt.Fprintf(&b, ",\n    PRIMARY KEY (%s)", quoteIdent(t.Columns[0].Name))
	}
	b.WriteString("\n)")
	return b.String()
}

// InsertSQL returns a parameterized INSERT using ? placeholders.
func InsertSQL(schema string, t *warehouse.Table) string {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualified(schema, t.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}
