package nl2sql

import (
	"fmt"
	"strings"
)

// RenderSchema formats the schema descriptor as a compact per-table
// column listing for prompt inclusion. Tables appear in order of first
// appearance; columns keep their descriptor order.
func RenderSchema(columns []Column) string {
	var order []string
	byTable := make(map[string][]Column)

	for _, col := range columns {
		if _, seen := byTable[col.TableName]; !seen {
			order = append(order, col.TableName)
		}
		byTable[col.TableName] = append(byTable[col.TableName], col)
	}

	var b strings.Builder
	for i, table := range order {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Table %s:\n", table)
		for _, col := range byTable[table] {
			nullability := "not null"
			if col.Nullable {
				nullability = "nullable"
			}
			fmt.Fprintf(&b, "  - %s (%s, %s", col.ColumnName, col.DataType, nullability)
			if col.DefaultValue != "" {
				fmt.Fprintf(&b, ", default %s", col.DefaultValue)
			}
			b.WriteString(")\n")
		}
	}
	return b.String()
}

// filterSchema keeps only the columns of the hinted tables. An empty
// hint list keeps everything.
func filterSchema(columns []Column, tableHints []string) []Column {
	if len(tableHints) == 0 {
		return columns
	}

	hinted := make(map[string]bool, len(tableHints))
	for _, t := range tableHints {
		hinted[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var filtered []Column
	for _, col := range columns {
		if hinted[strings.ToLower(col.TableName)] {
			filtered = append(filtered, col)
		}
	}
	// Hints that match nothing fall back to the full schema.
	if len(filtered) == 0 {
		return columns
	}
	return filtered
}
