package nl2sql

import (
	"strings"
	"testing"
)

func TestRenderSchemaGroupsByTable(t *testing.T) {
	columns := []Column{
		{TableName: "users", ColumnName: "id", DataType: "integer", Nullable: false},
		{TableName: "users", ColumnName: "email", DataType: "text", Nullable: false},
		{TableName: "posts", ColumnName: "id", DataType: "integer", Nullable: false},
		{TableName: "posts", ColumnName: "body", DataType: "text", Nullable: true},
		{TableName: "users", ColumnName: "bio", DataType: "text", Nullable: true, DefaultValue: "''"},
	}

	rendered := RenderSchema(columns)

	usersIdx := strings.Index(rendered, "Table users:")
	postsIdx := strings.Index(rendered, "Table posts:")
	if usersIdx == -1 || postsIdx == -1 {
		t.Fatalf("missing table headers:\n%s", rendered)
	}
	if usersIdx > postsIdx {
		t.Error("tables should appear in first-appearance order")
	}
	if strings.Count(rendered, "Table users:") != 1 {
		t.Error("each table should render exactly one header")
	}
	if !strings.Contains(rendered, "- id (integer, not null)") {
		t.Errorf("missing not-null column line:\n%s", rendered)
	}
	if !strings.Contains(rendered, "- body (text, nullable)") {
		t.Errorf("missing nullable column line:\n%s", rendered)
	}
	if !strings.Contains(rendered, "- bio (text, nullable, default '')") {
		t.Errorf("missing default value:\n%s", rendered)
	}
}

func TestRenderSchemaEmpty(t *testing.T) {
	if got := RenderSchema(nil); got != "" {
		t.Errorf("RenderSchema(nil) = %q, want empty", got)
	}
}

func TestFilterSchema(t *testing.T) {
	columns := []Column{
		{TableName: "products", ColumnName: "id"},
		{TableName: "orders", ColumnName: "id"},
		{TableName: "customers", ColumnName: "id"},
	}

	tests := []struct {
		name       string
		hints      []string
		wantTables []string
	}{
		{"no hints keeps all", nil, []string{"products", "orders", "customers"}},
		{"single hint", []string{"orders"}, []string{"orders"}},
		{"case insensitive", []string{"PRODUCTS"}, []string{"products"}},
		{"whitespace trimmed", []string{" customers "}, []string{"customers"}},
		{"stale hints keep all", []string{"invoices"}, []string{"products", "orders", "customers"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := filterSchema(columns, tt.hints)
			if len(filtered) != len(tt.wantTables) {
				t.Fatalf("filtered %d columns, want %d", len(filtered), len(tt.wantTables))
			}
			for i, col := range filtered {
				if col.TableName != tt.wantTables[i] {
					t.Errorf("filtered[%d].TableName = %q, want %q", i, col.TableName, tt.wantTables[i])
				}
			}
		})
	}
}
