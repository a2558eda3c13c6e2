package sqlexec

import (
	"errors"
	"testing"
)

func TestValidateReadOnlyAccepts(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"plain select", "SELECT * FROM products"},
		{"trailing semicolon", "SELECT id FROM orders;"},
		{"cte", "WITH recent AS (SELECT * FROM orders) SELECT count(*) FROM recent"},
		{"lowercase", "select name from customers where city = 'Berlin'"},
		{"mutation keyword in literal", "SELECT * FROM logs WHERE message = 'please DELETE me'"},
		{"escaped quote in literal", "SELECT * FROM logs WHERE note = 'it''s an UPDATE notice'"},
		{"column name containing keyword", "SELECT created_at, updated_at FROM orders"},
		{"offset clause", "SELECT * FROM products LIMIT 10 OFFSET 20"},
		{"parenthesized select", "(SELECT 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateReadOnly(tt.sql); err != nil {
				t.Errorf("ValidateReadOnly(%q) = %v, want nil", tt.sql, err)
			}
		})
	}
}

func TestValidateReadOnlyRejects(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"empty", ""},
		{"whitespace only", "   ;  "},
		{"insert", "INSERT INTO products (name) VALUES ('x')"},
		{"update", "UPDATE products SET price = 0"},
		{"delete", "DELETE FROM products"},
		{"drop", "DROP TABLE products"},
		{"truncate", "TRUNCATE products"},
		{"multi statement", "SELECT 1; DROP TABLE products"},
		{"piggybacked mutation", "SELECT * FROM products; DELETE FROM products"},
		{"cte hiding delete", "WITH gone AS (DELETE FROM products RETURNING *) SELECT * FROM gone"},
		{"explain is not select", "EXPLAIN SELECT * FROM products"},
		{"set statement", "SET search_path TO evil"},
		{"copy", "COPY products TO '/tmp/out'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReadOnly(tt.sql)
			if err == nil {
				t.Fatalf("ValidateReadOnly(%q) = nil, want error", tt.sql)
			}
			if !errors.Is(err, ErrNotReadOnly) {
				t.Errorf("error = %v, want ErrNotReadOnly", err)
			}
		})
	}
}

func TestStripStringLiterals(t *testing.T) {
	got := stripStringLiterals("SELECT 'a;b' AS x, 'it''s' AS y")
	if got != "SELECT '   ' AS x, '   ' AS y" {
		t.Errorf("stripStringLiterals result = %q", got)
	}
}
