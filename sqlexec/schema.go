package sqlexec

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/nl2sql"
)

// SchemaLoader reads the column catalog of the public schema so the
// NL-to-SQL pipeline can present it to the model. It implements
// nl2sql.SchemaSource.
type SchemaLoader struct {
	pool *pgxpool.Pool

	// Schema selects the namespace to describe, "public" when empty.
	Schema string
}

// NewSchemaLoader creates a SchemaLoader over an existing pgx pool.
func NewSchemaLoader(pool *pgxpool.Pool) *SchemaLoader {
	return &SchemaLoader{pool: pool}
}

// LoadSchema returns all columns of the configured schema, grouped by
// table and in declaration order within each table.
func (l *SchemaLoader) LoadSchema(ctx context.Context) ([]nl2sql.Column, error) {
	schema := l.Schema
	if schema == "" {
		schema = "public"
	}

	query := `
		SELECT table_name, column_name, data_type, is_nullable, COALESCE(column_default, '')
		FROM information_schema.columns
		WHERE table_schema = $1
		ORDER BY table_name, ordinal_position`

	rows, err := l.pool.Query(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	defer rows.Close()

	var columns []nl2sql.Column
	for rows.Next() {
		var (
			col        nl2sql.Column
			isNullable string
		)
		if err := rows.Scan(&col.TableName, &col.ColumnName, &col.DataType,
			&isNullable, &col.DefaultValue); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = isNullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	return columns, nil
}
