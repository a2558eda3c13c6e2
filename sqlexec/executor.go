package sqlexec

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultRowLimit bounds result sets when the caller sets none.
const defaultRowLimit = 1000

// Result is a normalized query result.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`

	// Truncated is set when the row limit cut the result short.
	Truncated bool `json:"truncated,omitempty"`
}

// Executor runs guarded read-only queries.
type Executor struct {
	pool *pgxpool.Pool

	// RowLimit caps the number of returned rows. Zero means the
	// package default.
	RowLimit int
}

// NewExecutor creates an Executor from an existing pgx pool.
func NewExecutor(pool *pgxpool.Pool) *Executor {
	return &Executor{pool: pool}
}

// Query validates sql with the read-only guard and runs it inside a
// read-only transaction. Both gates have to pass: the guard catches
// obvious mutations up front, the transaction mode stops anything the
// textual check missed.
func (e *Executor) Query(ctx context.Context, sql string) (*Result, error) {
	if err := ValidateReadOnly(sql); err != nil {
		return nil, err
	}

	limit := e.RowLimit
	if limit <= 0 {
		limit = defaultRowLimit
	}

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	result := &Result{Rows: [][]any{}}

	fds := rows.FieldDescriptions()
	result.Columns = make([]string, len(fds))
	for i, fd := range fds {
		result.Columns[i] = string(fd.Name)
	}

	for rows.Next() {
		if len(result.Rows) >= limit {
			result.Truncated = true
			break
		}
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		result.Rows = append(result.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to close transaction: %w", err)
	}

	return result, nil
}
