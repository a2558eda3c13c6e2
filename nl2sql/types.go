// Package nl2sql converts natural-language questions into read-only
// SQL queries with a heuristic confidence signal.
package nl2sql

import "context"

// Column is one row of the schema descriptor consumed by the pipeline.
// The ordered sequence is sourced externally (see the sqlexec package
// for the Postgres implementation) and read-only here.
type Column struct {
	TableName    string
	ColumnName   string
	DataType     string
	Nullable     bool
	DefaultValue string
}

// SchemaSource provides the schema descriptor rows, grouped implicitly
// by their order of appearance.
type SchemaSource interface {
	LoadSchema(ctx context.Context) ([]Column, error)
}

// Result is the outcome of one conversion. Confidence is a best-effort
// trust signal in [0,1], not a correctness proof: fallback extraction
// caps it at the converter's degraded ceiling so callers can tell
// trusted results from best-effort ones.
type Result struct {
	SQL         string  `json:"sql"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}

// ConversionError reports a transport-level failure during conversion.
// Parsing trouble never produces one; it degrades the confidence
// instead. Retrying is the caller's responsibility.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return "nl2sql conversion failed: " + e.Err.Error()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
