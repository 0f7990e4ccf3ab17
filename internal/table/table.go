// Package table loads a delimited text file into a column-oriented table and
// coerces the kinematic columns to numeric form. Loading is lenient — a
// malformed row costs one row, never the run — while schema and data-quality
// failures are fatal and carry enough context to diagnose from the message.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// RequiredColumns are the nine kinematic fields every usable dataset must
// name: energy and momentum components for each particle, plus the reference
// invariant mass. Matching is exact after whitespace trimming.
var RequiredColumns = []string{"E1", "px1", "py1", "pz1", "E2", "px2", "py2", "pz2", "M"}

// ErrNoValidRows reports that numeric coercion left nothing to analyze.
var ErrNoValidRows = errors.New("no valid rows after numeric coercion")

// SchemaError reports required columns absent from the loaded table. Both
// the missing names and the names actually found are part of the message:
// "missing pz2" alone is useless when the real problem is a naming mismatch.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns %v; columns found: %v", e.Missing, e.Found)
}

// ParseError reports a hard (non-row-level) parse failure together with the
// format that was attempted, so the failure is reproducible.
type ParseError struct {
	Path       string
	Delimiter  rune
	HeaderLine int
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (delimiter %q, header line %d): %v",
		e.Path, e.Delimiter, e.HeaderLine, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Table is a column-oriented view of one delimited file. All columns have
// equal length at all times; names are unique after trimming.
type Table struct {
	names   []string            // column order as loaded
	text    map[string][]string // raw values, per column
	numeric map[string][]float64

	rows int
	// SkippedRows counts body lines discarded by the lenient parse.
	SkippedRows int
}

// Len returns the current row count.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in load order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	_, text := t.text[name]
	_, num := t.numeric[name]
	return text || num
}

// Text returns the raw string values of a column, or nil if the column does
// not exist or has been coerced to numeric.
func (t *Table) Text(name string) []string { return t.text[name] }

// Numeric returns the coerced float values of a column, or nil if the column
// has not been coerced.
func (t *Table) Numeric(name string) []float64 { return t.numeric[name] }

func trimmed(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
