// Package table models tabular data as a typed columnar value: an ordered
// list of column names plus rows of typed cells. Candidate parser modules
// build Tables through the yaegi symbol bridge in symbols.go, and the
// verifier compares them against expected tables with exact, coercion-free
// equality.
package table

import (
	"fmt"
	"strconv"
)

// Kind identifies the scalar type of a cell.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Cell is a tagged scalar value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind Kind
	S    string
	I    int64
	F    float64
}

// String builds a string cell.
func String(s string) Cell { return Cell{Kind: KindString, S: s} }

// Int builds an int cell.
func Int(i int64) Cell { return Cell{Kind: KindInt, I: i} }

// Float builds a float cell.
func Float(f float64) Cell { return Cell{Kind: KindFloat, F: f} }

// Value returns the cell's scalar as an untyped value, for display.
func (c Cell) Value() any {
	switch c.Kind {
	case KindInt:
		return c.I
	case KindFloat:
		return c.F
	default:
		return c.S
	}
}

func (c Cell) GoString() string {
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(c.I, 10)
	case KindFloat:
		return strconv.FormatFloat(c.F, 'g', -1, 64)
	default:
		return strconv.Quote(c.S)
	}
}

// Table is an ordered set of named columns with typed rows.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds one row. The number of cells must match the column count.
func (t *Table) Append(cells ...Cell) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.Columns) }

// Shape renders the table dimensions as "RxC".
func (t *Table) Shape() string {
	return fmt.Sprintf("%dx%d", t.NumRows(), t.NumCols())
}

// Equal reports exact structural and value equality: same column names in
// the same order, same row count, and kind+value identical cells in every
// position. There is no numeric coercion and no float tolerance.
func Equal(a, b *Table) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Columns) != len(b.Columns) || len(a.Rows) != len(b.Rows) {
		return false
	}
	for i := range a.Columns {
		if a.Columns[i] != b.Columns[i] {
			return false
		}
	}
	for i := range a.Rows {
		if len(a.Rows[i]) != len(b.Rows[i]) {
			return false
		}
		for j := range a.Rows[i] {
			if a.Rows[i][j] != b.Rows[i][j] {
				return false
			}
		}
	}
	return true
}
