// Package verify checks a loaded candidate module against its fixture.
// Verification never propagates an error: every outcome, including a
// panic inside the candidate, is folded into a (success, diagnostic)
// pair that the retry loop can feed back into the next generation
// request.
package verify

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"parsesmith/internal/table"
)

// Parser is the candidate module's required entry point.
type Parser interface {
	Parse(docPath string) (*table.Table, error)
}

// ParserFunc adapts a bare function to Parser.
type ParserFunc func(string) (*table.Table, error)

func (f ParserFunc) Parse(docPath string) (*table.Table, error) { return f(docPath) }

// Verify runs the candidate against the sample document and compares its
// output with the expected table. Equality is exact: same column set and
// order, same row count, same cell kinds and values in every position.
func Verify(p Parser, documentPath, tablePath string) (bool, string) {
	got, err := runParse(p, documentPath)
	if err != nil {
		return false, fmt.Sprintf("execution failure while running Parse(): %v", err)
	}

	want, err := table.ReadFile(tablePath)
	if err != nil {
		return false, fmt.Sprintf("failed to load expected table %s: %v", tablePath, err)
	}

	if diag := compareColumns(want, got); diag != "" {
		return false, diag
	}
	if want.NumRows() != got.NumRows() {
		return false, fmt.Sprintf("shape mismatch: expected %s, got %s", want.Shape(), got.Shape())
	}
	if table.Equal(want, got) {
		return true, fmt.Sprintf("exact match: output equals expected table (%s)", want.Shape())
	}
	return false, "content mismatch: " + table.Diff(want, got)
}

// runParse invokes the entry point, converting panics into errors that
// carry the recovered value and a stack trace.
func runParse(p Parser, documentPath string) (t *table.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	t, err = p.Parse(documentPath)
	if err == nil && t == nil {
		err = errors.New("Parse returned a nil table")
	}
	return t, err
}

func compareColumns(want, got *table.Table) string {
	if len(want.Columns) != len(got.Columns) {
		return fmt.Sprintf("shape mismatch: expected %d columns %v, got %d columns %v",
			len(want.Columns), want.Columns, len(got.Columns), got.Columns)
	}
	for i := range want.Columns {
		if want.Columns[i] != got.Columns[i] {
			return fmt.Sprintf("column mismatch at position %d: expected %q, got %q (full expected order: %s)",
				i, want.Columns[i], got.Columns[i], strings.Join(want.Columns, ", "))
		}
	}
	return ""
}
