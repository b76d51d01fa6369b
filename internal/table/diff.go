package table

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Diff renders a human-readable description of how got differs from want.
// It is only meaningful when the two tables share a shape; shape and
// column mismatches are reported by the verifier before cell comparison.
func Diff(want, got *Table) string {
	d := cmp.Diff(want, got)
	if d == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("cell differences (-expected +got):\n")
	sb.WriteString(d)
	// List the first few differing positions explicitly; the raw cmp
	// output can be hard to map back to row/column coordinates.
	const maxListed = 5
	listed := 0
	for i := range want.Rows {
		if i >= len(got.Rows) {
			break
		}
		for j := range want.Rows[i] {
			if j >= len(got.Rows[i]) {
				break
			}
			if want.Rows[i][j] != got.Rows[i][j] && listed < maxListed {
				sb.WriteString(fmt.Sprintf("  row %d, column %q: expected %s, got %s\n",
					i, want.Columns[j], want.Rows[i][j].GoString(), got.Rows[i][j].GoString()))
				listed++
			}
		}
	}
	return sb.String()
}
