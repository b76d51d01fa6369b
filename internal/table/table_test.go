package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Table {
	t := New("Date", "Narration", "Debit", "Credit", "Balance")
	_ = t.Append(String("01-08-2024"), String("UPI/CRED"), Float(0), Float(500), Float(1500.50))
	_ = t.Append(String("02-08-2024"), String("ATM WDL"), Float(200), Float(0), Float(1300.50))
	return t
}

func TestAppendArity(t *testing.T) {
	tab := New("A", "B")
	require.NoError(t, tab.Append(String("x"), Int(1)))
	err := tab.Append(String("only one"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 columns")
	assert.Equal(t, 1, tab.NumRows())
}

func TestShape(t *testing.T) {
	assert.Equal(t, "2x5", sample().Shape())
	assert.Equal(t, "0x0", New().Shape())
}

func TestEqualExactMatch(t *testing.T) {
	assert.True(t, Equal(sample(), sample()))
}

func TestEqualLaws(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Table)
	}{
		{
			name:   "single differing cell",
			mutate: func(tb *Table) { tb.Rows[1][4] = Float(1300.51) },
		},
		{
			name:   "differing cell kind same display value",
			mutate: func(tb *Table) { tb.Rows[0][2] = Int(0) }, // int 0 vs float 0
		},
		{
			name:   "string vs numeric",
			mutate: func(tb *Table) { tb.Rows[0][3] = String("500") },
		},
		{
			name:   "missing row",
			mutate: func(tb *Table) { tb.Rows = tb.Rows[:1] },
		},
		{
			name: "extra row",
			mutate: func(tb *Table) {
				_ = tb.Append(String("03-08-2024"), String("FEE"), Float(10), Float(0), Float(1290.50))
			},
		},
		{
			name: "reordered columns",
			mutate: func(tb *Table) {
				tb.Columns[0], tb.Columns[1] = tb.Columns[1], tb.Columns[0]
			},
		},
		{
			name:   "renamed column",
			mutate: func(tb *Table) { tb.Columns[2] = "Withdrawal" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sample()
			tt.mutate(got)
			assert.False(t, Equal(sample(), got))
		})
	}
}

func TestEqualNil(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(sample(), nil))
	assert.False(t, Equal(nil, sample()))
}

func TestDiffReportsPosition(t *testing.T) {
	want := sample()
	got := sample()
	got.Rows[1][4] = Float(9999)

	d := Diff(want, got)
	assert.NotEmpty(t, d)
	assert.Contains(t, d, `row 1, column "Balance"`)
	assert.Contains(t, d, "9999")
}

func TestDiffIdenticalTables(t *testing.T) {
	assert.Empty(t, Diff(sample(), sample()))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "float", KindFloat.String())
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, int64(7), Int(7).Value())
	assert.Equal(t, 2.5, Float(2.5).Value())
	assert.Equal(t, "hi", String("hi").Value())
}
