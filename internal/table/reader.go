package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadFile loads an expected table from disk, dispatching on extension.
// Supported: .csv and .xlsx.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported table format: %s", filepath.Ext(path))
	}
}

// ReadHeader returns the ordered column names of a table file without
// materializing any rows.
func ReadHeader(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		header, err := csv.NewReader(f).Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV header: %w", err)
		}
		return header, nil
	case ".xlsx":
		records, err := readXLSXRecords(path)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("workbook %s has no header row", path)
		}
		return records[0], nil
	default:
		return nil, fmt.Errorf("unsupported table format: %s", filepath.Ext(path))
	}
}

// ReadCSV loads a CSV file as a typed table. The first record is the
// header; scalar types are inferred per column (see inferTable).
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s has no header row", path)
	}
	return inferTable(records[0], records[1:])
}

// ReadXLSX loads the first sheet of a workbook as a typed table.
func ReadXLSX(path string) (*Table, error) {
	records, err := readXLSXRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("workbook %s has no header row", path)
	}
	header := records[0]
	// GetRows drops trailing empty cells; pad data rows to header width.
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec[:len(header)])
	}
	return inferTable(header, rows)
}

func readXLSXRecords(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// inferTable builds a typed table from raw string records. Each column
// gets the narrowest scalar kind that admits every value in it: int if
// all values parse as integers, else float if all parse as floats, else
// string. A column containing an empty value stays string; there is no
// null cell kind.
func inferTable(header []string, records [][]string) (*Table, error) {
	t := New(header...)
	kinds := make([]Kind, len(header))
	for col := range header {
		kinds[col] = inferColumnKind(records, col)
	}
	for _, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("record has %d fields, header has %d", len(rec), len(header))
		}
		cells := make([]Cell, len(rec))
		for col, raw := range rec {
			switch kinds[col] {
			case KindInt:
				i, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("column %q: %w", header[col], err)
				}
				cells[col] = Int(i)
			case KindFloat:
				fv, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("column %q: %w", header[col], err)
				}
				cells[col] = Float(fv)
			default:
				cells[col] = String(raw)
			}
		}
		if err := t.Append(cells...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func inferColumnKind(records [][]string, col int) Kind {
	kind := KindInt
	seen := false
	for _, rec := range records {
		if col >= len(rec) {
			return KindString
		}
		v := rec[col]
		if v == "" {
			return KindString
		}
		seen = true
		if kind == KindInt {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			kind = KindFloat
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return KindString
		}
	}
	if !seen {
		return KindString
	}
	return kind
}
