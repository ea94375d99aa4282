/*
Copyright © 2024 the ROAMS authors.
This file is part of ROAMS.

ROAMS is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ROAMS is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ROAMS.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package tabular reads the column-oriented data files the model takes
// as input. Files ending in .xlsx are read as Excel workbooks (first
// sheet); everything else is read as CSV with a header row.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// A Table is a header row plus data rows.
type Table struct {
	path   string
	header []string
	index  map[string]int
	rows   [][]string
}

// Read loads the table at path.
func Read(path string) (*Table, error) {
	var header []string
	var rows [][]string
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := xlsx.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("tabular: opening xlsx file %s: %v", path, err)
		}
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("tabular: xlsx file %s has no sheets", path)
		}
		for i, row := range f.Sheets[0].Rows {
			var cells []string
			for _, c := range row.Cells {
				cells = append(cells, c.String())
			}
			if i == 0 {
				header = cells
			} else {
				rows = append(rows, cells)
			}
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("tabular: opening %s: %v", path, err)
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("tabular: reading %s: %v", path, err)
		}
		if len(records) > 0 {
			header = records[0]
			rows = records[1:]
		}
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("tabular: %s has no header row", path)
	}

	t := &Table{path: path, header: header, rows: rows, index: make(map[string]int, len(header))}
	for i, h := range header {
		t.index[strings.TrimSpace(h)] = i
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the header names.
func (t *Table) Columns() []string { return t.header }

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Strings returns the named column as strings, trimmed of surrounding
// whitespace. Rows too short for the column yield empty strings.
func (t *Table) Strings(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("tabular: %s has no column %q; the columns are: %s",
			t.path, name, strings.Join(t.header, ", "))
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		if i < len(row) {
			out[r] = strings.TrimSpace(row[i])
		}
	}
	return out, nil
}

// Floats returns the named column parsed as floating point numbers.
// Thousands separators are tolerated; empty cells are an error.
func (t *Table) Floats(name string) ([]float64, error) {
	strs, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(strs))
	for r, s := range strs {
		v, err := ParseFloat(s)
		if err != nil {
			return nil, fmt.Errorf("tabular: %s column %q row %d: %v", t.path, name, r+1, err)
		}
		out[r] = v
	}
	return out, nil
}

// Bools returns the named column parsed as booleans, accepting the
// usual spellings plus 0/1.
func (t *Table) Bools(name string) ([]bool, error) {
	strs, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(strs))
	for r, s := range strs {
		switch strings.ToLower(s) {
		case "true", "t", "yes", "1":
			out[r] = true
		case "false", "f", "no", "0", "":
			out[r] = false
		default:
			return nil, fmt.Errorf("tabular: %s column %q row %d: cannot parse %q as a boolean",
				t.path, name, r+1, s)
		}
	}
	return out, nil
}

// Ints returns the named column parsed as integers.
func (t *Table) Ints(name string) ([]int, error) {
	vals, err := t.Floats(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(vals))
	for r, v := range vals {
		out[r] = int(v)
	}
	return out, nil
}

// ParseFloat parses a number that may carry thousands separators or a
// trailing percent sign (parsed as its fractional value).
func ParseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	return strconv.ParseFloat(s, 64)
}
