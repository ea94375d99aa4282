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

package tabular

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTemp(t, "t.csv", "id, rate ,flag\na,\"1,500\",true\nb,2.5,0\nc,75%,\n")
	tab, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 3 {
		t.Fatalf("have %d rows, want 3", tab.Len())
	}
	if !tab.HasColumn("rate") || tab.HasColumn("nope") {
		t.Error("column lookup failed")
	}

	ids, err := tab.Strings("id")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("have %v, want %v", ids, want)
	}

	rates, err := tab.Floats("rate")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{1500, 2.5, 0.75}; !reflect.DeepEqual(rates, want) {
		t.Errorf("have %v, want %v", rates, want)
	}

	flags, err := tab.Bools("flag")
	if err != nil {
		t.Fatal(err)
	}
	if want := []bool{true, false, false}; !reflect.DeepEqual(flags, want) {
		t.Errorf("have %v, want %v", flags, want)
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("a missing file should be an error")
	}
	if _, err := Read(writeTemp(t, "empty.csv", "")); err == nil {
		t.Error("a file without a header row should be an error")
	}

	tab, err := Read(writeTemp(t, "t.csv", "a\nx\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tab.Strings("b"); err == nil {
		t.Error("an unknown column should be an error")
	}
	if _, err := tab.Floats("a"); err == nil {
		t.Error("a non-numeric cell should be an error")
	}
	if _, err := tab.Bools("a"); err == nil {
		t.Error("a non-boolean cell should be an error")
	}
}

func TestShortRows(t *testing.T) {
	tab, err := Read(writeTemp(t, "t.csv", "a,b\n1,2\n3\n"))
	if err != nil {
		t.Fatal(err)
	}
	bs, err := tab.Strings("b")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"2", ""}; !reflect.DeepEqual(bs, want) {
		t.Errorf("have %v, want %v", bs, want)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{" 2.5 ", 2.5},
		{"1,234,567", 1234567},
		{"12%", 0.12},
		{"-3.5%", -0.035},
	}
	for _, test := range tests {
		have, err := ParseFloat(test.in)
		if err != nil {
			t.Errorf("ParseFloat(%q): %v", test.in, err)
			continue
		}
		if have != test.want {
			t.Errorf("ParseFloat(%q): have %g, want %g", test.in, have, test.want)
		}
	}
	if _, err := ParseFloat(""); err == nil {
		t.Error("an empty value should be an error")
	}
	if _, err := ParseFloat("abc"); err == nil {
		t.Error("a non-number should be an error")
	}
}
