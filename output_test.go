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

package roams

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// With 4 well visits at one well per site and one simulated well, the
// quantile offsets from the mean are halved.
func TestSummarize(t *testing.T) {
	m := &Model{WellVisitCount: 4, WellsPerSite: 1, WellsToSimulate: 1}
	s := m.summarize([]float64{1, 2, 3, 4})
	if s.Avg != 2.5 {
		t.Errorf("avg: have %g, want 2.5", s.Avg)
	}
	// The 2.5% quantile of {1,2,3,4} is 1.075, so the scaled bound is
	// 2.5 - 1.425/2.
	if want := 2.5 - 1.425/2; math.Abs(s.Low-want) > 1e-12 {
		t.Errorf("low: have %g, want %g", s.Low, want)
	}
	if want := 2.5 + 1.425/2; math.Abs(s.High-want) > 1e-12 {
		t.Errorf("high: have %g, want %g", s.High, want)
	}
}

func TestAboveBelowTotals(t *testing.T) {
	values := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})
	tps := []float64{2, 25}

	above := aboveTotals(values, values, tps)
	if above[0] != 5 || above[1] != 30 {
		t.Errorf("above totals: have %v, want [5 30]", above)
	}
	below := belowTotals(values, tps)
	if below[0] != 1 || below[1] != 30 {
		t.Errorf("below totals: have %v, want [1 30]", below)
	}
}

func TestWriteOutputs(t *testing.T) {
	m := testModel(t)
	res, err := m.Run()
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	if err := m.WriteOutputs(res, dir, true); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"production_and_midstream_summary.csv",
		"fractional_loss_summary.csv",
		"combined_distribution_summary.csv",
		"aerial_characterization.csv",
		"mean_production_distributions.csv",
		"combined_cumulative.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "production_and_midstream_summary.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// Header, ten component rows, and the grand total.
	if len(rows) != 12 {
		t.Errorf("key results table has %d rows, want 12", len(rows))
	}
	for i, row := range rows {
		if len(row) != 7 {
			t.Errorf("row %d has %d fields, want 7", i, len(row))
		}
	}
}
