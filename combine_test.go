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
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCombine(t *testing.T) {
	aerial := mat.NewDense(3, 1, []float64{10, 20, 30})
	partial := mat.NewDense(3, 1, []float64{1, 2, 3})
	simulated := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 25})

	combined, missed, err := Combine(aerial, partial, simulated, 6, []float64{15}, 1)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := combined.Dims()
	if rows != 6 || cols != 1 {
		t.Fatalf("have a %d×%d combined sample, want 6×1", rows, cols)
	}

	// Everything below the first aerial value at or above 15 kg/h,
	// including the 10 kg/h aerial row, is replaced by simulated values
	// under the transition point with no missed mass; the 20 and 30
	// kg/h rows survive with their corrections.
	var above []float64
	for i := 0; i < rows; i++ {
		v := combined.At(i, 0)
		if i > 0 && v < combined.At(i-1, 0) {
			t.Fatalf("combined column is not sorted at row %d", i)
		}
		if v >= 15 {
			above = append(above, v)
			continue
		}
		found := false
		for _, s := range []float64{1, 2, 3, 4, 5} {
			if v == s {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("row %d: backfilled value %g is not a simulated value below the transition point", i, v)
		}
		if m := missed.At(i, 0); m != 0 {
			t.Errorf("row %d: backfilled row has missed mass %g, want 0", i, m)
		}
	}
	if len(above) != 2 || above[0] != 20 || above[1] != 30 {
		t.Errorf("rows above the transition point: have %v, want [20 30]", above)
	}
	if missed.At(rows-2, 0) != 2 || missed.At(rows-1, 0) != 3 {
		t.Errorf("surviving aerial rows lost their missed mass: have %g and %g, want 2 and 3",
			missed.At(rows-2, 0), missed.At(rows-1, 0))
	}
}

// A realization whose aerial values all sit below the transition point
// keeps the padded aerial sample untouched.
func TestCombineAllBelow(t *testing.T) {
	aerial := mat.NewDense(3, 1, []float64{10, 20, 30})
	partial := mat.NewDense(3, 1, []float64{1, 2, 3})
	simulated := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})

	combined, missed, err := Combine(aerial, partial, simulated, 6, []float64{1000}, 1)
	if err != nil {
		t.Fatal(err)
	}
	wantC := []float64{0, 0, 0, 10, 20, 30}
	wantM := []float64{0, 0, 0, 1, 2, 3}
	for i := range wantC {
		if have := combined.At(i, 0); have != wantC[i] {
			t.Errorf("combined row %d: have %g, want %g", i, have, wantC[i])
		}
		if have := missed.At(i, 0); have != wantM[i] {
			t.Errorf("missed row %d: have %g, want %g", i, have, wantM[i])
		}
	}
}

func TestCombineShallowPool(t *testing.T) {
	aerial := mat.NewDense(3, 1, []float64{10, 20, 30})
	partial := mat.NewDense(3, 1, nil)
	simulated := mat.NewDense(6, 1, []float64{20, 21, 22, 23, 24, 25})

	var verr *ValidationError
	_, _, err := Combine(aerial, partial, simulated, 6, []float64{15}, 1)
	if !errors.As(err, &verr) {
		t.Errorf("have %v, want a validation error about the shallow simulated sample", err)
	}
}

func TestCombineErrors(t *testing.T) {
	var cerr *ConsistencyError

	_, _, err := Combine(mat.NewDense(3, 1, nil), mat.NewDense(2, 1, nil), mat.NewDense(6, 1, nil), 6, []float64{15}, 1)
	if !errors.As(err, &cerr) {
		t.Errorf("mismatched aerial shapes: have %v, want a consistency error", err)
	}

	_, _, err = Combine(mat.NewDense(3, 1, nil), mat.NewDense(3, 1, nil), mat.NewDense(6, 2, nil), 6, []float64{15}, 1)
	if !errors.As(err, &cerr) {
		t.Errorf("mismatched realization counts: have %v, want a consistency error", err)
	}

	_, _, err = Combine(mat.NewDense(3, 1, nil), mat.NewDense(3, 1, nil), mat.NewDense(6, 1, nil), 6, []float64{15, 16}, 1)
	if !errors.As(err, &cerr) {
		t.Errorf("wrong transition point count: have %v, want a consistency error", err)
	}
}
