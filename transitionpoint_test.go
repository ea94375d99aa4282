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

// The simulated distribution loses all of its mass below 100 kg/h at
// 10 kg of cumulative mass per kg/h, while the aerial distribution
// decays at 1 kg per kg/h all the way to the top of the grid. The
// aerial decay rate overtakes the simulated one once the trailing
// window has nearly cleared the simulated range, at 109 kg/h.
func TestFindTransition(t *testing.T) {
	aerialX := mat.NewDense(2, 1, []float64{5, 999})
	aerialY := mat.NewDense(2, 1, []float64{994, 0})
	simX := mat.NewDense(2, 1, []float64{5, 100})
	simY := mat.NewDense(2, 1, []float64{950, 0})

	tps, err := FindTransition(aerialX, aerialY, simX, simY, 11)
	if err != nil {
		t.Fatal(err)
	}
	if len(tps) != 1 {
		t.Fatalf("have %d transition points, want 1", len(tps))
	}
	if tps[0] != 109 {
		t.Errorf("have transition point %g, want 109", tps[0])
	}
}

// When the aerial distribution never decays faster than the simulated
// one, the transition point is pinned to the top of the grid.
func TestFindTransitionNoCrossover(t *testing.T) {
	aerialX := mat.NewDense(2, 1, []float64{5, 999})
	aerialY := mat.NewDense(2, 1, []float64{994, 0})
	simX := mat.NewDense(2, 1, []float64{5, 999})
	simY := mat.NewDense(2, 1, []float64{9940, 0})

	tps, err := FindTransition(aerialX, aerialY, simX, simY, 11)
	if err != nil {
		t.Fatal(err)
	}
	if tps[0] != 999 {
		t.Errorf("have transition point %g, want 999", tps[0])
	}
}

func TestFindTransitionErrors(t *testing.T) {
	var cerr *ConsistencyError
	_, err := FindTransition(
		mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil),
		mat.NewDense(2, 1, nil), mat.NewDense(2, 1, nil), 11)
	if !errors.As(err, &cerr) {
		t.Errorf("mismatched column counts: have %v, want a consistency error", err)
	}

	var verr *ValidationError
	_, err = FindTransition(
		mat.NewDense(2, 1, nil), mat.NewDense(2, 1, nil),
		mat.NewDense(2, 1, nil), mat.NewDense(2, 1, nil), 0)
	if !errors.As(err, &verr) {
		t.Errorf("zero window: have %v, want a validation error", err)
	}
}
