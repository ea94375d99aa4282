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

import "gonum.org/v1/gonum/mat"

// transitionGrid is the emission-rate grid (kg/h) the cumulative
// distributions are interpolated onto when locating the transition
// point: the integers 5 through 999.
const (
	transitionGridMin = 5
	transitionGridMax = 1000
)

// DefaultSmoothingWindow is the moving-average window used to smooth
// the interpolated distribution slopes before comparing them.
const DefaultSmoothingWindow = 11

// FindTransition locates, for each Monte Carlo realization, the
// emission rate at which the aerially observed distribution takes over
// from the simulated sub-detection distribution.
//
// aerialX and simX hold emission rates sorted ascending down each
// column; aerialY and simY are the matching decreasing cumulative
// emission totals (last entry of each column zero). All four must share
// a column count. Both cumulative curves are interpolated onto a common
// 5-999 kg/h grid, their decay rates are estimated with a trailing
// moving average of the given window, and the transition point of a
// column is the grid value just before the aerial decay rate first
// exceeds the simulated one. A column whose rates never cross reports
// the top of the grid.
//
// The simulated distribution skews low, so its decay rate must start at
// or above the aerial one; a column violating that returns a
// consistency error.
func FindTransition(aerialX, aerialY, simX, simY *mat.Dense, window int) ([]float64, error) {
	_, acx := aerialX.Dims()
	_, acy := aerialY.Dims()
	_, scx := simX.Dims()
	_, scy := simY.Dims()
	if acx != scx || acy != scy || acx != acy {
		return nil, consistencyf("aerial and simulated distributions must agree on the realization count; "+
			"have %d, %d, %d, and %d columns", acx, acy, scx, scy)
	}
	if window <= 0 {
		return nil, validationf("smoothing window must be positive, got %d", window)
	}

	xs := make([]float64, 0, transitionGridMax-transitionGridMin)
	for x := transitionGridMin; x < transitionGridMax; x++ {
		xs = append(xs, float64(x))
	}

	tps := make([]float64, acx)
	err := eachColumn(acx, func(j int) error {
		aerial := interpColumn(xs, aerialX, aerialY, j)
		sim := interpColumn(xs, simX, simY, j)

		// The difference of the cumulative curve across the trailing
		// window is the summed mass in that span; dividing by the span
		// length makes it a windowed decay rate.
		cross := 0
		found := false
		for w := range xs {
			wmin := w - window
			if wmin < 0 {
				wmin = 0
			}
			span := float64(w - wmin)
			if span < 1 {
				span = 1
			}
			d := (aerial[wmin]-aerial[w])/span - (sim[wmin]-sim[w])/span
			if w == 0 && d < 0 {
				return consistencyf("aerial distribution starts decaying slower than the simulated "+
					"distribution in realization %d; check the unit scaling of the inputs", j)
			}
			if d > 0 {
				cross = w
				found = true
				break
			}
		}
		switch {
		case !found:
			tps[j] = xs[len(xs)-1]
		case cross == 0:
			// A crossover at the first grid point has no point below
			// it to report; treat it like no crossover and report the
			// grid top.
			tps[j] = xs[len(xs)-1]
		default:
			tps[j] = xs[cross-1]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, tp := range tps {
		if tp == xs[0] {
			log.Warnf("roams: at least one transition point sits at the grid floor (%g kg/h); "+
				"the true crossover may be below the resolvable range", xs[0])
			break
		}
	}
	return tps, nil
}

// interpColumn linearly interpolates column j of the (x, y) pair onto
// the grid, clamping to the endpoint values outside the covered range.
// x must be sorted ascending down the column.
func interpColumn(grid []float64, x, y *mat.Dense, j int) []float64 {
	n, _ := x.Dims()
	out := make([]float64, len(grid))
	for g, v := range grid {
		switch {
		case v <= x.At(0, j):
			out[g] = y.At(0, j)
		case v >= x.At(n-1, j):
			out[g] = y.At(n-1, j)
		default:
			k := 1
			for x.At(k, j) < v {
				k++
			}
			x0, x1 := x.At(k-1, j), x.At(k, j)
			y0, y1 := y.At(k-1, j), y.At(k, j)
			if x1 == x0 {
				out[g] = y1
			} else {
				out[g] = y0 + (v-x0)*(y1-y0)/(x1-x0)
			}
		}
	}
	return out
}
