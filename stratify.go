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
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// DefaultStratificationBreaks divides the productivity distribution
// into deciles up to the median, 5% bins to the 95th percentile, 1%
// bins to the 99th, one 0.5% bin, and 0.1% bins to the top.
var DefaultStratificationBreaks = []float64{
	0, .1, .2, .3, .4, .5, .55, .6, .65, .7, .75, .8, .85, .9, .95,
	.96, .97, .98, .99, .995, .996, .997, .998, .999, 1,
}

// Stratify resamples simulated per-source emissions so that the
// productivity distribution of the sample matches the productivity
// distribution actually covered by the survey, not the distribution the
// simulation happened to use.
//
// Productivity break values are taken as quantiles of simProduction at
// the given break fractions; the lowest bound is forced to zero and the
// highest to +Inf. The share of coveredProduction falling in each bin
// [lo, hi), scaled to nRows and rounded to nearest (half up), decides
// how many rows that bin contributes; any rounding residue is absorbed
// by the first bin with the largest rounded count. Each contributed row is an emission value drawn
// with replacement from the simulated sources whose production lies in
// (lo, hi]. Columns are drawn on independent deterministic streams from
// seed and are each sorted ascending.
func Stratify(simEmissions, simProduction, coveredProduction []float64, nRows, nCols int, breaks []float64, seed uint64) (*mat.Dense, error) {
	if len(simEmissions) != len(simProduction) {
		return nil, validationf("have %d simulated emissions but %d simulated production values; they must pair index-wise",
			len(simEmissions), len(simProduction))
	}
	if len(coveredProduction) == 0 {
		return nil, validationf("covered production distribution is empty")
	}
	if nRows <= 0 || nCols <= 0 {
		return nil, validationf("sample dimensions %d×%d must be positive", nRows, nCols)
	}
	if len(breaks) < 2 {
		return nil, validationf("need at least 2 stratification breaks, got %d", len(breaks))
	}
	for k := 1; k < len(breaks); k++ {
		if breaks[k] <= breaks[k-1] || breaks[k] > 1 || breaks[0] < 0 {
			return nil, validationf("stratification breaks must be strictly increasing within [0, 1]")
		}
	}

	if maxFloat(coveredProduction) > maxFloat(simProduction) {
		log.Warnf("roams: maximum covered productivity %g exceeds maximum simulated productivity %g; "+
			"emissions in the top bin may be over-represented",
			maxFloat(coveredProduction), maxFloat(simProduction))
	}

	sortedProd := append([]float64(nil), simProduction...)
	sort.Float64s(sortedProd)
	bounds := make([]float64, len(breaks))
	for k, q := range breaks {
		bounds[k] = quantile(q, sortedProd)
	}
	bounds[0] = 0
	bounds[len(bounds)-1] = math.Inf(1)

	// Weight of each bin: share of the covered productivity
	// distribution that lands in [lo, hi).
	weights := make([]float64, len(bounds)-1)
	for _, p := range coveredProduction {
		for k := 0; k < len(bounds)-1; k++ {
			if p >= bounds[k] && p < bounds[k+1] {
				weights[k]++
				break
			}
		}
	}
	scale := float64(nRows) / float64(len(coveredProduction))
	var lostWeight float64
	for k := range weights {
		weights[k] *= scale
		if weights[k] < 0.5 {
			lostWeight += weights[k]
		}
	}
	if lostWeight/float64(nRows) >= 0.20 {
		return nil, validationf("at least 20%% of the %d sample rows fall in productivity bins too light to round to "+
			"a single row; choose coarser stratification breaks or revisit the simulated production data", nRows)
	}

	counts := make([]int, len(weights))
	total, largest := 0, 0
	for k, w := range weights {
		counts[k] = int(w + 0.5)
		total += counts[k]
		if counts[k] > counts[largest] {
			largest = k
		}
	}
	counts[largest] += nRows - total

	// Pool the simulated emissions available to each bin: sources whose
	// production lies in (lo, hi].
	pools := make([][]float64, len(counts))
	for k := range pools {
		for i, p := range simProduction {
			if p > bounds[k] && p <= bounds[k+1] {
				pools[k] = append(pools[k], simEmissions[i])
			}
		}
		if counts[k] > 0 && len(pools[k]) == 0 {
			return nil, consistencyf("productivity bin [%g, %g) needs %d sample rows but no simulated source "+
				"has production in that range", bounds[k], bounds[k+1], counts[k])
		}
	}

	out := mat.NewDense(nRows, nCols, nil)
	err := eachColumn(nCols, func(j int) error {
		rnd := columnRand(seed, randSimulated, j)
		r := 0
		for k, n := range counts {
			pool := pools[k]
			for s := 0; s < n; s++ {
				out.Set(r, j, pool[rnd.Intn(len(pool))])
				r++
			}
		}
		col := mat.Col(nil, j, out)
		sort.Float64s(col)
		out.SetCol(j, col)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func maxFloat(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
