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
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// eachColumn runs f for every Monte Carlo column, striding columns
// across GOMAXPROCS goroutines. Columns are statistically independent,
// so no synchronization is needed beyond the final join. The first
// error encountered (by column order) is returned.
func eachColumn(cols int, f func(j int) error) error {
	nprocs := runtime.GOMAXPROCS(-1)
	if nprocs > cols {
		nprocs = cols
	}
	errs := make([]error, cols)
	var wg sync.WaitGroup
	for p := 0; p < nprocs; p++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for j := start; j < cols; j += nprocs {
				errs[j] = f(j)
			}
		}(p)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// sortColumns sorts every column of m ascending, in place.
func sortColumns(m *mat.Dense) {
	rows, cols := m.Dims()
	eachColumn(cols, func(j int) error {
		col := make([]float64, rows)
		mat.Col(col, j, m)
		sort.Float64s(col)
		m.SetCol(j, col)
		return nil
	})
}

// sortColumnsPaired sorts every column of m ascending and applies the
// identical row permutation to the corresponding column of sibling,
// preserving row alignment between the two matrices.
func sortColumnsPaired(m, sibling *mat.Dense) {
	rows, cols := m.Dims()
	eachColumn(cols, func(j int) error {
		perm := make([]int, rows)
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(a, b int) bool {
			return m.At(perm[a], j) < m.At(perm[b], j)
		})
		v := make([]float64, rows)
		s := make([]float64, rows)
		for i, pi := range perm {
			v[i] = m.At(pi, j)
			s[i] = sibling.At(pi, j)
		}
		m.SetCol(j, v)
		sibling.SetCol(j, s)
		return nil
	})
}

// decreasingCumulative turns a column-sorted emissions matrix into the
// decreasing cumulative-remaining-mass form the transition finder
// consumes: y[i] = peak(cumsum) − cumsum[i], so the last entry of every
// column is 0 whenever the values are nonnegative. When extra is non-nil its cells are folded into the running sum,
// which is how partial-detection mass enters the aerial cumulative
// distribution without materializing extra rows.
func decreasingCumulative(values, extra *mat.Dense) *mat.Dense {
	rows, cols := values.Dims()
	out := mat.NewDense(rows, cols, nil)
	eachColumn(cols, func(j int) error {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += values.At(i, j)
			if extra != nil {
				sum += extra.At(i, j)
			}
			out.Set(i, j, sum)
		}
		peak := out.At(0, j)
		for i := 1; i < rows; i++ {
			if v := out.At(i, j); v > peak {
				peak = v
			}
		}
		for i := 0; i < rows; i++ {
			out.Set(i, j, peak-out.At(i, j))
		}
		return nil
	})
	return out
}

// padRows returns a copy of m grown to the given number of rows by
// prepending zero-valued rows. Sampled aerial matrices are padded this
// way before the combiner backfills the leading rows with simulated
// values.
func padRows(m *mat.Dense, rows int) (*mat.Dense, error) {
	r, cols := m.Dims()
	if rows < r {
		return nil, validationf("cannot pad a %d-row matrix to %d rows: the aerial sample is already larger than the target population", r, rows)
	}
	out := mat.NewDense(rows, cols, nil)
	pad := rows - r
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			out.Set(pad+i, j, m.At(i, j))
		}
	}
	return out, nil
}

// columnTotals returns the sum of every column of m.
func columnTotals(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	totals := make([]float64, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			totals[j] += m.At(i, j)
		}
	}
	return totals
}

// rowMeans returns the mean across columns of every row of m.
func rowMeans(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	means := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += m.At(i, j)
		}
		means[i] = sum / float64(cols)
	}
	return means
}

// quantile returns the p-quantile of sorted ascending values using
// linear interpolation between order statistics. gonum's stat.Quantile
// interpolates the empirical CDF with a different convention, and the
// stratification identity property depends on this exact scheme.
func quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(h)
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
