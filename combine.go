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

// Combine merges the aerial and simulated production distributions into
// a single nRows-deep distribution per Monte Carlo realization.
//
// aerial holds the sampled aerial emissions sorted ascending down each
// column, and partial the row-aligned missed-mass corrections.
// simulated is the (typically much deeper) sub-detection sample, with
// one transition point per column in tps. Both aerial matrices are
// zero-padded at the top to nRows; then, column by column, every row
// below the first aerial value at or above the transition point is
// refilled by drawing with replacement from the simulated values under
// that point, and the corresponding missed-mass entries are zeroed,
// since sub-detection emissions carry no detection correction. A column
// whose aerial values all sit below its transition point is left as the
// padded aerial sample.
//
// The combined columns and their missed-mass columns are re-sorted
// together ascending by emission. It is an error for a column to need
// more backfill rows than it has simulated values below the transition
// point.
func Combine(aerial, partial, simulated *mat.Dense, nRows int, tps []float64, seed uint64) (combined, missed *mat.Dense, err error) {
	ar, ac := aerial.Dims()
	pr, pc := partial.Dims()
	sr, sc := simulated.Dims()
	if ar != pr || ac != pc {
		return nil, nil, consistencyf("aerial matrix is %d×%d but missed-mass matrix is %d×%d", ar, ac, pr, pc)
	}
	if ac != sc {
		return nil, nil, consistencyf("aerial sample has %d realizations but simulated sample has %d", ac, sc)
	}
	if len(tps) != ac {
		return nil, nil, consistencyf("have %d transition points for %d realizations", len(tps), ac)
	}

	combined, err = padRows(aerial, nRows)
	if err != nil {
		return nil, nil, err
	}
	missed, err = padRows(partial, nRows)
	if err != nil {
		return nil, nil, err
	}

	err = eachColumn(ac, func(j int) error {
		tp := tps[j]

		var below []float64
		for i := 0; i < sr; i++ {
			if v := simulated.At(i, j); v < tp {
				below = append(below, v)
			}
		}

		// First row at or above the transition point. The padded
		// column is sorted, so everything before it is to be refilled.
		fill := 0
		for i := 0; i < nRows; i++ {
			if combined.At(i, j) >= tp {
				fill = i
				break
			}
		}

		if len(below) < fill {
			return validationf("realization %d has %d simulated values below the transition point (%g kg/h) "+
				"but %d rows to fill; the simulated sample is too shallow for this transition point",
				j, len(below), tp, fill)
		}

		rnd := columnRand(seed, randBackfill, j)
		for i := 0; i < fill; i++ {
			combined.Set(i, j, below[rnd.Intn(len(below))])
			missed.Set(i, j, 0)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sortColumnsPaired(combined, missed)
	return combined, missed, nil
}
