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

// SampleSurvey draws nCols Monte Carlo realizations of the survey. For
// each realization, every source that has visit slots contributes one
// row by choosing one of its slots uniformly at random, so sources seen
// emitting on only some visits are intermittently zero across columns
// in proportion to their observed duty cycle.
//
// Each chosen emission passes through corr, then noise, then neg, in
// that order. The wind-normalized value of the chosen slot is returned
// untouched in the second matrix, row-aligned with the first.
//
// Columns are sampled on independent deterministic random streams
// derived from seed, so results do not depend on the number of columns
// sampled concurrently.
func SampleSurvey(s *Survey, nCols int, corr Correction, noise Noise, neg NegativeHandler, seed uint64) (emissions, windNorm *mat.Dense, err error) {
	if nCols <= 0 {
		return nil, nil, validationf("number of realizations must be positive, got %d", nCols)
	}
	rows := s.sampledSources()
	if len(rows) == 0 {
		return nil, nil, validationf("survey has no sources with visit slots")
	}

	emissions = mat.NewDense(len(rows), nCols, nil)
	windNorm = mat.NewDense(len(rows), nCols, nil)
	err = eachColumn(nCols, func(j int) error {
		rnd := columnRand(seed, randAerial, j)
		noiseRnd := columnRand(seed, randNoise, j)
		for r, i := range rows {
			slots := s.slots(i)
			o := slots[rnd.Intn(len(slots))]
			e := o.emission
			if e != 0 {
				e = corr.Correct(e)
			}
			e = noise.Perturb(e, noiseRnd)
			e = neg.HandleNegative(e)
			emissions.Set(r, j, e)
			windNorm.Set(r, j, o.windNorm)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return emissions, windNorm, nil
}
