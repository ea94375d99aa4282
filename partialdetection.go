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

// A DetectionCurve gives the probability that the aerial instrument
// detects a plume with the given wind-normalized emission rate
// (kg/h per m/s). Probabilities must lie in (0, 1].
type DetectionCurve interface {
	Prob(windNorm float64) float64
}

// BinCurve is a step-function detection curve: values in
// [Edges[k], Edges[k+1]) detect with probability Probs[k], and values at
// or above the last edge always detect. An exactly zero rate reports
// probability 1 so that empty visit slots gain no correction mass.
type BinCurve struct {
	Edges []float64
	Probs []float64
}

// DefaultBinCurve is the empirical detection curve from the controlled
// release tests of the reference campaign, binned by wind-normalized
// release rate.
var DefaultBinCurve = BinCurve{
	Edges: []float64{0, 6, 8, 10, 12, 14},
	Probs: []float64{1.0 / 5, 8.0 / 33, 12.0 / 34, 23.0 / 33, 20.0 / 22},
}

func (c BinCurve) Prob(windNorm float64) float64 {
	if windNorm == 0 {
		return 1
	}
	for k := len(c.Edges) - 1; k >= 0; k-- {
		if windNorm >= c.Edges[k] {
			if k == len(c.Edges)-1 {
				return 1
			}
			return c.Probs[k]
		}
	}
	return c.Probs[0]
}

// InterpCurve linearly interpolates detection probability between the
// given wind-normalized rates, clamping to the last probability above
// the covered range. Rates below X[0] report probability 1 and so gain
// no correction mass.
type InterpCurve struct {
	X []float64
	Y []float64
}

// DefaultInterpCurve is the piecewise-linear form of the reference
// detection curve.
var DefaultInterpCurve = InterpCurve{
	X: []float64{4, 6, 8, 10, 12, 14, 16},
	Y: []float64{0.2, 0.2, 8.0 / 33, 12.0 / 34, 23.0 / 33, 20.0 / 22, 1},
}

func (c InterpCurve) Prob(windNorm float64) float64 {
	if windNorm < c.X[0] {
		return 1
	}
	if windNorm >= c.X[len(c.X)-1] {
		return c.Y[len(c.Y)-1]
	}
	for k := 1; k < len(c.X); k++ {
		if windNorm <= c.X[k] {
			t := (windNorm - c.X[k-1]) / (c.X[k] - c.X[k-1])
			return c.Y[k-1] + t*(c.Y[k]-c.Y[k-1])
		}
	}
	return c.Y[len(c.Y)-1]
}

// MissedMass estimates, element by element, the emission mass missed by
// incomplete detection. A detected plume of rate e seen with detection
// probability p represents 1/p plumes of that rate on average, so the
// unseen remainder is (1/p - 1)*e. Zero slots miss nothing. The result
// is row-aligned with emissions and is meant to be carried alongside it
// into cumulative totals rather than added to individual plumes.
func MissedMass(emissions, windNorm *mat.Dense, curve DetectionCurve) (*mat.Dense, error) {
	er, ec := emissions.Dims()
	wr, wc := windNorm.Dims()
	if er != wr || ec != wc {
		return nil, consistencyf("emission matrix is %d×%d but wind-normalized matrix is %d×%d", er, ec, wr, wc)
	}
	missed := mat.NewDense(er, ec, nil)
	for i := 0; i < er; i++ {
		for j := 0; j < ec; j++ {
			e := emissions.At(i, j)
			if e == 0 {
				continue
			}
			p := curve.Prob(windNorm.At(i, j))
			if p <= 0 || p > 1 {
				return nil, validationf("detection probability %g for wind-normalized rate %g is outside (0, 1]",
					p, windNorm.At(i, j))
			}
			missed.Set(i, j, (1/p-1)*e)
		}
	}
	return missed, nil
}
