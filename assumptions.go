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

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// A Correction maps a raw measured emission rate to a corrected one,
// typically compensating for known instrument bias. Corrections apply
// only to detected (nonzero) values; zero slots stay zero.
type Correction interface {
	Correct(emission float64) float64
}

// A Noise perturbs a corrected emission rate to represent measurement
// uncertainty. Implementations draw from the supplied random source so
// that replicate columns stay independently reproducible.
type Noise interface {
	Perturb(emission float64, rnd *rand.Rand) float64
}

// A NegativeHandler decides what becomes of an emission rate that is
// negative after correction and noise.
type NegativeHandler interface {
	HandleNegative(emission float64) float64
}

// PowerCorrection applies Coeff * emission**Exponent.
type PowerCorrection struct {
	Coeff    float64
	Exponent float64
}

// DefaultPowerCorrection is the instrument bias correction fit for the
// reference survey campaign.
var DefaultPowerCorrection = PowerCorrection{Coeff: 4.08, Exponent: 0.77}

func (c PowerCorrection) Correct(emission float64) float64 {
	if emission == 0 {
		return 0
	}
	return c.Coeff * math.Pow(emission, c.Exponent)
}

// LinearCorrection applies Slope*emission + Intercept to detected
// values. Zero slots stay exactly zero, so a nonzero Intercept never
// turns a nondetection into an emitter.
type LinearCorrection struct {
	Slope     float64
	Intercept float64
}

func (c LinearCorrection) Correct(emission float64) float64 {
	if emission == 0 {
		return 0
	}
	return c.Slope*emission + c.Intercept
}

// IdentityCorrection leaves measurements unchanged.
type IdentityCorrection struct{}

func (IdentityCorrection) Correct(emission float64) float64 { return emission }

// NormalNoise multiplies each detected value by a draw from a normal
// distribution. Zero slots are left alone so that nondetections stay
// exact zeros.
type NormalNoise struct {
	Loc   float64
	Scale float64
}

// DefaultNormalNoise is the measurement uncertainty model for the
// reference survey campaign.
var DefaultNormalNoise = NormalNoise{Loc: 1.07, Scale: 0.4}

func (n NormalNoise) Perturb(emission float64, rnd *rand.Rand) float64 {
	if emission == 0 {
		return 0
	}
	d := distuv.Normal{Mu: n.Loc, Sigma: n.Scale, Src: rnd}
	return emission * d.Rand()
}

// NoNoise leaves measurements unchanged.
type NoNoise struct{}

func (NoNoise) Perturb(emission float64, _ *rand.Rand) float64 { return emission }

// ZeroNegative clamps negative rates to zero, the usual choice: a
// negative emission rate is physically meaningless but the draw that
// produced it still happened, so the slot stays in the sample.
type ZeroNegative struct{}

func (ZeroNegative) HandleNegative(emission float64) float64 {
	if emission < 0 {
		return 0
	}
	return emission
}

// KeepNegative passes negative rates through unchanged.
type KeepNegative struct{}

func (KeepNegative) HandleNegative(emission float64) float64 { return emission }
