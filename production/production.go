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

// Package production loads the estimated distribution of well-level
// production in the surveyed region, used to stratify the simulated
// sample.
package production

import (
	"fmt"

	"github.com/spatialmodel/roams/internal/tabular"
	"github.com/spatialmodel/roams/units"
)

// Options locates the production column of a covered-production table.
type Options struct {
	Col  string
	Unit string

	// FracCH4 is the molar fraction of produced gas that is methane.
	FracCH4 float64
}

// Distribution holds the covered production distribution in canonical
// mscf/day, with each value representing one equal-probability bin.
type Distribution struct {
	ng      []float64
	fracCH4 float64
}

// Read loads the covered production distribution at path.
func Read(path string, opts Options) (*Distribution, error) {
	if opts.Col == "" {
		return nil, fmt.Errorf("production: no production column configured for %s", path)
	}
	if opts.Unit == "" {
		return nil, fmt.Errorf("production: no unit configured for production column %q", opts.Col)
	}
	if opts.FracCH4 < 0 || opts.FracCH4 > 1 {
		return nil, fmt.Errorf("production: methane fraction %g must be between 0 and 1", opts.FracCH4)
	}
	t, err := tabular.Read(path)
	if err != nil {
		return nil, err
	}
	raw, err := t.Floats(opts.Col)
	if err != nil {
		return nil, err
	}
	d := &Distribution{ng: make([]float64, len(raw)), fracCH4: opts.FracCH4}
	for i, v := range raw {
		d.ng[i], err = units.Convert(v, opts.Unit, units.ProductionRate)
		if err != nil {
			return nil, fmt.Errorf("production: converting production: %v", err)
		}
	}
	return d, nil
}

// NGVolumetric returns the natural gas production distribution in
// mscf/day.
func (d *Distribution) NGVolumetric() []float64 { return d.ng }

// CH4Volumetric returns the methane share of the production
// distribution in mscf/day.
func (d *Distribution) CH4Volumetric() []float64 {
	out := make([]float64, len(d.ng))
	for i, v := range d.ng {
		out[i] = v * d.fracCH4
	}
	return out
}

// CH4Mass returns the methane share of the production distribution as
// a mass rate in kg/h.
func (d *Distribution) CH4Mass() ([]float64, error) {
	out := make([]float64, len(d.ng))
	for i, v := range d.ng {
		m, err := units.CH4VolumeToMass(v*d.fracCH4, units.ProductionRate, units.EmissionRate)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}
