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

// Package simulated loads per-well simulated emission estimates, the
// sub-detection half of the combined distribution.
package simulated

import (
	"fmt"

	"github.com/spatialmodel/roams/internal/tabular"
	"github.com/spatialmodel/roams/units"
)

// Options locates the relevant columns of a simulated results table.
// The production column is optional; it is only needed when the sample
// will be stratified.
type Options struct {
	EmissionsCol  string
	EmissionsUnit string
	ProductionCol  string
	ProductionUnit string
}

// Data holds simulated well-level results in canonical units: kg/h
// emissions and mscf/day production.
type Data struct {
	emissions  []float64
	production []float64
}

// Read loads the simulated results at path. Emissions are converted
// to kg/h, and production, when a column is configured, to mscf/day.
func Read(path string, opts Options) (*Data, error) {
	if opts.EmissionsCol == "" {
		return nil, fmt.Errorf("simulated: no emissions column configured for %s", path)
	}
	if opts.EmissionsUnit == "" {
		return nil, fmt.Errorf("simulated: no unit configured for emissions column %q", opts.EmissionsCol)
	}
	t, err := tabular.Read(path)
	if err != nil {
		return nil, err
	}

	d := new(Data)
	raw, err := t.Floats(opts.EmissionsCol)
	if err != nil {
		return nil, err
	}
	d.emissions = make([]float64, len(raw))
	for i, v := range raw {
		d.emissions[i], err = units.Convert(v, opts.EmissionsUnit, units.EmissionRate)
		if err != nil {
			return nil, fmt.Errorf("simulated: converting emissions: %v", err)
		}
	}

	if opts.ProductionCol != "" {
		if opts.ProductionUnit == "" {
			return nil, fmt.Errorf("simulated: no unit configured for production column %q", opts.ProductionCol)
		}
		raw, err := t.Floats(opts.ProductionCol)
		if err != nil {
			return nil, err
		}
		d.production = make([]float64, len(raw))
		for i, v := range raw {
			d.production[i], err = units.Convert(v, opts.ProductionUnit, units.ProductionRate)
			if err != nil {
				return nil, fmt.Errorf("simulated: converting production: %v", err)
			}
		}
	}
	return d, nil
}

// Emissions returns the simulated emission rates in kg/h, in input
// order.
func (d *Data) Emissions() []float64 { return d.emissions }

// Production returns the simulated production rates in mscf/day, in
// input order. It is an error if no production column was configured.
func (d *Data) Production() ([]float64, error) {
	if d.production == nil {
		return nil, fmt.Errorf("simulated: no production column was configured, but production data was requested")
	}
	return d.production, nil
}
