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

// Package units converts between the physical units that appear in
// survey, simulation, and inventory input files. Canonical units
// throughout the model are kg/h for emission rates, m/s for wind
// speeds, and mscf/day for volumetric gas production.
package units

import (
	"fmt"
	"strings"

	"github.com/ctessum/unit"
)

// Canonical unit names.
const (
	EmissionRate   = "kg/h"
	WindSpeed      = "m/s"
	ProductionRate = "mscf/day"
	WindNormalized = "kg/h:m/s"
)

const (
	secPerHour = 3600.0
	secPerDay  = 24 * secPerHour
	secPerYear = 365.25 * secPerDay

	// CuftPerM3 is the number of cubic feet in one cubic meter.
	CuftPerM3 = 35.3147

	mphPerMps = 2.23694

	// CH4DensityKgPerM3 is the density of methane at 1 atm and 25 C.
	CH4DensityKgPerM3 = 0.657
)

var (
	massRate   = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}
	speed      = unit.Dimensions{unit.LengthDim: 1, unit.TimeDim: -1}
	volumeRate = unit.Dimensions{unit.LengthDim: 3, unit.TimeDim: -1}
)

// named holds, for every recognized unit name, the value of one such
// unit in SI terms. Ratios of table entries convert between names with
// matching dimensions.
var named = map[string]*unit.Unit{
	// Emission rates (SI kg/s).
	"mmt/yr":    unit.New(1e9/secPerYear, massRate),
	"mmt/year":  unit.New(1e9/secPerYear, massRate),
	"kt/yr":     unit.New(1e6/secPerYear, massRate),
	"kt/year":   unit.New(1e6/secPerYear, massRate),
	"t/yr":      unit.New(1e3/secPerYear, massRate),
	"t/year":    unit.New(1e3/secPerYear, massRate),
	"ton/year":  unit.New(1e3/secPerYear, massRate),
	"tons/year": unit.New(1e3/secPerYear, massRate),
	"tons/yr":   unit.New(1e3/secPerYear, massRate),
	"kg/yr":     unit.New(1/secPerYear, massRate),
	"kg/year":   unit.New(1/secPerYear, massRate),
	"g/h":       unit.New(1e-3/secPerHour, massRate),
	"g/hr":      unit.New(1e-3/secPerHour, massRate),
	"g/d":       unit.New(1e-3/secPerDay, massRate),
	"g/day":     unit.New(1e-3/secPerDay, massRate),
	"kg/h":      unit.New(1/secPerHour, massRate),
	"kg/hr":     unit.New(1/secPerHour, massRate),
	"kgh":       unit.New(1/secPerHour, massRate),
	"kg/d":      unit.New(1/secPerDay, massRate),
	"kg/day":    unit.New(1/secPerDay, massRate),
	"t/h":       unit.New(1e3/secPerHour, massRate),
	"t/hr":      unit.New(1e3/secPerHour, massRate),
	"tons/h":    unit.New(1e3/secPerHour, massRate),
	"tons/hr":   unit.New(1e3/secPerHour, massRate),
	"t/d":       unit.New(1e3/secPerDay, massRate),
	"t/day":     unit.New(1e3/secPerDay, massRate),

	// Wind speeds (SI m/s).
	"mps":  unit.New(1, speed),
	"m/s":  unit.New(1, speed),
	"mph":  unit.New(1/mphPerMps, speed),
	"m/h":  unit.New(1/mphPerMps, speed),
	"mi/h": unit.New(1/mphPerMps, speed),

	// Volumetric gas production rates (SI m3/s).
	"mcf/y":     unit.New(1e3/CuftPerM3/secPerYear, volumeRate),
	"mcf/yr":    unit.New(1e3/CuftPerM3/secPerYear, volumeRate),
	"mcf/year":  unit.New(1e3/CuftPerM3/secPerYear, volumeRate),
	"mscf/y":    unit.New(1e3/CuftPerM3/secPerYear, volumeRate),
	"mscf/yr":   unit.New(1e3/CuftPerM3/secPerYear, volumeRate),
	"mscf/year": unit.New(1e3/CuftPerM3/secPerYear, volumeRate),
	"mcf/d":     unit.New(1e3/CuftPerM3/secPerDay, volumeRate),
	"mcf/day":   unit.New(1e3/CuftPerM3/secPerDay, volumeRate),
	"mscf/day":  unit.New(1e3/CuftPerM3/secPerDay, volumeRate),
	"mscf/d":    unit.New(1e3/CuftPerM3/secPerDay, volumeRate),
	"mscf/h":    unit.New(1e3/CuftPerM3/secPerHour, volumeRate),
	"mscf/hr":   unit.New(1e3/CuftPerM3/secPerHour, volumeRate),
	"scf/d":     unit.New(1/CuftPerM3/secPerDay, volumeRate),
	"scf/h":     unit.New(1/CuftPerM3/secPerHour, volumeRate),
	"cuft/d":    unit.New(1/CuftPerM3/secPerDay, volumeRate),
	"cuft/h":    unit.New(1/CuftPerM3/secPerHour, volumeRate),
	"m3/hr":     unit.New(1/secPerHour, volumeRate),
	"m3/h":      unit.New(1/secPerHour, volumeRate),
	"m3/day":    unit.New(1/secPerDay, volumeRate),
	"m3/d":      unit.New(1/secPerDay, volumeRate),
}

// Convert converts value from one named unit to another. The two units
// must measure the same kind of quantity; converting an emission rate
// to a wind speed is an error, as is any unit name not in the table.
func Convert(value float64, from, to string) (float64, error) {
	uf, err := lookup(from)
	if err != nil {
		return 0, err
	}
	ut, err := lookup(to)
	if err != nil {
		return 0, err
	}
	if !uf.Dimensions().Matches(ut.Dimensions()) {
		return 0, fmt.Errorf("units: cannot convert %q to %q; the dimensions differ", from, to)
	}
	return value * uf.Value() / ut.Value(), nil
}

// CH4VolumeToMass converts a volumetric rate of methane (for example
// mscf/day) to a mass emission rate (for example kg/h) using the
// standard methane density.
func CH4VolumeToMass(value float64, from, to string) (float64, error) {
	uf, err := lookup(from)
	if err != nil {
		return 0, err
	}
	ut, err := lookup(to)
	if err != nil {
		return 0, err
	}
	if err := uf.Check(volumeRate); err != nil {
		return 0, fmt.Errorf("units: %q is not a volumetric rate: %v", from, err)
	}
	if err := ut.Check(massRate); err != nil {
		return 0, fmt.Errorf("units: %q is not a mass rate: %v", to, err)
	}
	kgPerSec := value * uf.Value() * CH4DensityKgPerM3
	return kgPerSec / ut.Value(), nil
}

func lookup(name string) (*unit.Unit, error) {
	u, ok := named[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("units: unrecognized unit %q", name)
	}
	return u, nil
}
