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

package units

// MJPerBtu converts British thermal units to megajoules.
const MJPerBtu = 1055.06e-6

// MJPerBOE is the energy content of one barrel of oil equivalent
// (5.8 MMBtu) in megajoules.
const MJPerBOE = 5.8e6 * MJPerBtu

// EnergyDensityMJPerKg holds higher heating values for natural gas
// components, keyed by the conventional composition labels.
var EnergyDensityMJPerKg = map[string]float64{
	"c1": 55.5, // methane
	"c2": 51.9, // ethane
	"c3": 50.4, // propane
	"c4": 49.5, // butanes
	"c5": 48.6, // pentanes and heavier
}

// btuPerScf holds higher heating values of gas components per standard
// cubic foot. Inert components carry no heating value.
var btuPerScf = map[string]float64{
	"c1":  1010,
	"c2":  1770,
	"c3":  2516,
	"c4":  3260,
	"c5":  4000,
	"co2": 0,
	"n2":  0,
}

// EnergyContentMJPerMcf returns the energy content of one thousand
// standard cubic feet of gas with the given molar composition.
// Composition keys are the conventional component labels ("c1", "c2",
// "co2", ...); components without a known heating value contribute
// nothing.
func EnergyContentMJPerMcf(composition map[string]float64) float64 {
	var btu float64
	for component, frac := range composition {
		btu += frac * btuPerScf[component] * 1e3
	}
	return btu * MJPerBtu
}

// GWPCH4 is the 100-year global warming potential of methane relative
// to carbon dioxide, per the inventory convention.
const GWPCH4 = 25.0
