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

// Package ghgi derives midstream methane loss rates from greenhouse
// gas inventory summary tables and production records. Its product is
// a bounded estimate of the fraction of produced methane lost by
// midstream infrastructure below the aerial detection level.
package ghgi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/roams"
	"github.com/spatialmodel/roams/internal/tabular"
	"github.com/spatialmodel/roams/units"
)

var log = logrus.StandardLogger()

// The national inventory stages counted as midstream.
var midstreamStages = []string{"Gathering and Boosting", "Processing", "Transmission and Storage"}

// Files names the inventory and production tables.
type Files struct {
	// StateGHGI is a per-gas table of state CO2-equivalent emissions
	// with a "Gas" column and one column per year.
	StateGHGI string

	// StateProduction is a per-state table of natural gas production
	// with a "State" column and one column per year.
	StateProduction string

	// NationalProduction is a monthly national production table with
	// "Month", "Oil", and "Gas" columns; months are dates whose last
	// four characters are the year.
	NationalProduction string

	// NGEmissions is the national CH4-from-natural-gas-systems table
	// with a "Stage" column and one column per year.
	NGEmissions string

	// NGUncertainty holds the fractional uncertainty bounds of the
	// natural gas CH4 estimate, with "Gas", "Lower", and "Upper"
	// columns holding percentages.
	NGUncertainty string

	// PetroleumEmissions is the national CH4-from-petroleum-systems
	// table with an "Activity" column and one column per year.
	PetroleumEmissions string
}

// Options selects and scales the inventory data.
type Options struct {
	Year  int
	State string

	// FracCH4 is the methane fraction of produced gas.
	FracCH4 float64

	// FracAerial is the fraction of total midstream emissions that an
	// aerial survey is expected to detect.
	FracAerial float64

	// CO2eqUnit is the unit of StateGHGI values. Defaults to mmt/yr.
	CO2eqUnit string

	// EmissionsUnit is the unit of the national emission tables.
	// Defaults to kt/yr.
	EmissionsUnit string

	// ProductionUnit is the unit of both production tables. Defaults
	// to mcf/yr.
	ProductionUnit string
}

// Tables holds the values extracted from the inventory files for one
// state and year.
type Tables struct {
	opts Options

	stateCH4CO2eq     float64 // state methane emissions, CO2eq, CO2eqUnit
	stateNGProduction float64 // state gas production, ProductionUnit
	natlNGProduction  float64 // national gas production, ProductionUnit
	natlMidstreamCH4  float64 // national midstream CH4, EmissionsUnit
	natlNGTotalCH4    float64 // national gas system CH4 total, EmissionsUnit
	natlPetTotalCH4   float64 // national petroleum system CH4 total, EmissionsUnit
	uncertainty       roams.LossRate
}

// Load reads the inventory files and extracts the values for the year
// and state in opts.
func Load(files Files, opts Options) (*Tables, error) {
	if opts.FracCH4 < 0 || opts.FracCH4 > 1 {
		return nil, fmt.Errorf("ghgi: methane fraction %g must be between 0 and 1", opts.FracCH4)
	}
	if opts.FracAerial < 0 || opts.FracAerial > 1 {
		return nil, fmt.Errorf("ghgi: aerially detectable fraction %g must be between 0 and 1", opts.FracAerial)
	}
	if opts.CO2eqUnit == "" {
		opts.CO2eqUnit = "mmt/yr"
	}
	if opts.EmissionsUnit == "" {
		opts.EmissionsUnit = "kt/yr"
	}
	if opts.ProductionUnit == "" {
		opts.ProductionUnit = "mcf/yr"
	}

	t := &Tables{opts: opts}
	var err error

	if t.stateCH4CO2eq, err = yearValue(files.StateGHGI, "Gas", "Methane", opts.Year); err != nil {
		return nil, err
	}
	if t.stateNGProduction, err = yearValue(files.StateProduction, "State", opts.State, opts.Year); err != nil {
		return nil, err
	}
	if t.natlNGProduction, err = nationalGasProduction(files.NationalProduction, opts.Year); err != nil {
		return nil, err
	}
	for _, stage := range midstreamStages {
		v, err := yearValue(files.NGEmissions, "Stage", stage, opts.Year)
		if err != nil {
			return nil, err
		}
		t.natlMidstreamCH4 += v
	}
	if t.natlNGTotalCH4, err = yearValue(files.NGEmissions, "Stage", "Total", opts.Year); err != nil {
		return nil, err
	}
	if t.natlPetTotalCH4, err = yearValue(files.PetroleumEmissions, "Activity", "Total", opts.Year); err != nil {
		return nil, err
	}
	if t.uncertainty, err = readUncertainty(files.NGUncertainty); err != nil {
		return nil, err
	}
	return t, nil
}

// LossRates returns the total and below-detection-level midstream
// methane loss rates, each a fraction of produced methane with 95%
// bounds.
//
// Two estimates of the total rate are formed: the state loss rate
// scaled by the national midstream share of oil and gas emissions, and
// the national midstream loss rate directly. The one with the smaller
// central value wins, keeping a state with sparse inventory data from
// inflating the midstream estimate. The below-detection rate is the
// total scaled by the share of midstream emissions aerial surveys
// miss.
func (t *Tables) LossRates() (total, subMDL roams.LossRate, err error) {
	stateLoss, err := t.stateLossRate()
	if err != nil {
		return total, subMDL, err
	}
	log.Infof("ghgi: estimated %s methane loss rate is %.4f", t.opts.State, stateLoss)

	midFrac := t.natlMidstreamShare()
	natlLoss, err := t.nationalMidstreamLossRate()
	if err != nil {
		return total, subMDL, err
	}

	stateMid := roams.LossRate{
		Low:  stateLoss * midFrac.Low,
		Mid:  stateLoss * midFrac.Mid,
		High: stateLoss * midFrac.High,
	}
	log.Infof("ghgi: state-scaled midstream loss %.4f (%.4f-%.4f); national midstream loss %.4f (%.4f-%.4f)",
		stateMid.Mid, stateMid.Low, stateMid.High, natlLoss.Mid, natlLoss.Low, natlLoss.High)

	total = stateMid
	if stateMid.Mid > natlLoss.Mid {
		total = natlLoss
	}
	f := 1 - t.opts.FracAerial
	subMDL = roams.LossRate{Low: total.Low * f, Mid: total.Mid * f, High: total.High * f}
	return total, subMDL, nil
}

// stateLossRate is state methane emissions divided by state methane
// production, both as mass rates.
func (t *Tables) stateLossRate() (float64, error) {
	emitted, err := units.Convert(t.stateCH4CO2eq/units.GWPCH4, t.opts.CO2eqUnit, units.EmissionRate)
	if err != nil {
		return 0, fmt.Errorf("ghgi: state methane emissions: %v", err)
	}
	produced, err := units.CH4VolumeToMass(t.stateNGProduction*t.opts.FracCH4, t.opts.ProductionUnit, units.EmissionRate)
	if err != nil {
		return 0, fmt.Errorf("ghgi: state methane production: %v", err)
	}
	if produced == 0 {
		return 0, fmt.Errorf("ghgi: state %s reports no gas production in %d", t.opts.State, t.opts.Year)
	}
	return emitted / produced, nil
}

// natlMidstreamShare is the midstream share of national oil and gas
// methane emissions, with uncertainty bounds.
func (t *Tables) natlMidstreamShare() roams.LossRate {
	share := t.natlMidstreamCH4 / (t.natlNGTotalCH4 + t.natlPetTotalCH4)
	return roams.LossRate{
		Low:  share * t.uncertainty.Low,
		Mid:  share * t.uncertainty.Mid,
		High: share * t.uncertainty.High,
	}
}

// nationalMidstreamLossRate is national midstream methane emissions
// divided by national methane production, with uncertainty bounds.
func (t *Tables) nationalMidstreamLossRate() (roams.LossRate, error) {
	emitted, err := units.Convert(t.natlMidstreamCH4, t.opts.EmissionsUnit, units.EmissionRate)
	if err != nil {
		return roams.LossRate{}, fmt.Errorf("ghgi: national midstream emissions: %v", err)
	}
	produced, err := units.CH4VolumeToMass(t.natlNGProduction*t.opts.FracCH4, t.opts.ProductionUnit, units.EmissionRate)
	if err != nil {
		return roams.LossRate{}, fmt.Errorf("ghgi: national methane production: %v", err)
	}
	rate := emitted / produced
	return roams.LossRate{
		Low:  rate * t.uncertainty.Low,
		Mid:  rate * t.uncertainty.Mid,
		High: rate * t.uncertainty.High,
	}, nil
}

// yearValue reads the value in the row where keyCol equals key, in the
// column named for the year.
func yearValue(path, keyCol, key string, year int) (float64, error) {
	t, err := tabular.Read(path)
	if err != nil {
		return 0, err
	}
	keys, err := t.Strings(keyCol)
	if err != nil {
		return 0, err
	}
	vals, err := t.Floats(strconv.Itoa(year))
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if strings.EqualFold(k, key) {
			return vals[i], nil
		}
	}
	return 0, fmt.Errorf("ghgi: %s has no row where %s is %q", path, keyCol, key)
}

// nationalGasProduction sums the monthly national gas production rows
// belonging to the given year.
func nationalGasProduction(path string, year int) (float64, error) {
	t, err := tabular.Read(path)
	if err != nil {
		return 0, err
	}
	months, err := t.Strings("Month")
	if err != nil {
		return 0, err
	}
	gas, err := t.Floats("Gas")
	if err != nil {
		return 0, err
	}
	want := strconv.Itoa(year)
	var total float64
	n := 0
	for i, m := range months {
		if len(m) >= 4 && m[len(m)-4:] == want {
			total += gas[i]
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("ghgi: %s has no months in %d", path, year)
	}
	return total, nil
}

// readUncertainty turns the CH4 uncertainty bounds into multipliers
// around a central estimate: {1+lower, 1, 1+upper}.
func readUncertainty(path string) (roams.LossRate, error) {
	t, err := tabular.Read(path)
	if err != nil {
		return roams.LossRate{}, err
	}
	gases, err := t.Strings("Gas")
	if err != nil {
		return roams.LossRate{}, err
	}
	lower, err := t.Floats("Lower")
	if err != nil {
		return roams.LossRate{}, err
	}
	upper, err := t.Floats("Upper")
	if err != nil {
		return roams.LossRate{}, err
	}
	for i, g := range gases {
		if strings.EqualFold(g, "CH4") {
			return roams.LossRate{Low: 1 + lower[i], Mid: 1, High: 1 + upper[i]}, nil
		}
	}
	return roams.LossRate{}, fmt.Errorf("ghgi: %s has no CH4 row", path)
}
