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
	"sort"

	"gonum.org/v1/gonum/mat"
)

// A LossRate is a fractional methane loss estimate with 95% bounds.
type LossRate struct {
	Low, Mid, High float64
}

// Scale returns the loss rate with all three values multiplied by x.
func (r LossRate) Scale(x float64) LossRate {
	return LossRate{Low: r.Low * x, Mid: r.Mid * x, High: r.High * x}
}

// Asset group names the model treats specially.
const (
	GroupProduction = "production"
	GroupMidstream  = "midstream"
)

// A Model holds everything needed to merge simulated and aerially
// surveyed emission estimates for one covered region. Inputs are in
// canonical units: kg/h emission rates, kg/h per m/s wind-normalized
// rates, and mscf/day production rates.
type Model struct {
	// SimEmissions are the simulated per-well emission estimates, and
	// SimProduction the index-paired production estimates. Production
	// is only needed when stratifying.
	SimEmissions  []float64
	SimProduction []float64

	// CoveredProduction is the estimated per-well production
	// distribution of the covered region, one value per
	// equal-probability bin. It is scaled by WellsPerSite before
	// being compared with the site-level simulated production.
	CoveredProduction []float64

	// Surveys holds one visit-slot survey per asset group. The
	// production and midstream groups must be present.
	Surveys map[string]*Survey

	// WellsToSimulate is the depth of the combined distribution:
	// the estimated number of wells in the covered region.
	WellsToSimulate int

	// Realizations is the number of Monte Carlo columns.
	Realizations int

	// WellVisitCount is the total number of well visits flown,
	// including revisits, and WellsPerSite the average number of
	// wells sharing a site. Together they scale the confidence
	// intervals of summary statistics.
	WellVisitCount float64
	WellsPerSite   float64

	// Stratify selects stratified resampling of the simulated sample.
	// StratificationBreaks defaults to DefaultStratificationBreaks.
	Stratify             bool
	StratificationBreaks []float64

	// Correction, Noise, and Negative adjust sampled aerial emission
	// rates, in that order. Nil members are skipped.
	Correction Correction
	Noise      Noise
	Negative   NegativeHandler

	// Detection enables the partial-detection correction; nil
	// disables it.
	Detection DetectionCurve

	// ProdTransitionPoint fixes the production transition point in
	// kg/h. Zero means compute it per realization by comparing the
	// distributions. SmoothingWindow defaults to
	// DefaultSmoothingWindow.
	ProdTransitionPoint float64
	SmoothingWindow     int

	// MidstreamTransitionPoint is the fixed emission rate above which
	// aerial midstream observations are counted, in kg/h.
	MidstreamTransitionPoint float64

	// TotalMidstreamLoss and SubMDLMidstreamLoss are the inventory
	// derived midstream loss rates, total and below detection level.
	TotalMidstreamLoss  LossRate
	SubMDLMidstreamLoss LossRate

	// Covered region production for loss denominators.
	CH4ProductionMass   float64 // kg/h of methane
	CH4ProductionVolume float64 // mscf/day of methane
	OilProductionBBLD   float64 // barrels of oil per day
	NGProductionMcfd    float64 // mscf/day of whole gas
	GasComposition      map[string]float64

	// Seed drives all random draws.
	Seed uint64
}

// An AerialSample is one asset group's sampled aerial emissions and
// the row-aligned missed-mass corrections, both sorted ascending by
// emission down each column.
type AerialSample struct {
	Emissions *mat.Dense
	Missed    *mat.Dense
}

// Results holds the outcome of a model run.
type Results struct {
	// Simulated is the sub-detection sample, sorted ascending down
	// each column.
	Simulated *mat.Dense

	// Aerial holds the sampled survey per asset group.
	Aerial map[string]AerialSample

	// ProdTransition is the production transition point per
	// realization, kg/h.
	ProdTransition []float64

	// Combined and CombinedMissed are the merged production
	// distribution and its row-aligned missed-mass corrections.
	Combined       *mat.Dense
	CombinedMissed *mat.Dense

	// TotalMidstreamCH4 and SubMDLMidstreamCH4 are the inventory
	// based midstream emission estimates in kg/h.
	TotalMidstreamCH4  LossRate
	SubMDLMidstreamCH4 LossRate
}

// Run performs the full combination: sample the simulated and aerial
// distributions, locate the production transition point, merge the
// production distributions, and scale the midstream inventory rates to
// the covered production.
func (m *Model) Run() (*Results, error) {
	if err := m.check(); err != nil {
		return nil, err
	}

	res := &Results{Aerial: make(map[string]AerialSample, len(m.Surveys))}

	sim, err := m.simulatedSample()
	if err != nil {
		return nil, err
	}
	res.Simulated = sim

	for group, survey := range m.Surveys {
		sample, err := m.aerialSample(group, survey)
		if err != nil {
			return nil, err
		}
		rows, cols := sample.Emissions.Dims()
		log.Infof("roams: the %s aerial sample is %d sources by %d realizations", group, rows, cols)
		log.Debugf("roams: mean total %s aerial emissions are %.2f kg/h",
			group, mean(columnTotals(sample.Emissions)))
		res.Aerial[group] = sample
	}

	prod := res.Aerial[GroupProduction]
	if m.ProdTransitionPoint > 0 {
		log.Infof("roams: using the fixed production transition point %g kg/h", m.ProdTransitionPoint)
		res.ProdTransition = make([]float64, m.Realizations)
		for j := range res.ProdTransition {
			res.ProdTransition[j] = m.ProdTransitionPoint
		}
	} else {
		window := m.SmoothingWindow
		if window == 0 {
			window = DefaultSmoothingWindow
		}
		res.ProdTransition, err = FindTransition(
			prod.Emissions, decreasingCumulative(prod.Emissions, prod.Missed),
			sim, decreasingCumulative(sim, nil),
			window,
		)
		if err != nil {
			return nil, err
		}
		log.Debugf("roams: the mean computed transition point is %.1f kg/h", mean(res.ProdTransition))
	}

	res.Combined, res.CombinedMissed, err = Combine(
		prod.Emissions, prod.Missed, sim, m.WellsToSimulate, res.ProdTransition, m.Seed)
	if err != nil {
		return nil, err
	}

	res.TotalMidstreamCH4 = m.TotalMidstreamLoss.Scale(m.CH4ProductionMass)
	res.SubMDLMidstreamCH4 = m.SubMDLMidstreamLoss.Scale(m.CH4ProductionMass)

	return res, nil
}

func (m *Model) check() error {
	if m.WellsToSimulate <= 0 {
		return validationf("the number of wells to simulate must be positive, got %d", m.WellsToSimulate)
	}
	if m.Realizations <= 0 {
		return validationf("the number of realizations must be positive, got %d", m.Realizations)
	}
	if len(m.SimEmissions) == 0 {
		return validationf("no simulated emissions were provided")
	}
	for _, group := range []string{GroupProduction, GroupMidstream} {
		if m.Surveys[group] == nil {
			return validationf("no aerial survey was provided for the %s asset group", group)
		}
	}
	if m.Stratify {
		if len(m.SimProduction) == 0 {
			return validationf("stratification requires simulated production values")
		}
		if len(m.CoveredProduction) == 0 {
			return validationf("stratification requires a covered production distribution")
		}
	}
	return nil
}

// simulatedSample draws the sub-detection sample, stratified by
// covered productivity when configured, sorted ascending down each
// column.
func (m *Model) simulatedSample() (*mat.Dense, error) {
	if m.Stratify {
		log.Infof("roams: drawing a stratified %dx%d simulated sample", m.WellsToSimulate, m.Realizations)
		breaks := m.StratificationBreaks
		if breaks == nil {
			breaks = DefaultStratificationBreaks
		}
		covered := make([]float64, len(m.CoveredProduction))
		for i, p := range m.CoveredProduction {
			covered[i] = p * m.WellsPerSite
		}
		return Stratify(m.SimEmissions, m.SimProduction, covered,
			m.WellsToSimulate, m.Realizations, breaks, m.Seed)
	}

	log.Infof("roams: drawing a raw %dx%d simulated sample", m.WellsToSimulate, m.Realizations)
	out := mat.NewDense(m.WellsToSimulate, m.Realizations, nil)
	err := eachColumn(m.Realizations, func(j int) error {
		rnd := columnRand(m.Seed, randSimulated, j)
		col := make([]float64, m.WellsToSimulate)
		for i := range col {
			col[i] = m.SimEmissions[rnd.Intn(len(m.SimEmissions))]
		}
		sort.Float64s(col)
		out.SetCol(j, col)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// aerialSample samples one asset group's survey and attaches the
// missed-mass correction, sorting both by emission.
func (m *Model) aerialSample(group string, survey *Survey) (AerialSample, error) {
	corr := m.Correction
	if corr == nil {
		corr = IdentityCorrection{}
	}
	noise := m.Noise
	if noise == nil {
		noise = NoNoise{}
	}
	neg := m.Negative
	if neg == nil {
		neg = KeepNegative{}
	}

	emissions, windNorm, err := SampleSurvey(survey, m.Realizations, corr, noise, neg, groupSeed(m.Seed, group))
	if err != nil {
		return AerialSample{}, err
	}

	var missed *mat.Dense
	if m.Detection != nil {
		missed, err = MissedMass(emissions, windNorm, m.Detection)
		if err != nil {
			return AerialSample{}, err
		}
	} else {
		log.Infof("roams: no partial detection correction will be applied to the %s sample", group)
		r, c := emissions.Dims()
		missed = mat.NewDense(r, c, nil)
	}

	sortColumnsPaired(emissions, missed)
	return AerialSample{Emissions: emissions, Missed: missed}, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}
