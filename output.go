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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/roams/units"
)

// ciQuantiles are the sample quantiles mapped to confidence bounds in
// the summary tables.
var ciQuantiles = [2]float64{0.025, 0.975}

// A Summary is a mean with scaled 95% confidence bounds.
type Summary struct {
	Avg, Low, High float64
}

// summarize reduces one value per realization to a mean and confidence
// bounds. The observed quantile spread is widened or narrowed by
// sqrt(effective sites surveyed / sites simulated): revisits sharpen
// the estimate, simulating beyond the surveyed population loosens it.
func (m *Model) summarize(values []float64) Summary {
	avg := mean(values)
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	denom := math.Sqrt((m.WellVisitCount / m.WellsPerSite) / float64(m.WellsToSimulate))

	var s Summary
	s.Avg = avg
	lo := quantile(ciQuantiles[0], sorted)
	hi := quantile(ciQuantiles[1], sorted)
	s.Low = shiftTowards(avg, lo, denom)
	s.High = shiftTowards(avg, hi, denom)
	return s
}

// shiftTowards moves the quantile's offset from the mean by the given
// scaling, keeping it on the same side.
func shiftTowards(avg, q, denom float64) float64 {
	diff := math.Abs(avg-q) / denom
	if q < avg {
		return avg - diff
	}
	return avg + diff
}

// summarizeLossRate presents an inventory loss estimate in the same
// shape as a sampled summary. The bounds come from the inventory's own
// uncertainty, not from sampling.
func summarizeLossRate(r LossRate) Summary {
	return Summary{Avg: r.Mid, Low: r.Low, High: r.High}
}

// WriteOutputs writes the result summary tables, the combined
// distribution plot, and optionally the full mean distribution table
// into dir, creating it if needed.
func (m *Model) WriteOutputs(res *Results, dir string, saveMeanDist bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("roams: creating output directory: %w", err)
	}

	tables := map[string][][]string{
		"production_and_midstream_summary.csv": m.keyResultsTable(res),
		"fractional_loss_summary.csv":          m.fractionalLossTable(res),
		"combined_distribution_summary.csv":    m.distributionSummaryTable(res),
		"aerial_characterization.csv":          m.aerialCharacterizationTable(res),
	}
	if saveMeanDist {
		tables["mean_production_distributions.csv"] = m.meanDistributionTable(res)
	}
	for name, rows := range tables {
		path := filepath.Join(dir, name)
		log.Infof("roams: saving %s", path)
		if err := writeCSV(path, rows); err != nil {
			return err
		}
	}
	return m.plotCombined(res, dir)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("roams: creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("roams: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("roams: closing %s: %w", path, err)
	}
	return nil
}

// aboveTotals sums, per column, the entries of values whose
// corresponding ref entry is at or above that column's threshold.
func aboveTotals(values, ref *mat.Dense, tps []float64) []float64 {
	rows, cols := values.Dims()
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if ref.At(i, j) >= tps[j] {
				out[j] += values.At(i, j)
			}
		}
	}
	return out
}

// belowTotals sums, per column, the entries of values strictly below
// that column's threshold.
func belowTotals(values *mat.Dense, tps []float64) []float64 {
	rows, cols := values.Dims()
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if v := values.At(i, j); v < tps[j] {
				out[j] += v
			}
		}
	}
	return out
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func addSlices(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func scaleSlice(a []float64, x float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * x
	}
	return out
}

const kiloLabel = "thousand kg/h"

// keyResultsTable summarizes the total emissions of every component
// distribution, by itself and accounting for the transition point.
func (m *Model) keyResultsTable(res *Results) [][]string {
	rows := [][]string{{
		"Quantity",
		"By Itself Avg", "By Itself 2.5% CI", "By Itself 97.5% CI",
		"Accounting for Transition Point Avg", "Accounting for Transition Point 2.5% CI", "Accounting for Transition Point 97.5% CI",
	}}
	add := func(name string, itself, accounted *Summary) {
		row := []string{name}
		row = appendSummary(row, itself)
		row = appendSummary(row, accounted)
		rows = append(rows, row)
	}
	sum := func(vals []float64) *Summary {
		s := m.summarize(scaleSlice(vals, 1e-3))
		return &s
	}

	prod := res.Aerial[GroupProduction]
	aerialTotal := columnTotals(prod.Emissions)
	aerialAbove := aboveTotals(prod.Emissions, prod.Emissions, res.ProdTransition)
	missedTotal := columnTotals(prod.Missed)
	missedAbove := aboveTotals(prod.Missed, prod.Emissions, res.ProdTransition)
	simTotal := columnTotals(res.Simulated)
	simBelow := belowTotals(res.Combined, res.ProdTransition)
	combinedTotal := addSlices(columnTotals(res.Combined), columnTotals(res.CombinedMissed))

	add("Production Aerial Only Total CH4 emissions ("+kiloLabel+")",
		sum(aerialTotal), sum(aerialAbove))
	add("Production Partial Detection Total CH4 emissions ("+kiloLabel+")",
		sum(missedTotal), sum(missedAbove))
	add("Production Combined Aerial + Partial Detection Total CH4 emissions ("+kiloLabel+")",
		sum(addSlices(aerialTotal, missedTotal)), sum(addSlices(aerialAbove, missedAbove)))
	add("Production Simulated Total CH4 emissions ("+kiloLabel+")",
		sum(simTotal), sum(simBelow))
	add("Production overall Combined Total CH4 emissions ("+kiloLabel+")",
		sum(combinedTotal), nil)
	tpSummary := m.summarize(res.ProdTransition)
	add("Production Transition Point (kg/h)", &tpSummary, nil)

	totalGHGI := summarizeLossRate(res.TotalMidstreamCH4.Scale(1e-3))
	subGHGI := summarizeLossRate(res.SubMDLMidstreamCH4.Scale(1e-3))
	add("Midstream GHGI-based CH4 Emissions ("+kiloLabel+")", &totalGHGI, &subGHGI)

	mid := res.Aerial[GroupMidstream]
	midTPs := constant(m.MidstreamTransitionPoint, m.Realizations)
	midTotal := columnTotals(mid.Emissions)
	midAbove := aboveTotals(mid.Emissions, mid.Emissions, midTPs)
	midMissedTotal := columnTotals(mid.Missed)
	midMissedAbove := aboveTotals(mid.Missed, mid.Emissions, midTPs)

	add("Midstream Aerial Only Total CH4 Emissions ("+kiloLabel+")",
		sum(midTotal), sum(midAbove))
	add("Midstream Partial Detection Total CH4 Emissions ("+kiloLabel+")",
		sum(midMissedTotal), sum(midMissedAbove))
	add("Midstream Combined Aerial + Partial Detection Total CH4 emissions ("+kiloLabel+")",
		sum(addSlices(midTotal, midMissedTotal)), sum(addSlices(midAbove, midMissedAbove)))

	// Grand total of everything the survey and inventory can see. The
	// sub-detection midstream term is a point estimate, so the bounds
	// are left blank rather than implying a sampled interval.
	grand := addSlices(addSlices(aerialAbove, missedAbove),
		addSlices(simBelow, addSlices(midAbove, midMissedAbove)))
	g := sum(grand)
	g.Avg += res.SubMDLMidstreamCH4.Mid * 1e-3
	rows = append(rows, []string{
		"Total Production + Midstream CH4 Emissions Estimate, All Sources (" + kiloLabel + ")",
		formatFloat(g.Avg), "", "", "", "", "",
	})
	return rows
}

func appendSummary(row []string, s *Summary) []string {
	if s == nil {
		return append(row, "", "", "")
	}
	return append(row, formatFloat(s.Avg), formatFloat(s.Low), formatFloat(s.High))
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

// fractionalLossTable reports covered production and the mean
// fractional methane and energy losses of production and midstream.
func (m *Model) fractionalLossTable(res *Results) [][]string {
	prodEmitted := mean(addSlices(columnTotals(res.Combined), columnTotals(res.CombinedMissed)))

	mid := res.Aerial[GroupMidstream]
	midTPs := constant(m.MidstreamTransitionPoint, m.Realizations)
	midAerial := mean(addSlices(
		aboveTotals(mid.Emissions, mid.Emissions, midTPs),
		aboveTotals(mid.Missed, mid.Emissions, midTPs)))
	midEmitted := res.SubMDLMidstreamCH4.Mid + midAerial

	energyDenomMJD := m.OilProductionBBLD*units.MJPerBOE +
		m.NGProductionMcfd*units.EnergyContentMJPerMcf(m.GasComposition)
	// kg/h of CH4 to MJ/d of embodied energy.
	energyPerRate := units.EnergyDensityMJPerKg["c1"] * 24

	return [][]string{
		{
			"Covered Production (CH4 mscf/day)",
			"Covered Production (CH4 kg/h)",
			"Mean fractional CH4 Loss in production (kg/h lost / kg/h produced)",
			"Mean fractional CH4 Loss in midstream (kg/h lost / kg/h produced)",
			"Mean fractional Energy Loss in production (MJ lost / MJ produced)",
			"Mean fractional Energy Loss in midstream (MJ lost / MJ produced)",
		},
		{
			formatFloat(m.CH4ProductionVolume),
			formatFloat(m.CH4ProductionMass),
			formatFloat(prodEmitted / m.CH4ProductionMass),
			formatFloat(midEmitted / m.CH4ProductionMass),
			formatFloat(prodEmitted * energyPerRate / energyDenomMJD),
			formatFloat(midEmitted * energyPerRate / energyDenomMJD),
		},
	}
}

// distributionSummaryTable characterizes the mean combined cumulative
// distribution at reference emission rates and percentiles.
func (m *Model) distributionSummaryTable(res *Results) [][]string {
	x := rowMeans(res.Combined)
	y := meanRemainingPercent(res)

	firstBelow := func(vals []float64, limit float64) int {
		for i, v := range vals {
			if !(v > limit) {
				return i
			}
		}
		return 0
	}
	firstAtLeast := func(vals []float64, limit float64) int {
		for i, v := range vals {
			if !(v < limit) {
				return i
			}
		}
		return 0
	}

	idx := []int{
		firstAtLeast(x, 10),
		firstAtLeast(x, 100),
		firstAtLeast(x, 1000),
		firstBelow(y, 90),
		firstBelow(y, 50),
		firstBelow(y, 10),
		firstBelow(y, 0),
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	out := [][]string{{"Emissions Value (kg/h)", "Cumulative Distribution Percentile"}}
	for _, i := range idx {
		out = append(out, []string{formatFloat(x[i]), formatFloat(y[i])})
	}
	return out
}

// aerialCharacterizationTable summarizes every asset group's sampled
// aerial distribution: total emissions with spread, and the fractional
// volumetric and energy losses they imply.
func (m *Model) aerialCharacterizationTable(res *Results) [][]string {
	out := [][]string{{
		"Asset Group", "Distribution", "Quantity",
		"Avg", "2.5% CI", "97.5% CI", "Std Dev",
	}}

	energyDenomMJD := m.OilProductionBBLD*units.MJPerBOE +
		m.NGProductionMcfd*units.EnergyContentMJPerMcf(m.GasComposition)
	energyPerRate := units.EnergyDensityMJPerKg["c1"] * 24

	groups := make([]string, 0, len(res.Aerial))
	for g := range res.Aerial {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, group := range groups {
		sample := res.Aerial[group]
		dists := []struct {
			name   string
			totals []float64
		}{
			{"Aerial Only", columnTotals(sample.Emissions)},
			{"Partial Detection Correction", columnTotals(sample.Missed)},
			{"Aerial + Partial Detection", addSlices(columnTotals(sample.Emissions), columnTotals(sample.Missed))},
		}
		for _, d := range dists {
			s := m.summarize(d.totals)
			sd := stats.StatsSampleStandardDeviation(d.totals)
			add := func(quantity string, scale float64) {
				out = append(out, []string{
					group, d.name, quantity,
					formatFloat(s.Avg * scale), formatFloat(s.Low * scale),
					formatFloat(s.High * scale), formatFloat(sd * scale),
				})
			}
			add("Total Emissions (kg/h)", 1)
			add("Fractional Volumetric Loss (kgCH4 emitted / kgCH4 produced)", 1/m.CH4ProductionMass)
			add("Fractional Energy Loss (MJ CH4 emitted / MJ oil+gas produced)", energyPerRate/energyDenomMJD)
		}
	}
	return out
}

// meanDistributionTable reports, for each of the aerial, partial
// detection, simulated, and combined distributions, the per-row mean
// emission and decreasing cumulative total across realizations, with
// scaled confidence bounds.
func (m *Model) meanDistributionTable(res *Results) [][]string {
	prod := res.Aerial[GroupProduction]
	aerial, err := padRows(prod.Emissions, m.WellsToSimulate)
	if err != nil {
		// The combiner already padded these dimensions successfully.
		panic(err)
	}
	missed, err := padRows(prod.Missed, m.WellsToSimulate)
	if err != nil {
		panic(err)
	}
	sortColumnsPaired(aerial, missed)

	type block struct {
		name       string
		values     *mat.Dense
		cumulative *mat.Dense
	}
	blocks := []block{
		{"Aerial Only", aerial, decreasingCumulative(aerial, nil)},
		{"Partial Detection Only", missed, decreasingCumulative(missed, nil)},
		{"Simulated Only", res.Simulated, decreasingCumulative(res.Simulated, nil)},
		{"Combined Distribution", res.Combined, decreasingCumulative(res.Combined, res.CombinedMissed)},
	}

	header := []string{"Row"}
	for _, b := range blocks {
		header = append(header,
			b.name+" Mean Cumulative Dist (kg/h)",
			b.name+" Mean Emissions (kg/h)",
			b.name+" Cumulative Dist (kg/h) 2.5% CI",
			b.name+" Emissions (kg/h) 2.5% CI",
			b.name+" Cumulative Dist (kg/h) 97.5% CI",
			b.name+" Emissions (kg/h) 97.5% CI",
		)
	}
	out := [][]string{header}

	denom := math.Sqrt((m.WellVisitCount / m.WellsPerSite) / float64(m.WellsToSimulate))
	for i := 0; i < m.WellsToSimulate; i++ {
		row := []string{fmt.Sprintf("%d", i)}
		for _, b := range blocks {
			cumRow := rowSlice(b.cumulative, i)
			valRow := rowSlice(b.values, i)
			row = append(row,
				formatFloat(mean(cumRow)), formatFloat(mean(valRow)),
				formatFloat(rowCI(cumRow, ciQuantiles[0], denom)), formatFloat(rowCI(valRow, ciQuantiles[0], denom)),
				formatFloat(rowCI(cumRow, ciQuantiles[1], denom)), formatFloat(rowCI(valRow, ciQuantiles[1], denom)),
			)
		}
		out = append(out, row)
	}
	return out
}

// meanRemainingPercent returns, per row of the combined distribution,
// the mean percent of a realization's total emissions coming from
// sources at least as large as that row. Realizations without any
// emissions are left out of the mean.
func meanRemainingPercent(res *Results) []float64 {
	cum := decreasingCumulative(res.Combined, res.CombinedMissed)
	rows, cols := cum.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		var pct float64
		n := 0
		for j := 0; j < cols; j++ {
			top := cum.At(0, j) + res.Combined.At(0, j) + res.CombinedMissed.At(0, j)
			if top <= 0 {
				continue
			}
			pct += 100 * cum.At(i, j) / top
			n++
		}
		if n > 0 {
			out[i] = pct / float64(n)
		}
	}
	return out
}

func rowSlice(m *mat.Dense, i int) []float64 {
	_, cols := m.Dims()
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		out[j] = m.At(i, j)
	}
	return out
}

func rowCI(vals []float64, q, denom float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	avg := mean(vals)
	return avg + (quantile(q, sorted)-avg)/denom
}
