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

// Package aerial loads aerial survey campaign data: a table of observed
// plumes and a table of the sources they were attributed to, split into
// asset groups for separate treatment by the model.
//
// Of the three plume quantities - emission rate, wind-normalized
// emission rate, and wind speed - any two may be supplied and the third
// is inferred from emission = wind-normalized emission * wind speed.
// If all three are supplied the given values are used as-is.
package aerial

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/roams"
	"github.com/spatialmodel/roams/internal/tabular"
	"github.com/spatialmodel/roams/units"
)

var log = logrus.StandardLogger()

// CutoffHandling says what to do with plumes flagged as cut off by the
// instrument field of view.
type CutoffHandling string

const (
	// CutoffDrop removes cut-off plumes and decrements the coverage
	// count of their sources; sources left with no coverage are
	// removed entirely.
	CutoffDrop CutoffHandling = "drop"

	// CutoffResample replaces the wind-normalized value of each
	// cut-off plume with a draw from the non-cut-off plumes.
	CutoffResample CutoffHandling = "resample"
)

// Options locates the relevant columns of the plume and source tables.
type Options struct {
	// Source table columns.
	SourceIDCol      string
	CoverageCountCol string
	AssetCol         string

	// Plume table columns and their units. The plume table must also
	// contain SourceIDCol.
	EmissionsCol  string
	EmissionsUnit string

	// WindNormUnit is a compound unit with the emission rate and wind
	// speed parts separated by a colon, for example "kg/h:m/s".
	WindNormCol  string
	WindNormUnit string

	WindSpeedCol  string
	WindSpeedUnit string

	// CutoffCol, when set, names a boolean plume column flagging
	// plumes cut off by the field of view, resolved per
	// CutoffHandling.
	CutoffCol      string
	CutoffHandling CutoffHandling

	// AssetGroups maps a group name ("production", "midstream") to the
	// asset labels belonging to it.
	AssetGroups map[string][]string

	// Seed drives cut-off plume resampling.
	Seed uint64
}

// A Group is the slice of the survey belonging to one asset group, in
// canonical units, ready to build a visit-slot survey from.
type Group struct {
	Sources []roams.Source
	Plumes  []roams.Plume
}

// A Campaign is a loaded survey campaign split into asset groups.
type Campaign struct {
	groups map[string]Group
}

// Load reads the plume and source tables and splits them into the
// configured asset groups.
func Load(plumePath, sourcePath string, opts Options) (*Campaign, error) {
	if opts.SourceIDCol == "" || opts.CoverageCountCol == "" || opts.AssetCol == "" {
		return nil, fmt.Errorf("aerial: source ID, coverage count, and asset columns must all be configured")
	}
	if n := boolCount(opts.EmissionsCol == "", opts.WindNormCol == "", opts.WindSpeedCol == ""); n > 1 {
		return nil, fmt.Errorf("aerial: at least two of the emission, wind-normalized, and wind speed columns " +
			"must be configured; the third can be inferred")
	}
	if len(opts.AssetGroups) == 0 {
		return nil, fmt.Errorf("aerial: no asset groups configured")
	}

	plumeTable, err := tabular.Read(plumePath)
	if err != nil {
		return nil, err
	}
	sourceTable, err := tabular.Read(sourcePath)
	if err != nil {
		return nil, err
	}

	plumes, err := readPlumes(plumeTable, opts)
	if err != nil {
		return nil, fmt.Errorf("aerial: %s: %v", plumePath, err)
	}
	sources, err := readSources(sourceTable, opts)
	if err != nil {
		return nil, fmt.Errorf("aerial: %s: %v", sourcePath, err)
	}

	if opts.CutoffCol != "" {
		plumes, sources, err = resolveCutoffs(plumes, sources, opts)
		if err != nil {
			return nil, err
		}
	}

	c := &Campaign{groups: make(map[string]Group, len(opts.AssetGroups))}
	for name, assets := range opts.AssetGroups {
		c.groups[strings.ToLower(name)] = splitGroup(sources, plumes, assets)
	}
	return c, nil
}

// Group returns the named asset group.
func (c *Campaign) Group(name string) (Group, error) {
	g, ok := c.groups[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(c.groups))
		for n := range c.groups {
			names = append(names, n)
		}
		return Group{}, fmt.Errorf("aerial: no asset group %q; the groups are: %s", name, strings.Join(names, ", "))
	}
	return g, nil
}

// Survey builds the visit-slot survey for the named asset group.
func (c *Campaign) Survey(name string) (*roams.Survey, error) {
	g, err := c.Group(name)
	if err != nil {
		return nil, err
	}
	return roams.NewSurvey(g.Sources, g.Plumes)
}

func readPlumes(t *tabular.Table, opts Options) ([]roams.Plume, error) {
	ids, err := t.Strings(opts.SourceIDCol)
	if err != nil {
		return nil, err
	}

	var em, wn, ws []float64
	if opts.EmissionsCol != "" {
		if opts.EmissionsUnit == "" {
			return nil, fmt.Errorf("no unit configured for emission column %q", opts.EmissionsCol)
		}
		raw, err := t.Floats(opts.EmissionsCol)
		if err != nil {
			return nil, err
		}
		em = make([]float64, len(raw))
		for i, v := range raw {
			if em[i], err = units.Convert(v, opts.EmissionsUnit, units.EmissionRate); err != nil {
				return nil, err
			}
		}
	}
	if opts.WindNormCol != "" {
		if opts.WindNormUnit == "" {
			return nil, fmt.Errorf("no unit configured for wind-normalized column %q", opts.WindNormCol)
		}
		raw, err := t.Floats(opts.WindNormCol)
		if err != nil {
			return nil, err
		}
		if wn, err = convertWindNorm(raw, opts.WindNormUnit); err != nil {
			return nil, err
		}
	}
	if opts.WindSpeedCol != "" {
		if opts.WindSpeedUnit == "" {
			return nil, fmt.Errorf("no unit configured for wind speed column %q", opts.WindSpeedCol)
		}
		raw, err := t.Floats(opts.WindSpeedCol)
		if err != nil {
			return nil, err
		}
		ws = make([]float64, len(raw))
		for i, v := range raw {
			if ws[i], err = units.Convert(v, opts.WindSpeedUnit, units.WindSpeed); err != nil {
				return nil, err
			}
		}
	}

	// Infer whichever of the three was not supplied.
	switch {
	case em == nil:
		em = make([]float64, len(ids))
		for i := range em {
			em[i] = wn[i] * ws[i]
		}
	case wn == nil:
		wn = make([]float64, len(ids))
		for i := range wn {
			if ws[i] != 0 {
				wn[i] = em[i] / ws[i]
			}
		}
	}

	var cut []bool
	if opts.CutoffCol != "" {
		if cut, err = t.Bools(opts.CutoffCol); err != nil {
			return nil, err
		}
	}

	plumes := make([]roams.Plume, len(ids))
	for i, id := range ids {
		plumes[i] = roams.Plume{SourceID: id, Emission: em[i], WindNorm: wn[i]}
		if cut != nil {
			plumes[i].Cutoff = cut[i]
		}
	}
	return plumes, nil
}

func readSources(t *tabular.Table, opts Options) ([]roams.Source, error) {
	ids, err := t.Strings(opts.SourceIDCol)
	if err != nil {
		return nil, err
	}
	counts, err := t.Ints(opts.CoverageCountCol)
	if err != nil {
		return nil, err
	}
	assets, err := t.Strings(opts.AssetCol)
	if err != nil {
		return nil, err
	}
	sources := make([]roams.Source, len(ids))
	for i, id := range ids {
		sources[i] = roams.Source{ID: id, CoverageCount: counts[i], Asset: assets[i]}
	}
	return sources, nil
}

// convertWindNorm converts a compound wind-normalized unit, converting
// the numerator to kg/h and scaling by the denominator wind speed.
func convertWindNorm(raw []float64, cu string) ([]float64, error) {
	parts := strings.SplitN(cu, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("wind-normalized unit %q must have the form <emission rate>:<wind speed>, for example %q",
			cu, units.WindNormalized)
	}
	numer, denom := parts[0], parts[1]
	out := make([]float64, len(raw))
	for i, v := range raw {
		x, err := units.Convert(v, numer, units.EmissionRate)
		if err != nil {
			return nil, err
		}
		// A rate per slower wind unit is a larger rate per m/s, so
		// the denominator converts in the opposite direction.
		if out[i], err = units.Convert(x, units.WindSpeed, denom); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func resolveCutoffs(plumes []roams.Plume, sources []roams.Source, opts Options) ([]roams.Plume, []roams.Source, error) {
	nCut := 0
	for _, p := range plumes {
		if p.Cutoff {
			nCut++
		}
	}
	if nCut == 0 {
		return plumes, sources, nil
	}

	switch opts.CutoffHandling {
	case CutoffDrop:
		log.Infof("aerial: dropping %d cut-off plumes and decrementing their sources' coverage", nCut)
		dropped := make(map[string]int)
		kept := plumes[:0]
		for _, p := range plumes {
			if p.Cutoff {
				dropped[p.SourceID]++
				continue
			}
			kept = append(kept, p)
		}
		var keptSources []roams.Source
		for _, s := range sources {
			s.CoverageCount -= dropped[s.ID]
			if s.CoverageCount > 0 {
				keptSources = append(keptSources, s)
			}
		}
		return kept, keptSources, nil

	case CutoffResample:
		log.Infof("aerial: resampling wind-normalized values for %d cut-off plumes", nCut)
		var pool []float64
		for _, p := range plumes {
			if !p.Cutoff {
				pool = append(pool, p.WindNorm)
			}
		}
		if len(pool) == 0 {
			return nil, nil, fmt.Errorf("aerial: every plume is cut off; nothing to resample from")
		}
		rnd := rand.New(rand.NewSource(opts.Seed))
		for i := range plumes {
			if plumes[i].Cutoff {
				plumes[i].WindNorm = pool[rnd.Intn(len(pool))]
				plumes[i].Cutoff = false
			}
		}
		return plumes, sources, nil

	default:
		return nil, nil, fmt.Errorf("aerial: unrecognized cutoff handling %q", opts.CutoffHandling)
	}
}

func splitGroup(sources []roams.Source, plumes []roams.Plume, assets []string) Group {
	want := make(map[string]bool, len(assets))
	for _, a := range assets {
		want[strings.ToLower(a)] = true
	}
	var g Group
	ids := make(map[string]bool)
	for _, s := range sources {
		if want[strings.ToLower(s.Asset)] {
			g.Sources = append(g.Sources, s)
			ids[s.ID] = true
		}
	}
	for _, p := range plumes {
		if ids[p.SourceID] {
			g.Plumes = append(g.Plumes, p)
		}
	}
	return g
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
