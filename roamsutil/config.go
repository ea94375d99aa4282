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

package roamsutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	"github.com/spatialmodel/roams"
	"github.com/spatialmodel/roams/aerial"
	"github.com/spatialmodel/roams/ghgi"
	"github.com/spatialmodel/roams/production"
	"github.com/spatialmodel/roams/simulated"
	"github.com/spatialmodel/roams/units"
)

// ModelFromConfig loads the input tables named in the configuration and
// assembles them into a runnable model.
func ModelFromConfig(cfg *viper.Viper) (*roams.Model, error) {
	comp, err := gasComposition(cfg)
	if err != nil {
		return nil, err
	}

	m := &roams.Model{
		WellsToSimulate:          cfg.GetInt("MC.WellsToSimulate"),
		Realizations:             cfg.GetInt("MC.Realizations"),
		Seed:                     uint64(cfg.GetInt64("MC.Seed")),
		Stratify:                 cfg.GetBool("MC.Stratify"),
		WellVisitCount:           cfg.GetFloat64("Production.WellVisitCount"),
		WellsPerSite:             cfg.GetFloat64("Production.WellsPerSite"),
		OilProductionBBLD:        cfg.GetFloat64("Production.OilBBLD"),
		NGProductionMcfd:         cfg.GetFloat64("Production.NGMcfd"),
		GasComposition:           comp,
		ProdTransitionPoint:      cfg.GetFloat64("TransitionPoint.Production"),
		SmoothingWindow:          cfg.GetInt("TransitionPoint.SmoothingWindow"),
		MidstreamTransitionPoint: cfg.GetFloat64("TransitionPoint.Midstream"),
	}

	if breaks := cfg.GetStringSlice("MC.StratificationBreaks"); len(breaks) > 0 {
		m.StratificationBreaks = make([]float64, len(breaks))
		for i, s := range breaks {
			m.StratificationBreaks[i], err = cast.ToFloat64E(s)
			if err != nil {
				return nil, fmt.Errorf("roamsutil: parsing MC.StratificationBreaks: %v", err)
			}
		}
	}

	// Covered methane production, from whole-gas production and the
	// methane fraction of the gas.
	m.CH4ProductionVolume = comp["c1"] * m.NGProductionMcfd
	m.CH4ProductionMass, err = units.CH4VolumeToMass(m.CH4ProductionVolume, "mscf/d", "kg/h")
	if err != nil {
		return nil, fmt.Errorf("roamsutil: converting covered production: %v", err)
	}

	sim, err := simulated.Read(os.ExpandEnv(cfg.GetString("Simulated.File")), simulated.Options{
		EmissionsCol:   cfg.GetString("Simulated.EmissionsColumn"),
		EmissionsUnit:  cfg.GetString("Simulated.EmissionsUnit"),
		ProductionCol:  cfg.GetString("Simulated.ProductionColumn"),
		ProductionUnit: cfg.GetString("Simulated.ProductionUnit"),
	})
	if err != nil {
		return nil, err
	}
	m.SimEmissions = sim.Emissions()

	if m.Stratify {
		m.SimProduction, err = sim.Production()
		if err != nil {
			return nil, err
		}
		covered, err := production.Read(os.ExpandEnv(cfg.GetString("Production.File")), production.Options{
			Col:     cfg.GetString("Production.Column"),
			Unit:    cfg.GetString("Production.Unit"),
			FracCH4: comp["c1"],
		})
		if err != nil {
			return nil, err
		}
		m.CoveredProduction = covered.NGVolumetric()
	}

	groups, err := assetGroups(cfg)
	if err != nil {
		return nil, err
	}
	campaign, err := aerial.Load(
		os.ExpandEnv(cfg.GetString("Aerial.PlumesFile")),
		os.ExpandEnv(cfg.GetString("Aerial.SourcesFile")),
		aerial.Options{
			SourceIDCol:      cfg.GetString("Aerial.SourceIDColumn"),
			CoverageCountCol: cfg.GetString("Aerial.CoverageColumn"),
			AssetCol:         cfg.GetString("Aerial.AssetColumn"),
			EmissionsCol:     cfg.GetString("Aerial.EmissionsColumn"),
			EmissionsUnit:    cfg.GetString("Aerial.EmissionsUnit"),
			WindNormCol:      cfg.GetString("Aerial.WindNormColumn"),
			WindNormUnit:     cfg.GetString("Aerial.WindNormUnit"),
			WindSpeedCol:     cfg.GetString("Aerial.WindSpeedColumn"),
			WindSpeedUnit:    cfg.GetString("Aerial.WindSpeedUnit"),
			CutoffCol:        cfg.GetString("Aerial.CutoffColumn"),
			CutoffHandling:   aerial.CutoffHandling(cfg.GetString("Aerial.CutoffHandling")),
			AssetGroups:      groups,
			Seed:             uint64(cfg.GetInt64("MC.Seed")),
		})
	if err != nil {
		return nil, err
	}
	m.Surveys = make(map[string]*roams.Survey, len(groups))
	for name := range groups {
		m.Surveys[name], err = campaign.Survey(name)
		if err != nil {
			return nil, err
		}
	}

	if err := samplingOptions(cfg, m); err != nil {
		return nil, err
	}

	tables, err := ghgi.Load(ghgi.Files{
		StateGHGI:          os.ExpandEnv(cfg.GetString("GHGI.StateGHGIFile")),
		StateProduction:    os.ExpandEnv(cfg.GetString("GHGI.StateProductionFile")),
		NationalProduction: os.ExpandEnv(cfg.GetString("GHGI.NationalProductionFile")),
		NGEmissions:        os.ExpandEnv(cfg.GetString("GHGI.NGEmissionsFile")),
		NGUncertainty:      os.ExpandEnv(cfg.GetString("GHGI.NGUncertaintyFile")),
		PetroleumEmissions: os.ExpandEnv(cfg.GetString("GHGI.PetroleumEmissionsFile")),
	}, ghgi.Options{
		Year:       cfg.GetInt("GHGI.Year"),
		State:      cfg.GetString("GHGI.State"),
		FracCH4:    comp["c1"],
		FracAerial: cfg.GetFloat64("GHGI.AerialFraction"),
	})
	if err != nil {
		return nil, err
	}
	m.TotalMidstreamLoss, m.SubMDLMidstreamLoss, err = tables.LossRates()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// samplingOptions translates the Sampling.* configuration into the
// model's bias correction, noise, negative handling, and partial
// detection members.
func samplingOptions(cfg *viper.Viper, m *roams.Model) error {
	switch v := cfg.GetString("Sampling.Correction"); v {
	case "power":
		m.Correction = roams.DefaultPowerCorrection
	case "none":
		m.Correction = roams.IdentityCorrection{}
	default:
		return fmt.Errorf("roamsutil: unknown Sampling.Correction %q; valid values are power and none", v)
	}
	switch v := cfg.GetString("Sampling.Noise"); v {
	case "normal":
		m.Noise = roams.NormalNoise{
			Loc:   cfg.GetFloat64("Sampling.NoiseLoc"),
			Scale: cfg.GetFloat64("Sampling.NoiseScale"),
		}
	case "none":
		m.Noise = roams.NoNoise{}
	default:
		return fmt.Errorf("roamsutil: unknown Sampling.Noise %q; valid values are normal and none", v)
	}
	switch v := cfg.GetString("Sampling.HandleNegative"); v {
	case "zero":
		m.Negative = roams.ZeroNegative{}
	case "keep":
		m.Negative = roams.KeepNegative{}
	default:
		return fmt.Errorf("roamsutil: unknown Sampling.HandleNegative %q; valid values are zero and keep", v)
	}
	if cfg.GetBool("Sampling.PartialDetection") {
		switch v := cfg.GetString("Sampling.DetectionCurve"); v {
		case "bin":
			m.Detection = roams.DefaultBinCurve
		case "interp":
			m.Detection = roams.DefaultInterpCurve
		default:
			return fmt.Errorf("roamsutil: unknown Sampling.DetectionCurve %q; valid values are bin and interp", v)
		}
	}
	return nil
}

// gasComposition reads and validates the GasComposition map. Methane
// (c1) must be present, and the fractions must account for most of the
// gas without exceeding all of it.
func gasComposition(cfg *viper.Viper) (map[string]float64, error) {
	raw := GetStringMapString("GasComposition", cfg)
	comp := make(map[string]float64, len(raw))
	var sum float64
	for k, v := range raw {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("roamsutil: parsing GasComposition[%s]: %v", k, err)
		}
		comp[strings.ToLower(k)] = f
		sum += f
	}
	if _, ok := comp["c1"]; !ok {
		return nil, fmt.Errorf("roamsutil: GasComposition must include a c1 (methane) fraction")
	}
	if sum <= 0.8 || sum > 1 {
		return nil, fmt.Errorf("roamsutil: GasComposition fractions sum to %g; want a sum in (0.8, 1]", sum)
	}
	return comp, nil
}

// assetGroups reads the Aerial.AssetGroups map, splitting the
// comma-separated asset lists and checking that the required groups
// are present and disjoint.
func assetGroups(cfg *viper.Viper) (map[string][]string, error) {
	raw := GetStringMapString("Aerial.AssetGroups", cfg)
	groups := make(map[string][]string, len(raw))
	seen := make(map[string]string)
	for name, list := range raw {
		name = strings.ToLower(name)
		for _, asset := range strings.Split(list, ",") {
			asset = strings.ToLower(strings.TrimSpace(asset))
			if asset == "" {
				continue
			}
			if other, ok := seen[asset]; ok && other != name {
				return nil, fmt.Errorf("roamsutil: asset %q appears in both the %s and %s groups", asset, other, name)
			}
			seen[asset] = name
			groups[name] = append(groups[name], asset)
		}
	}
	for _, required := range []string{roams.GroupProduction, roams.GroupMidstream} {
		if len(groups[required]) == 0 {
			return nil, fmt.Errorf("roamsutil: Aerial.AssetGroups must include a %s group", required)
		}
	}
	return groups, nil
}

// GetStringMapString returns a map[string]string from a viper
// configuration, accounting for the fact that it might be a
// JSON-encoded string if it comes from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	if s, ok := i.(string); ok {
		out := make(map[string]string)
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out
		}
	}
	return cast.ToStringMapString(i)
}

// saveUsedConfig writes the fully resolved configuration used for a
// run into dir for provenance.
func saveUsedConfig(cfg *viper.Viper, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("roamsutil: creating output directory: %w", err)
	}
	settings := make(map[string]interface{})
	for _, option := range options {
		if option.name == "config" {
			continue
		}
		settings[option.name] = cfg.Get(option.name)
	}
	b, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("roamsutil: encoding used configuration: %w", err)
	}
	path := filepath.Join(dir, "used_config.json")
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("roamsutil: writing %s: %w", path, err)
	}
	return nil
}
