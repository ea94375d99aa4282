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

// Package roamsutil provides the ROAMS command line interface and
// configuration handling.
package roamsutil

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spatialmodel/roams"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ROAMS.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory the result tables and plots are
              written to.`,
			defaultVal: "roams_output",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SaveMeanDistributions",
			usage: `
              SaveMeanDistributions specifies whether to also write the full
              per-row mean emission distribution table, which can be large.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MC.WellsToSimulate",
			usage: `
              MC.WellsToSimulate is the number of production well sites each
              simulated realization contains.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MC.Realizations",
			usage: `
              MC.Realizations is the number of Monte Carlo realizations to
              draw.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MC.Seed",
			usage: `
              MC.Seed seeds the random number streams. Runs with the same
              seed and inputs produce identical results.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MC.Stratify",
			usage: `
              MC.Stratify specifies whether simulated emissions are resampled
              within production-quantile strata so that the simulated wells
              match the production profile of the covered wells.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MC.StratificationBreaks",
			usage: `
              MC.StratificationBreaks overrides the default production
              quantile break points used for stratification.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Simulated.File",
			usage: `
              Simulated.File is the path to the simulated well emissions
              table (CSV or XLSX).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Simulated.EmissionsColumn",
			usage: `
              Simulated.EmissionsColumn is the name of the emissions column
              in the simulated well table.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Simulated.EmissionsUnit",
			usage: `
              Simulated.EmissionsUnit is the unit of the simulated emissions
              column, for example "kg/h" or "mscf/d".`,
			defaultVal: "kg/h",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Simulated.ProductionColumn",
			usage: `
              Simulated.ProductionColumn is the name of the gas production
              column in the simulated well table. It is required when
              MC.Stratify is true.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Simulated.ProductionUnit",
			usage: `
              Simulated.ProductionUnit is the unit of the simulated
              production column.`,
			defaultVal: "mscf/d",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Production.File",
			usage: `
              Production.File is the path to the covered well production
              table used for stratification.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Production.Column",
			usage: `
              Production.Column is the name of the gas production column in
              the covered well production table.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Production.Unit",
			usage: `
              Production.Unit is the unit of the covered production column.`,
			defaultVal: "mscf/d",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Production.WellVisitCount",
			usage: `
              Production.WellVisitCount is the total number of well visits
              the aerial survey made, counting revisits.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Production.WellsPerSite",
			usage: `
              Production.WellsPerSite is the average number of wells at each
              surveyed site.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Production.OilBBLD",
			usage: `
              Production.OilBBLD is the total covered oil production in
              barrels per day, used for the energy loss denominator.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Production.NGMcfd",
			usage: `
              Production.NGMcfd is the total covered natural gas production
              in thousand standard cubic feet per day.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GasComposition",
			usage: `
              GasComposition is the molar composition of the produced gas as
              a map from component (c1 through c5) to fraction. c1 (methane)
              is required, and the fractions must sum to between 0.8 and 1.`,
			defaultVal: map[string]string{"c1": "0.8"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.PlumesFile",
			usage: `
              Aerial.PlumesFile is the path to the aerially measured plume
              table (CSV or XLSX).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.SourcesFile",
			usage: `
              Aerial.SourcesFile is the path to the surveyed source table
              (CSV or XLSX).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.SourceIDColumn",
			usage: `
              Aerial.SourceIDColumn is the name of the source identifier
              column, shared between the plume and source tables.`,
			defaultVal: "source_id",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.CoverageColumn",
			usage: `
              Aerial.CoverageColumn is the name of the source table column
              holding the number of times each source was overflown.`,
			defaultVal: "coverage_count",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.AssetColumn",
			usage: `
              Aerial.AssetColumn is the name of the source table column
              holding the asset type of each source.`,
			defaultVal: "asset",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.EmissionsColumn",
			usage: `
              Aerial.EmissionsColumn is the name of the plume emission rate
              column. At least two of the emissions, wind-normalized
              emissions, and wind speed columns must be present; a missing
              one is inferred from the other two.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.EmissionsUnit",
			usage: `
              Aerial.EmissionsUnit is the unit of the plume emission rate
              column.`,
			defaultVal: "kg/h",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.WindNormColumn",
			usage: `
              Aerial.WindNormColumn is the name of the wind-normalized plume
              emission rate column.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.WindNormUnit",
			usage: `
              Aerial.WindNormUnit is the unit of the wind-normalized column
              as an emission unit over a wind speed unit, for example
              "kg/h:m/s".`,
			defaultVal: "kg/h:m/s",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.WindSpeedColumn",
			usage: `
              Aerial.WindSpeedColumn is the name of the wind speed column.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.WindSpeedUnit",
			usage: `
              Aerial.WindSpeedUnit is the unit of the wind speed column.`,
			defaultVal: "m/s",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.CutoffColumn",
			usage: `
              Aerial.CutoffColumn is the name of an optional boolean plume
              column marking measurements below the instrument cutoff.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.CutoffHandling",
			usage: `
              Aerial.CutoffHandling specifies what to do with plumes marked
              below the cutoff: "drop" removes them and the overflights that
              produced them, "resample" replaces them with draws from the
              plumes above the cutoff.`,
			defaultVal: "drop",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Aerial.AssetGroups",
			usage: `
              Aerial.AssetGroups maps group names to comma-separated asset
              types. The "production" and "midstream" groups are required
              and may not share asset types.`,
			defaultVal: map[string]string{
				"production": "well site",
				"midstream":  "compressor station,processing plant,pipeline",
			},
			flagsets: []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sampling.Correction",
			usage: `
              Sampling.Correction selects the measurement bias correction
              applied to sampled aerial emissions: "power" or "none".`,
			defaultVal: "power",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sampling.Noise",
			usage: `
              Sampling.Noise selects the multiplicative measurement noise
              applied to sampled aerial emissions: "normal" or "none".`,
			defaultVal: "normal",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sampling.NoiseLoc",
			usage: `
              Sampling.NoiseLoc is the mean of the normal measurement noise
              factor.`,
			defaultVal: 1.07,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sampling.NoiseScale",
			usage: `
              Sampling.NoiseScale is the standard deviation of the normal
              measurement noise factor.`,
			defaultVal: 0.4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sampling.HandleNegative",
			usage: `
              Sampling.HandleNegative specifies what to do with sampled
              emissions the noise pushed below zero: "zero" or "keep".`,
			defaultVal: "zero",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sampling.PartialDetection",
			usage: `
              Sampling.PartialDetection specifies whether to estimate the
              emissions the aerial instrument missed because of imperfect
              detection probability.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Sampling.DetectionCurve",
			usage: `
              Sampling.DetectionCurve selects the probability-of-detection
              curve: "bin" or "interp".`,
			defaultVal: "bin",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TransitionPoint.Production",
			usage: `
              TransitionPoint.Production fixes the production transition
              point in kg/h. When zero it is found per realization from
              where the aerial distribution starts decaying faster than the
              simulated one.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TransitionPoint.SmoothingWindow",
			usage: `
              TransitionPoint.SmoothingWindow is the trailing window length
              used to smooth the distributions before comparing decay
              rates.`,
			defaultVal: roams.DefaultSmoothingWindow,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TransitionPoint.Midstream",
			usage: `
              TransitionPoint.Midstream is the fixed midstream transition
              point in kg/h.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.StateGHGIFile",
			usage: `
              GHGI.StateGHGIFile is the path to the state natural gas
              inventory table of CO2-equivalent emissions by year.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.StateProductionFile",
			usage: `
              GHGI.StateProductionFile is the path to the state gas
              production table by year.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.NationalProductionFile",
			usage: `
              GHGI.NationalProductionFile is the path to the monthly
              national oil and gas production table.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.NGEmissionsFile",
			usage: `
              GHGI.NGEmissionsFile is the path to the national natural gas
              inventory emissions table by stage and year.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.NGUncertaintyFile",
			usage: `
              GHGI.NGUncertaintyFile is the path to the inventory
              uncertainty table of lower and upper bounds.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.PetroleumEmissionsFile",
			usage: `
              GHGI.PetroleumEmissionsFile is the path to the national
              petroleum systems inventory emissions table by activity and
              year.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.Year",
			usage: `
              GHGI.Year is the inventory year to read.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.State",
			usage: `
              GHGI.State is the state the surveyed region lies in.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GHGI.AerialFraction",
			usage: `
              GHGI.AerialFraction is the fraction of inventory midstream
              emissions assumed visible to the aerial instrument, used to
              scale the below-detection-limit estimate.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ROAMS")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("roams: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "roams",
	Short: "A Monte Carlo estimator of basin-wide methane emissions.",
	Long: `ROAMS combines aerial methane survey measurements with simulated
small-source emission estimates to produce full basin-wide emission
distributions with uncertainty, including midstream emissions below the
instrument detection limit.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'ROAMS_var' where 'var' is the name of the variable to be set. Refer to
https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ROAMS.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ROAMS v%s\n", roams.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run loads the configured input tables, draws the Monte Carlo
realizations, and writes the result tables and plots to the output
directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := ModelFromConfig(Cfg)
		if err != nil {
			return err
		}
		results, err := model.Run()
		if err != nil {
			return err
		}
		outDir := Cfg.GetString("OutputDir")
		if err := saveUsedConfig(Cfg, outDir); err != nil {
			return err
		}
		return model.WriteOutputs(results, outDir, Cfg.GetBool("SaveMeanDistributions"))
	},
	DisableAutoGenTag: true,
}
