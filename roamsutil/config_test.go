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
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lnashier/viper"

	"github.com/spatialmodel/roams"
)

func TestGasComposition(t *testing.T) {
	cfg := viper.New()
	cfg.Set("GasComposition", map[string]string{"C1": "0.85", "c2": "0.1"})
	comp, err := gasComposition(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if comp["c1"] != 0.85 {
		t.Errorf("c1: have %g, want 0.85", comp["c1"])
	}
	if comp["c2"] != 0.1 {
		t.Errorf("c2: have %g, want 0.1", comp["c2"])
	}
}

func TestGasCompositionErrors(t *testing.T) {
	tests := []struct {
		name string
		comp map[string]string
	}{
		{"missing methane", map[string]string{"c2": "0.9"}},
		{"sum too low", map[string]string{"c1": "0.5"}},
		{"sum above one", map[string]string{"c1": "0.9", "c2": "0.3"}},
		{"bad fraction", map[string]string{"c1": "most"}},
	}
	for _, test := range tests {
		cfg := viper.New()
		cfg.Set("GasComposition", test.comp)
		if _, err := gasComposition(cfg); err == nil {
			t.Errorf("%s: want error", test.name)
		}
	}
}

func TestAssetGroups(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Aerial.AssetGroups", map[string]string{
		"Production": "Well Site, pad",
		"midstream":  "pipeline",
	})
	groups, err := assetGroups(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]string{
		"production": {"well site", "pad"},
		"midstream":  {"pipeline"},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("have %v, want %v", groups, want)
	}
}

func TestAssetGroupsErrors(t *testing.T) {
	tests := []struct {
		name   string
		groups map[string]string
	}{
		{"missing midstream", map[string]string{"production": "well site"}},
		{"missing production", map[string]string{"midstream": "pipeline"}},
		{"overlapping asset", map[string]string{
			"production": "well site",
			"midstream":  "well site",
		}},
	}
	for _, test := range tests {
		cfg := viper.New()
		cfg.Set("Aerial.AssetGroups", test.groups)
		if _, err := assetGroups(cfg); err == nil {
			t.Errorf("%s: want error", test.name)
		}
	}
}

func TestSamplingOptions(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Sampling.Correction", "power")
	cfg.Set("Sampling.Noise", "normal")
	cfg.Set("Sampling.NoiseLoc", 1.07)
	cfg.Set("Sampling.NoiseScale", 0.4)
	cfg.Set("Sampling.HandleNegative", "zero")
	cfg.Set("Sampling.PartialDetection", true)
	cfg.Set("Sampling.DetectionCurve", "interp")

	var m roams.Model
	if err := samplingOptions(cfg, &m); err != nil {
		t.Fatal(err)
	}
	if m.Correction != roams.DefaultPowerCorrection {
		t.Errorf("correction: have %v, want %v", m.Correction, roams.DefaultPowerCorrection)
	}
	noise, ok := m.Noise.(roams.NormalNoise)
	if !ok {
		t.Fatalf("noise: have %T, want NormalNoise", m.Noise)
	}
	if noise.Loc != 1.07 || noise.Scale != 0.4 {
		t.Errorf("noise: have %+v, want Loc 1.07, Scale 0.4", noise)
	}
	if _, ok := m.Negative.(roams.ZeroNegative); !ok {
		t.Errorf("negative handler: have %T, want ZeroNegative", m.Negative)
	}
	if !reflect.DeepEqual(m.Detection, roams.DefaultInterpCurve) {
		t.Errorf("detection curve: have %v, want %v", m.Detection, roams.DefaultInterpCurve)
	}
}

func TestSamplingOptionsNoPartialDetection(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Sampling.Correction", "none")
	cfg.Set("Sampling.Noise", "none")
	cfg.Set("Sampling.HandleNegative", "keep")
	cfg.Set("Sampling.PartialDetection", false)

	var m roams.Model
	if err := samplingOptions(cfg, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Correction.(roams.IdentityCorrection); !ok {
		t.Errorf("correction: have %T, want IdentityCorrection", m.Correction)
	}
	if _, ok := m.Noise.(roams.NoNoise); !ok {
		t.Errorf("noise: have %T, want NoNoise", m.Noise)
	}
	if _, ok := m.Negative.(roams.KeepNegative); !ok {
		t.Errorf("negative handler: have %T, want KeepNegative", m.Negative)
	}
	if m.Detection != nil {
		t.Errorf("detection curve: have %v, want nil", m.Detection)
	}
}

func TestSamplingOptionsErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"Sampling.Correction", "cubic"},
		{"Sampling.Noise", "poisson"},
		{"Sampling.HandleNegative", "flip"},
		{"Sampling.DetectionCurve", "step"},
	}
	for _, test := range tests {
		cfg := viper.New()
		cfg.Set("Sampling.Correction", "power")
		cfg.Set("Sampling.Noise", "none")
		cfg.Set("Sampling.HandleNegative", "zero")
		cfg.Set("Sampling.PartialDetection", true)
		cfg.Set("Sampling.DetectionCurve", "bin")
		cfg.Set(test.key, test.value)
		var m roams.Model
		if err := samplingOptions(cfg, &m); err == nil {
			t.Errorf("%s=%s: want error", test.key, test.value)
		}
	}
}

func TestGetStringMapString(t *testing.T) {
	cfg := viper.New()
	cfg.Set("a", `{"k":"v"}`)
	cfg.Set("b", map[string]string{"k": "v"})
	want := map[string]string{"k": "v"}
	for _, name := range []string{"a", "b"} {
		if have := GetStringMapString(name, cfg); !reflect.DeepEqual(have, want) {
			t.Errorf("%s: have %v, want %v", name, have, want)
		}
	}
}

func TestSaveUsedConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := viper.New()
	cfg.Set("OutputDir", dir)
	if err := saveUsedConfig(cfg, dir); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "used_config.json"))
	if err != nil {
		t.Fatal(err)
	}
	settings := make(map[string]interface{})
	if err := json.Unmarshal(b, &settings); err != nil {
		t.Fatal(err)
	}
	if settings["OutputDir"] != dir {
		t.Errorf("OutputDir: have %v, want %v", settings["OutputDir"], dir)
	}
}
