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

import (
	"math"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{1, "kg/h", "kg/h", 1},
		{1, "t/yr", "kg/h", 1e3 / (365.25 * 24)},
		{8.766, "t/yr", "kg/h", 1},
		{1, "kg/d", "kg/h", 1.0 / 24},
		{1, "mmt/yr", "kt/yr", 1e3},
		{1, "mph", "m/s", 1 / 2.23694},
		{2.23694, "mph", "m/s", 1},
		{1, "mscf/day", "mcf/d", 1},
		{1, "mscf/h", "mscf/day", 24},
		{1, "scf/d", "mscf/day", 1e-3},
		{365.25, "mcf/yr", "mscf/day", 1},
	}
	for _, test := range tests {
		have, err := Convert(test.value, test.from, test.to)
		if err != nil {
			t.Errorf("Convert(%g, %q, %q): %v", test.value, test.from, test.to, err)
			continue
		}
		if math.Abs(have-test.want) > 1e-9*math.Abs(test.want) {
			t.Errorf("Convert(%g, %q, %q): have %g, want %g", test.value, test.from, test.to, have, test.want)
		}
	}
}

func TestConvertCaseInsensitive(t *testing.T) {
	have, err := Convert(1, "KG/H", "kg/h")
	if err != nil {
		t.Fatal(err)
	}
	if have != 1 {
		t.Errorf("have %g, want 1", have)
	}
}

func TestConvertErrors(t *testing.T) {
	if _, err := Convert(1, "kg/h", "m/s"); err == nil {
		t.Error("converting a mass rate to a speed should be an error")
	}
	if _, err := Convert(1, "furlongs/fortnight", "m/s"); err == nil {
		t.Error("an unknown unit name should be an error")
	}
}

func TestCH4VolumeToMass(t *testing.T) {
	// One mscf/day is 1000/35.3147 m3/day; at 0.657 kg/m3 that is
	// 18.5942... kg/day, or 0.7747... kg/h.
	want := 1e3 / 35.3147 * 0.657 / 24
	have, err := CH4VolumeToMass(1, "mscf/day", "kg/h")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(have-want) > 1e-9 {
		t.Errorf("have %g, want %g", have, want)
	}

	if _, err := CH4VolumeToMass(1, "kg/h", "kg/h"); err == nil {
		t.Error("a non-volumetric source unit should be an error")
	}
	if _, err := CH4VolumeToMass(1, "mscf/day", "m/s"); err == nil {
		t.Error("a non-mass target unit should be an error")
	}
}

func TestEnergyContent(t *testing.T) {
	comp := map[string]float64{"c1": 0.9, "c2": 0.05, "co2": 0.05}
	want := (0.9*1010 + 0.05*1770) * 1e3 * MJPerBtu
	if have := EnergyContentMJPerMcf(comp); math.Abs(have-want) > 1e-9 {
		t.Errorf("have %g, want %g", have, want)
	}
	if have := EnergyContentMJPerMcf(nil); have != 0 {
		t.Errorf("empty composition: have %g, want 0", have)
	}
}
