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

package simulated

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulated.csv")
	if err := os.WriteFile(path, []byte("emissions_kg_d,gas_mscf_h\n24,1\n48,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Read(path, Options{
		EmissionsCol: "emissions_kg_d", EmissionsUnit: "kg/d",
		ProductionCol: "gas_mscf_h", ProductionUnit: "mscf/h",
	})
	if err != nil {
		t.Fatal(err)
	}
	em := d.Emissions()
	if len(em) != 2 || math.Abs(em[0]-1) > 1e-12 || math.Abs(em[1]-2) > 1e-12 {
		t.Errorf("emissions: have %v, want [1 2] kg/h", em)
	}
	prod, err := d.Production()
	if err != nil {
		t.Fatal(err)
	}
	if len(prod) != 2 || math.Abs(prod[0]-24) > 1e-12 || math.Abs(prod[1]-48) > 1e-12 {
		t.Errorf("production: have %v, want [24 48] mscf/day", prod)
	}
}

func TestReadNoProduction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulated.csv")
	if err := os.WriteFile(path, []byte("emissions\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Read(path, Options{EmissionsCol: "emissions", EmissionsUnit: "kg/h"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Production(); err == nil {
		t.Error("requesting unconfigured production should be an error")
	}
}

func TestReadErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulated.csv")
	if err := os.WriteFile(path, []byte("emissions\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path, Options{EmissionsUnit: "kg/h"}); err == nil {
		t.Error("a missing emissions column name should be an error")
	}
	if _, err := Read(path, Options{EmissionsCol: "emissions"}); err == nil {
		t.Error("a missing emissions unit should be an error")
	}
	if _, err := Read(path, Options{EmissionsCol: "emissions", EmissionsUnit: "bushels"}); err == nil {
		t.Error("an unknown unit should be an error")
	}
}
