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
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewSurvey(t *testing.T) {
	sources := []Source{
		{ID: "a", CoverageCount: 2, Asset: "well site"},
		{ID: "b", CoverageCount: 3, Asset: "well site"},
		{ID: "c", CoverageCount: 0, Asset: "well site"},
	}
	plumes := []Plume{
		{SourceID: "a", Emission: 35, WindNorm: 7},
		{SourceID: "nobody", Emission: 99, WindNorm: 9},
	}
	s, err := NewSurvey(sources, plumes)
	if err != nil {
		t.Fatal(err)
	}
	if have := s.NumSources(); have != 3 {
		t.Errorf("have %d sources, want 3", have)
	}
	// Source a has a plume slot and a zero slot, b three zero slots,
	// and c none at all; the unknown-source plume is dropped.
	if have := s.NumSlots(); have != 5 {
		t.Errorf("have %d slots, want 5", have)
	}
	if have := s.sampledSources(); len(have) != 2 {
		t.Errorf("have %d sampled sources, want 2", len(have))
	}
}

func TestNewSurveyErrors(t *testing.T) {
	var verr *ValidationError
	_, err := NewSurvey([]Source{{ID: "a", CoverageCount: -1}}, nil)
	if !errors.As(err, &verr) {
		t.Errorf("negative coverage: have %v, want a validation error", err)
	}
	_, err = NewSurvey([]Source{{ID: "a", CoverageCount: 1}, {ID: "a", CoverageCount: 2}}, nil)
	if !errors.As(err, &verr) {
		t.Errorf("duplicate source: have %v, want a validation error", err)
	}
}

// A source emitting on one of its two visits should be zero in about
// half of the realizations.
func TestSampleSurveyIntermittency(t *testing.T) {
	s, err := NewSurvey(
		[]Source{{ID: "a", CoverageCount: 2, Asset: "well site"}},
		[]Plume{{SourceID: "a", Emission: 10, WindNorm: 5}},
	)
	if err != nil {
		t.Fatal(err)
	}
	const nCols = 2000
	emissions, windNorm, err := SampleSurvey(s, nCols, IdentityCorrection{}, NoNoise{}, KeepNegative{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := emissions.Dims()
	if rows != 1 || cols != nCols {
		t.Fatalf("have a %d×%d sample, want 1×%d", rows, cols, nCols)
	}
	zeros := 0
	for j := 0; j < cols; j++ {
		switch e := emissions.At(0, j); e {
		case 0:
			zeros++
			if wn := windNorm.At(0, j); wn != 0 {
				t.Fatalf("column %d: zero emission with wind-normalized value %g", j, wn)
			}
		case 10:
			if wn := windNorm.At(0, j); wn != 5 {
				t.Fatalf("column %d: have wind-normalized value %g, want 5", j, wn)
			}
		default:
			t.Fatalf("column %d: unexpected emission %g", j, e)
		}
	}
	// Binomial(2000, 0.5): five standard deviations is ~112.
	if zeros < 880 || zeros > 1120 {
		t.Errorf("have %d zero realizations of %d, want about half", zeros, nCols)
	}
}

func TestSampleSurveyCorrectionOrder(t *testing.T) {
	s, err := NewSurvey(
		[]Source{{ID: "a", CoverageCount: 1, Asset: "well site"}},
		[]Plume{{SourceID: "a", Emission: 1, WindNorm: 5}},
	)
	if err != nil {
		t.Fatal(err)
	}
	emissions, _, err := SampleSurvey(s, 3, DefaultPowerCorrection, NoNoise{}, ZeroNegative{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 4.08 * 1^0.77 = 4.08.
	for j := 0; j < 3; j++ {
		if have := emissions.At(0, j); math.Abs(have-4.08) > 1e-12 {
			t.Errorf("column %d: have %g, want 4.08", j, have)
		}
	}
}

func TestSampleSurveyNegativeHandling(t *testing.T) {
	s, err := NewSurvey(
		[]Source{{ID: "a", CoverageCount: 1, Asset: "well site"}},
		[]Plume{{SourceID: "a", Emission: -5, WindNorm: 5}},
	)
	if err != nil {
		t.Fatal(err)
	}
	emissions, _, err := SampleSurvey(s, 2, IdentityCorrection{}, NoNoise{}, ZeroNegative{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if have := emissions.At(0, 0); have != 0 {
		t.Errorf("zeroed negative: have %g, want 0", have)
	}

	emissions, _, err = SampleSurvey(s, 2, IdentityCorrection{}, NoNoise{}, KeepNegative{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if have := emissions.At(0, 0); have != -5 {
		t.Errorf("kept negative: have %g, want -5", have)
	}
}

func TestSampleSurveyReproducible(t *testing.T) {
	s, err := NewSurvey(
		[]Source{
			{ID: "a", CoverageCount: 2, Asset: "well site"},
			{ID: "b", CoverageCount: 3, Asset: "well site"},
		},
		[]Plume{
			{SourceID: "a", Emission: 35, WindNorm: 7},
			{SourceID: "b", Emission: 48, WindNorm: 8},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	e1, w1, err := SampleSurvey(s, 20, DefaultPowerCorrection, DefaultNormalNoise, ZeroNegative{}, 9)
	if err != nil {
		t.Fatal(err)
	}
	e2, w2, err := SampleSurvey(s, 20, DefaultPowerCorrection, DefaultNormalNoise, ZeroNegative{}, 9)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(e1, e2) || !mat.Equal(w1, w2) {
		t.Error("same seed gave different samples")
	}
}

func TestSampleSurveyErrors(t *testing.T) {
	s, err := NewSurvey([]Source{{ID: "a", CoverageCount: 1}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var verr *ValidationError
	if _, _, err := SampleSurvey(s, 0, IdentityCorrection{}, NoNoise{}, KeepNegative{}, 1); !errors.As(err, &verr) {
		t.Errorf("zero realizations: have %v, want a validation error", err)
	}

	empty, err := NewSurvey([]Source{{ID: "a", CoverageCount: 0}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := SampleSurvey(empty, 1, IdentityCorrection{}, NoNoise{}, KeepNegative{}, 1); !errors.As(err, &verr) {
		t.Errorf("no slots: have %v, want a validation error", err)
	}
}
