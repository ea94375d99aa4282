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

// Package roams implements the Regional Oil and gas Aerial Methane
// Synthesis (ROAMS) model: a Monte Carlo engine that merges two
// independent, biased estimates of regional methane emissions into a
// single size distribution. Small emitters come from a large simulated
// population, large emitters from a sparse aerial survey that only
// reliably detects sources above its sensitivity floor. The engine
// resamples both populations per Monte Carlo replicate, corrects the
// aerial sample for measurement bias and partial detection, locates the
// emission size at which the aerial distribution should start dominating,
// and splices the two populations there.
//
// All matrices in this package are gonum mat.Dense values with rows
// representing sampled emission sources and columns representing
// independent Monte Carlo replicates. Sibling matrices produced together
// (for example sampled emissions and their partial-detection correction)
// are row-aligned: permuting rows of one requires permuting the other
// identically.
//
// The package performs no I/O of its own apart from result tables and
// plots written by Model; table ingestion and unit normalization live in
// the aerial, simulated, production and ghgi packages, and configuration
// in roamsutil.
package roams

import "github.com/sirupsen/logrus"

// Version gives the version number.
const Version = "0.1.0"

// log is used for progress reporting and the non-fatal warnings the
// model surfaces (reference-range extrapolation and boundary-pinned
// transition points). Callers may redirect it through logrus.
var log = logrus.StandardLogger()
