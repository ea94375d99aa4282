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

import "fmt"

// A ValidationError reports caller-provided input that cannot be used
// as given: stratification weights that would silently drop population
// mass, detection probabilities outside (0,1], or too few simulated
// values to backfill below a transition point. Every ValidationError
// aborts the run; a partially valid Monte Carlo ensemble must never be
// returned.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: "roams: " + fmt.Sprintf(format, args...)}
}

// A ConsistencyError reports cross-array problems: paired matrices with
// different column counts, NaN-containing cumulative distributions, or an
// aerial distribution that starts decaying slower than the simulated one
// at the smallest emission sizes. Like ValidationError it always aborts
// the run.
type ConsistencyError struct {
	msg string
}

func (e *ConsistencyError) Error() string { return e.msg }

func consistencyf(format string, args ...interface{}) error {
	return &ConsistencyError{msg: "roams: " + fmt.Sprintf(format, args...)}
}
