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
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// Random-stream identifiers. Every stochastic operation in the engine
// draws from a generator derived from (run seed, stream, column), so
// results are byte-for-byte reproducible for a fixed seed no matter in
// which order or on how many goroutines the columns are processed.
const (
	randSimulated uint64 = iota + 1
	randAerial
	randNoise
	randBackfill
)

// Constants from the splitmix64 finalizer; they spread consecutive
// stream and column indices across the seed space.
const (
	streamMix = 0x9e3779b97f4a7c15
	columnMix = 0xbf58476d1ce4e5b9
)

// columnRand returns the generator for one Monte Carlo column of one
// random stream.
func columnRand(seed, stream uint64, col int) *rand.Rand {
	return rand.New(rand.NewSource(seed + stream*streamMix + uint64(col+1)*columnMix))
}

// groupSeed derives a sub-seed for a named asset group, so that the
// production and midstream surveys consume independent streams.
func groupSeed(seed uint64, group string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(group))
	return seed ^ h.Sum64()
}
