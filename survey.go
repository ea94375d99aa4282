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

// A Source is one piece of surveyed infrastructure: a well site,
// compressor station, processing plant, etc.
type Source struct {
	// ID identifies the source in the plume table.
	ID string

	// CoverageCount is the number of times the source was overflown
	// during the survey, whether or not emission was detected.
	CoverageCount int

	// Asset is the infrastructure tag used to assign the source to an
	// asset group ("production", "midstream").
	Asset string
}

// A Plume is one aerially detected emission attributed to a source.
// Both rates are in canonical units: kg/h for Emission and kg/h per m/s
// for WindNorm. Cutoff plumes (partially outside the instrument field of
// view) must have their wind-normalized values resolved before the plume
// enters a Survey; see the aerial package.
type Plume struct {
	SourceID string
	Emission float64
	WindNorm float64
	Cutoff   bool
}

// An observation is one survey visit outcome for one source: either a
// detected plume or a visited-but-not-emitting zero. There is no NaN
// sentinel for "not visited"; visits that never happened simply have no
// slot.
type observation struct {
	emission float64
	windNorm float64
}

// A Survey holds the per-source visit slots the intermittency-aware
// sampler draws from. Observations live in a single arena slice; source
// i owns obs[off[i]:off[i+1]]. The first slots of each source hold its
// detected plumes in input order, and the remainder, up to the coverage
// count, are zero-valued visited-not-emitting slots.
type Survey struct {
	sources []Source
	obs     []observation
	off     []int
}

// NewSurvey builds the slot arena for the given sources and plumes.
// Plumes referencing unknown sources are dropped. A source with more
// plumes than coverage visits keeps all of its plumes (with a warning);
// a source with zero coverage and no plumes gets no slots and will
// contribute no rows when sampled.
func NewSurvey(sources []Source, plumes []Plume) (*Survey, error) {
	index := make(map[string]int, len(sources))
	for i, src := range sources {
		if src.CoverageCount < 0 {
			return nil, validationf("source %q has negative coverage count %d", src.ID, src.CoverageCount)
		}
		if _, ok := index[src.ID]; ok {
			return nil, validationf("source table lists %q more than once", src.ID)
		}
		index[src.ID] = i
	}

	bySource := make([][]observation, len(sources))
	dropped := 0
	for _, p := range plumes {
		i, ok := index[p.SourceID]
		if !ok {
			dropped++
			continue
		}
		bySource[i] = append(bySource[i], observation{emission: p.Emission, windNorm: p.WindNorm})
	}
	if dropped > 0 {
		log.Debugf("roams: dropped %d plumes that do not correspond to any listed source", dropped)
	}

	s := &Survey{
		sources: sources,
		off:     make([]int, len(sources)+1),
	}
	for i, src := range sources {
		obs := bySource[i]
		if len(obs) > src.CoverageCount {
			log.Warnf("roams: source %q has %d plumes but only %d coverage visits; keeping all plumes",
				src.ID, len(obs), src.CoverageCount)
		}
		s.obs = append(s.obs, obs...)
		for k := len(obs); k < src.CoverageCount; k++ {
			s.obs = append(s.obs, observation{})
		}
		s.off[i+1] = len(s.obs)
	}
	return s, nil
}

// NumSources returns the number of sources in the survey, including
// those without any visit slots.
func (s *Survey) NumSources() int { return len(s.sources) }

// NumSlots returns the total number of visit slots across all sources.
func (s *Survey) NumSlots() int { return len(s.obs) }

// slots returns the visit slots owned by source i.
func (s *Survey) slots(i int) []observation {
	return s.obs[s.off[i]:s.off[i+1]]
}

// sampledSources returns the indices of sources that have at least one
// visit slot and therefore contribute a row to the sampled matrices.
func (s *Survey) sampledSources() []int {
	var idx []int
	for i := range s.sources {
		if s.off[i+1] > s.off[i] {
			idx = append(idx, i)
		}
	}
	return idx
}
