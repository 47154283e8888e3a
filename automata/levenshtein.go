// Copyright 2024 The Kelp Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package automata builds the finite-state acceptors spec §4.7 uses to
// constrain a segment.Dictionary.Iterator: Levenshtein DFAs for fuzzy and
// spelling-correction expansion.
//
// This is a thin, cached wrapper over github.com/blevesearch/vellum's
// levenshtein package, which already produces a DFA satisfying
// segment.Automaton's shape (Start/IsMatch/CanMatch/WillAlwaysMatch/
// Accept mirror vellum.Automaton exactly). The builder itself is not in
// the retrieved pack (only its go.mod was vendored into the teacher and
// the rest of the corpus, never its source), but its public API is
// confirmed verbatim by its call sites in
// blugelabs/bluge/search/searcher/search_fuzzy.go, which IS fully
// present in the pack. Named, not grounded, per this module's rules on
// out-of-pack-but-real dependencies (see DESIGN.md).
package automata

import (
	"fmt"
	"sync"

	"github.com/blevesearch/vellum"
	"github.com/blevesearch/vellum/levenshtein"

	"github.com/kelpsearch/kelp/segment"
)

// MaxEdits is the largest edit distance this package builds a DFA for.
// Matches spec §4.7's bound on fuzziness, and the teacher's MaxFuzziness.
const MaxEdits = 2

var (
	buildersOnce sync.Once
	builders     map[int]*levenshtein.LevenshteinAutomatonBuilder
	buildersErr  error
)

func builderFor(edits int) (*levenshtein.LevenshteinAutomatonBuilder, error) {
	buildersOnce.Do(func() {
		builders = make(map[int]*levenshtein.LevenshteinAutomatonBuilder, MaxEdits)
		for e := 1; e <= MaxEdits; e++ {
			lb, err := levenshtein.NewLevenshteinAutomatonBuilder(uint8(e), true)
			if err != nil {
				buildersErr = fmt.Errorf("building levenshtein automaton builder for %d edits: %w", e, err)
				return
			}
			builders[e] = lb
		}
	})
	if buildersErr != nil {
		return nil, buildersErr
	}
	b, ok := builders[edits]
	if !ok {
		return nil, fmt.Errorf("unsupported edit distance: %d (max %d)", edits, MaxEdits)
	}
	return b, nil
}

// New builds the DFA accepting every string within edits edit operations
// of term, usable directly as a segment.Automaton.
func New(term string, edits int) (segment.Automaton, error) {
	if edits < 0 {
		return nil, fmt.Errorf("invalid edit distance: %d", edits)
	}
	if edits == 0 {
		return exactAutomaton{term: []byte(term)}, nil
	}
	b, err := builderFor(edits)
	if err != nil {
		return nil, err
	}
	return b.BuildDfa(term, uint8(edits))
}

// Ladder builds one DFA per edit distance from maxEdits down to 1,
// ordered descending. boostFromDistance uses the lower-edit-distance
// members of the ladder, via Contains, to pin down the exact edit
// distance of a term that the maxEdits automaton matched.
func Ladder(term string, maxEdits int) ([]segment.Automaton, error) {
	rv := make([]segment.Automaton, 0, maxEdits)
	for edits := maxEdits; edits > 0; edits-- {
		a, err := New(term, edits)
		if err != nil {
			return nil, err
		}
		rv = append(rv, a)
	}
	return rv, nil
}

// Contains reports whether a accepts term. Used to refine a fuzzy
// candidate's exact edit distance against a lower-fuzziness member of a
// Ladder. segment.Automaton's method set mirrors vellum.Automaton's
// exactly, so a satisfies it structurally.
func Contains(a segment.Automaton, term []byte) bool {
	return vellum.AutomatonContains(a, term)
}

// exactAutomaton is the degenerate edits=0 case: accepts only term
// itself. Kept here rather than in segment so fuzziness=0 callers don't
// need a special case.
type exactAutomaton struct {
	term []byte
}

func (e exactAutomaton) Start() int { return 0 }

func (e exactAutomaton) IsMatch(state int) bool { return state == len(e.term) }

func (e exactAutomaton) CanMatch(state int) bool { return state >= 0 && state <= len(e.term) }

func (e exactAutomaton) WillAlwaysMatch(int) bool { return false }

func (e exactAutomaton) Accept(state int, b byte) int {
	if state < 0 || state >= len(e.term) || e.term[state] != b {
		return -1
	}
	return state + 1
}

var _ segment.Automaton = exactAutomaton{}
