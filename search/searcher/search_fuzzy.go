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

package searcher

import (
	"fmt"
	"unicode/utf8"

	"github.com/kelpsearch/kelp/automata"
	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/segment"
)

// MaxFuzziness bounds spec §6's FuzzyTerm query, matching automata.MaxEdits.
var MaxFuzziness = automata.MaxEdits

// NewFuzzySearcher builds spec §6's FuzzyTerm(field, term, fuzziness,
// prefix) query: enumerate every dictionary term within fuzziness edits
// of term (the first prefix runes held fixed), scoring exact and
// near-exact matches above farther ones.
//
// Grounded on search/searcher/search_fuzzy.go, with the Levenshtein DFA
// construction factored out into the automata package instead of
// calling blevesearch/vellum/levenshtein inline.
func NewFuzzySearcher(indexReader search.Reader, term string, prefix, fuzziness int, field string,
	boost float64, scorer search.Scorer, compScorer search.CompositeScorer,
	options search.SearcherOptions) (search.Searcher, error) {
	if fuzziness > MaxFuzziness {
		return nil, fmt.Errorf("fuzziness exceeds max (%d)", MaxFuzziness)
	}
	if fuzziness < 0 {
		return nil, fmt.Errorf("invalid fuzziness, negative")
	}

	// byte-slicing term for a prefix would split a multi-byte rune
	prefixTerm := ""
	runes := 0
	for _, r := range term {
		if runes >= prefix {
			break
		}
		prefixTerm += string(r)
		runes++
	}

	candidateTerms, termBoosts, err := findFuzzyCandidateTerms(indexReader, term, fuzziness, field, prefixTerm)
	if err != nil {
		return nil, err
	}
	if len(candidateTerms) == 0 {
		return NewMatchNoneSearcher()
	}

	return NewMultiTermSearcherStringsIndividualBoost(indexReader, candidateTerms, termBoosts,
		field, boost, scorer, compScorer, options)
}

func findFuzzyCandidateTerms(indexReader search.Reader, term string, fuzziness int, field,
	prefixTerm string) (terms []string, boosts []float64, err error) {
	// the ladder always covers at least fuzziness=1 so boostFromDistance
	// has something to test containment against; the lead automaton used
	// to drive the dictionary scan is the exact one requested, which may
	// be the degenerate fuzziness=0 case.
	automatons, err := automata.Ladder(term, maxInt(fuzziness, 1))
	if err != nil {
		return nil, nil, err
	}
	leadAutomaton := automatons[0]
	if fuzziness == 0 {
		leadAutomaton, err = automata.New(term, 0)
		if err != nil {
			return nil, nil, err
		}
	}

	var prefixBeg, prefixEnd []byte
	if prefixTerm != "" {
		prefixBeg = []byte(prefixTerm)
		prefixEnd = incrementBytes(prefixBeg)
	}

	fieldDict, err := indexReader.DictionaryIterator(field, leadAutomaton, prefixBeg, prefixEnd)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := fieldDict.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	termLen := utf8.RuneCountInString(term)

	tfd, err := fieldDict.Next()
	for err == nil && tfd != nil {
		terms = append(terms, tfd.Term())
		boost := 1.0
		if tfd.Term() != term {
			boost = boostFromDistance(fuzziness, automatons, tfd.Term(), termLen)
		}
		boosts = append(boosts, boost)
		tfd, err = fieldDict.Next()
	}
	return terms, boosts, err
}

// boostFromDistance refines the exact edit distance of a candidate that
// matched the maxFuzziness automaton, by testing it against each
// lower-fuzziness member of the ladder, and scales boost inversely with
// that distance relative to the shorter of the two terms.
func boostFromDistance(fuzziness int, automatons []segment.Automaton, dictTerm string, searchTermLen int) float64 {
	termEditDistance := fuzziness
	for i := 1; i < len(automatons); i++ {
		if automata.Contains(automatons[i], []byte(dictTerm)) {
			termEditDistance--
		}
	}
	minTermLen := searchTermLen
	if thisTermLen := utf8.RuneCountInString(dictTerm); thisTermLen < minTermLen {
		minTermLen = thisTermLen
	}
	if minTermLen == 0 {
		return 1.0
	}
	return 1.0 - (float64(termEditDistance) / float64(minTermLen))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
