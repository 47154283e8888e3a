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

import "github.com/kelpsearch/kelp/search"

// NewMultiTermSearcherBytes builds an unscored-threshold disjunction
// (Min=0) over one TermSearcher per candidate term, the shared
// machinery behind prefix, range, fuzzy and regexp queries (spec §6):
// each expands to a candidate-term set, then scores as an OR.
//
// Grounded on search/searcher/search_multi_term.go, dropping the
// teacher's >1024-clause batched optimization path (see DESIGN.md).
// Every expanded term gets the same boost here; the per-term boost
// variant is NewMultiTermSearcherStringsIndividualBoost below.
func NewMultiTermSearcherBytes(indexReader search.Reader, terms [][]byte, field string,
	boost float64, scorer search.Scorer, compScorer search.CompositeScorer,
	options search.SearcherOptions) (search.Searcher, error) {
	qsearchers := make([]search.Searcher, 0, len(terms))
	for _, term := range terms {
		s, err := NewTermSearcherBytes(indexReader, term, field, boost, scorer, options)
		if err != nil {
			for _, q := range qsearchers {
				_ = q.Close()
			}
			return nil, err
		}
		qsearchers = append(qsearchers, s)
	}
	if len(qsearchers) == 0 {
		return NewMatchNoneSearcher()
	}
	return NewDisjunctionSearcher(qsearchers, 0, compScorer, options)
}

// NewMultiTermSearcherStringsIndividualBoost is NewMultiTermSearcherBytes
// with a per-term boost multiplier, used by the fuzzy searcher so closer
// edit distances outscore farther ones (spec §6's FuzzyTerm query).
//
// Grounded on search/searcher/search_multi_term.go's
// NewMultiTermSearcherIndividualBoost + makeBatchSearchers.
func NewMultiTermSearcherStringsIndividualBoost(indexReader search.Reader, terms []string, termBoosts []float64,
	field string, boost float64, scorer search.Scorer, compScorer search.CompositeScorer,
	options search.SearcherOptions) (search.Searcher, error) {
	qsearchers := make([]search.Searcher, 0, len(terms))
	for i, term := range terms {
		s, err := NewTermSearcher(indexReader, term, field, boost*termBoosts[i], scorer, options)
		if err != nil {
			for _, q := range qsearchers {
				_ = q.Close()
			}
			return nil, err
		}
		qsearchers = append(qsearchers, s)
	}
	if len(qsearchers) == 0 {
		return NewMatchNoneSearcher()
	}
	return NewDisjunctionSearcher(qsearchers, 0, compScorer, options)
}
