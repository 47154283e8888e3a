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
	"bytes"

	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/segment"
)

// NewTermRangeSearcher builds spec §6's Range(field, low, high,
// low_inclusive, high_inclusive) query over a text field: enumerate
// every dictionary term in range, then OR them.
//
// Grounded on search/searcher/search_term_range.go.
func NewTermRangeSearcher(indexReader search.Reader, low, high []byte, inclusiveLow, inclusiveHigh bool,
	field string, boost float64, scorer search.Scorer, compScorer search.CompositeScorer,
	options search.SearcherOptions) (search.Searcher, error) {
	if low == nil {
		low = []byte{}
	}
	if high != nil && inclusiveHigh {
		high = append(append([]byte{}, high...), 0)
	}

	fieldDict, err := indexReader.DictionaryIterator(field, segment.MatchAllAutomaton{}, low, high)
	if err != nil {
		return nil, err
	}
	defer fieldDict.Close()

	var terms [][]byte
	for {
		tfd, err := fieldDict.Next()
		if err != nil {
			return nil, err
		}
		if tfd == nil {
			break
		}
		terms = append(terms, []byte(tfd.Term()))
	}

	if len(terms) == 0 {
		return NewMatchNoneSearcher()
	}

	if !inclusiveLow && len(low) > 0 && bytes.Equal(low, terms[0]) {
		terms = terms[1:]
		if len(terms) == 0 {
			return NewMatchNoneSearcher()
		}
	}

	return NewMultiTermSearcherBytes(indexReader, terms, field, boost, scorer, compScorer, options)
}
