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
	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/segment"
)

// NewTermPrefixSearcher builds spec §6's Prefix(field, prefix) query:
// enumerate every dictionary term starting with prefix, then OR them.
//
// Grounded on search/searcher/search_term_prefix.go.
func NewTermPrefixSearcher(indexReader search.Reader, prefix, field string, boost float64,
	scorer search.Scorer, compScorer search.CompositeScorer, options search.SearcherOptions) (search.Searcher, error) {
	kBeg := []byte(prefix)
	kEnd := incrementBytes(kBeg)
	fieldDict, err := indexReader.DictionaryIterator(field, segment.MatchAllAutomaton{}, kBeg, kEnd)
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

	return NewMultiTermSearcherBytes(indexReader, terms, field, boost, scorer, compScorer, options)
}
