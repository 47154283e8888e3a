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

// Package searcher implements the matcher-tree variants of spec §4.3:
// term/conjunction/disjunction/boolean composition, match-all/none, and
// the multi-term family (prefix/range/fuzzy/regexp) built atop them.
//
// Grounded on blugelabs/bluge/search/searcher, adapted to this module's
// search.Reader/segment package. Simplifications against the teacher,
// documented in full in DESIGN.md: no save/restore bookmarks, no
// Optimize bitmap-folding push-down, no reflect-based Size() accounting.
package searcher

import "github.com/kelpsearch/kelp/search"

// docNumberCompare orders two raw document numbers. Callers are
// responsible for handling a nil DocumentMatch before calling this
// (nil means "exhausted", not "document number zero").
func docNumberCompare(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// OrderedSearcherList sorts a set of child searchers by their estimated
// cost (Count), ascending, so the cheapest-to-advance child leads a
// conjunction's merge-join. A disjunction sorts it in reverse, so its
// largest child comes first.
type OrderedSearcherList []search.Searcher

func (l OrderedSearcherList) Len() int      { return len(l) }
func (l OrderedSearcherList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l OrderedSearcherList) Less(i, j int) bool {
	return l[i].Count() < l[j].Count()
}

// incrementBytes returns the lexicographically next byte string after
// in, used to turn a prefix into an exclusive range end.
func incrementBytes(in []byte) []byte {
	rv := make([]byte, len(in))
	copy(rv, in)
	for i := len(rv) - 1; i >= 0; i-- {
		rv[i]++
		if rv[i] != 0 {
			return rv
		}
		// overflowed, carry to the next byte, unless there is none
	}
	return append(rv, 0)
}

func closeAll(searchers ...search.Searcher) error {
	var first error
	for _, s := range searchers {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
