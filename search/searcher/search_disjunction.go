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
	"sort"

	"github.com/kelpsearch/kelp/search"
)

// DisjunctionSearcher is the Union (OR) matcher of spec §4.3, with an
// optional minimum-match threshold: maintain every child at the current
// minimum id; emit when at least Min of them coincide.
//
// Grounded on search/searcher/search_disjunction_slice.go (bluge's
// slice-backed disjunction; this module skips the heap-backed variant
// bluge switches to above a clause-count threshold — see DESIGN.md).
type DisjunctionSearcher struct {
	searchers    OrderedSearcherList
	currs        []*search.DocumentMatch
	scorer       search.CompositeScorer
	min          int
	matching     []*search.DocumentMatch
	matchingIdxs []int
	initialized  bool
	options      search.SearcherOptions
}

// NewDisjunctionSearcher builds a DisjunctionSearcher requiring at
// least min of qsearchers to match (min=1 for plain OR).
func NewDisjunctionSearcher(qsearchers []search.Searcher, min int,
	scorer search.CompositeScorer, options search.SearcherOptions) (*DisjunctionSearcher, error) {
	searchers := make(OrderedSearcherList, len(qsearchers))
	copy(searchers, qsearchers)
	sort.Sort(sort.Reverse(searchers))

	return &DisjunctionSearcher{
		searchers:    searchers,
		currs:        make([]*search.DocumentMatch, len(searchers)),
		scorer:       scorer,
		min:          min,
		matching:     make([]*search.DocumentMatch, len(searchers)),
		matchingIdxs: make([]int, len(searchers)),
		options:      options,
	}, nil
}

func (s *DisjunctionSearcher) initSearchers(ctx *search.Context) error {
	for i, searcher := range s.searchers {
		if s.currs[i] != nil {
			ctx.DocumentMatchPool.Put(s.currs[i])
		}
		var err error
		s.currs[i], err = searcher.Next(ctx)
		if err != nil {
			return err
		}
	}
	s.updateMatches()
	s.initialized = true
	return nil
}

func (s *DisjunctionSearcher) updateMatches() {
	matching := s.matching[:0]
	matchingIdxs := s.matchingIdxs[:0]

	for i := 0; i < len(s.currs); i++ {
		curr := s.currs[i]
		if curr == nil {
			continue
		}
		if len(matching) > 0 {
			cmp := docNumberCompare(curr.Number, matching[0].Number)
			if cmp > 0 {
				continue
			}
			if cmp < 0 {
				matching = matching[:0]
				matchingIdxs = matchingIdxs[:0]
			}
		}
		matching = append(matching, curr)
		matchingIdxs = append(matchingIdxs, i)
	}

	s.matching = matching
	s.matchingIdxs = matchingIdxs
}

func (s *DisjunctionSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	if !s.initialized {
		if err := s.initSearchers(ctx); err != nil {
			return nil, err
		}
	}

	var rv *search.DocumentMatch
	found := false
	for !found && len(s.matching) > 0 {
		if len(s.matching) >= s.min {
			found = true
			rv = s.buildDocumentMatch(s.matching)
		}

		for _, i := range s.matchingIdxs {
			searcher := s.searchers[i]
			if s.currs[i] != rv {
				ctx.DocumentMatchPool.Put(s.currs[i])
			}
			var err error
			s.currs[i], err = searcher.Next(ctx)
			if err != nil {
				return nil, err
			}
		}

		s.updateMatches()
	}

	return rv, nil
}

func (s *DisjunctionSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	if !s.initialized {
		if err := s.initSearchers(ctx); err != nil {
			return nil, err
		}
	}
	for i, searcher := range s.searchers {
		if s.currs[i] != nil {
			if s.currs[i].Number >= number {
				continue
			}
			ctx.DocumentMatchPool.Put(s.currs[i])
		}
		var err error
		s.currs[i], err = searcher.Advance(ctx, number)
		if err != nil {
			return nil, err
		}
	}
	s.updateMatches()
	return s.Next(ctx)
}

func (s *DisjunctionSearcher) Count() uint64 {
	var sum uint64
	for _, searcher := range s.searchers {
		sum += searcher.Count()
	}
	return sum
}

func (s *DisjunctionSearcher) Close() error { return closeAll(s.searchers...) }

func (s *DisjunctionSearcher) Min() int { return s.min }

func (s *DisjunctionSearcher) DocumentMatchPoolSize() int {
	rv := len(s.currs)
	for _, child := range s.searchers {
		rv += child.DocumentMatchPoolSize()
	}
	return rv
}

func (s *DisjunctionSearcher) buildDocumentMatch(constituents []*search.DocumentMatch) *search.DocumentMatch {
	rv := constituents[0]
	if s.options.Explain {
		rv.Explanation = s.scorer.ExplainComposite(constituents)
		rv.Score = rv.Explanation.Value
	} else {
		rv.Score = s.scorer.ScoreComposite(constituents)
	}
	rv.FieldTermLocations = search.MergeFieldTermLocations(rv.FieldTermLocations, constituents[1:])
	return rv
}

var _ search.Searcher = (*DisjunctionSearcher)(nil)
