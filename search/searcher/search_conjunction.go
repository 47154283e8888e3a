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

// ConjunctionSearcher is the Intersection (AND) matcher of spec §4.3:
// advance the child with the smaller current id via Advance, emit when
// every child's id coincides.
//
// Grounded on search/searcher/search_conjunction.go. Drops the
// teacher's optimizeCompositeSearcher bitmap-folding push-down (see
// DESIGN.md): this implementation always runs the merge-join below,
// whether or not every child happens to be Optimizable.
type ConjunctionSearcher struct {
	searchers   OrderedSearcherList
	currs       []*search.DocumentMatch
	maxIDIdx    int
	initialized bool
	options     search.SearcherOptions
	scorer      search.CompositeScorer
}

// NewConjunctionSearcher builds a ConjunctionSearcher over qsearchers,
// ordered cheapest-first to minimize merge-join advances.
func NewConjunctionSearcher(qsearchers []search.Searcher, scorer search.CompositeScorer,
	options search.SearcherOptions) (search.Searcher, error) {
	searchers := make(OrderedSearcherList, len(qsearchers))
	copy(searchers, qsearchers)
	sort.Sort(searchers)

	return &ConjunctionSearcher{
		options:   options,
		searchers: searchers,
		currs:     make([]*search.DocumentMatch, len(searchers)),
		scorer:    scorer,
	}, nil
}

func (s *ConjunctionSearcher) initSearchers(ctx *search.Context) error {
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
	s.initialized = true
	return nil
}

func (s *ConjunctionSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	if !s.initialized {
		if err := s.initSearchers(ctx); err != nil {
			return nil, err
		}
	}

	var rv *search.DocumentMatch
	var err error

OUTER:
	for s.maxIDIdx < len(s.currs) && s.currs[s.maxIDIdx] != nil {
		maxID := s.currs[s.maxIDIdx].Number

		i := 0
		for i < len(s.currs) {
			if s.currs[i] == nil {
				return nil, nil
			}
			if i == s.maxIDIdx {
				i++
				continue
			}

			cmp := docNumberCompare(maxID, s.currs[i].Number)
			if cmp == 0 {
				i++
				continue
			}
			if cmp < 0 {
				s.maxIDIdx = i
				maxID = s.currs[s.maxIDIdx].Number
				for x := 0; x < i; x++ {
					if err = s.advanceChild(ctx, x, maxID); err != nil {
						return nil, err
					}
				}
				continue OUTER
			}

			if err = s.advanceChild(ctx, i, maxID); err != nil {
				return nil, err
			}
			// don't bump i; re-examine the just-advanced currs[i]
		}

		rv = s.buildDocumentMatch(s.currs)

		for i, searcher := range s.searchers {
			if s.currs[i] != rv {
				ctx.DocumentMatchPool.Put(s.currs[i])
			}
			s.currs[i], err = searcher.Next(ctx)
			if err != nil {
				return nil, err
			}
		}
		break
	}

	return rv, nil
}

func (s *ConjunctionSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	if !s.initialized {
		if err := s.initSearchers(ctx); err != nil {
			return nil, err
		}
	}
	for i := range s.searchers {
		if s.currs[i] != nil && s.currs[i].Number >= number {
			continue
		}
		if err := s.advanceChild(ctx, i, number); err != nil {
			return nil, err
		}
	}
	return s.Next(ctx)
}

func (s *ConjunctionSearcher) advanceChild(ctx *search.Context, i int, number uint64) (err error) {
	if s.currs[i] != nil {
		ctx.DocumentMatchPool.Put(s.currs[i])
	}
	s.currs[i], err = s.searchers[i].Advance(ctx, number)
	return err
}

func (s *ConjunctionSearcher) Count() uint64 {
	var sum uint64
	for _, searcher := range s.searchers {
		sum += searcher.Count()
	}
	return sum
}

func (s *ConjunctionSearcher) Close() error { return closeAll(s.searchers...) }

func (s *ConjunctionSearcher) Min() int { return 0 }

func (s *ConjunctionSearcher) DocumentMatchPoolSize() int {
	rv := len(s.currs)
	for _, child := range s.searchers {
		rv += child.DocumentMatchPoolSize()
	}
	return rv
}

func (s *ConjunctionSearcher) buildDocumentMatch(constituents []*search.DocumentMatch) *search.DocumentMatch {
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

var _ search.Searcher = (*ConjunctionSearcher)(nil)
