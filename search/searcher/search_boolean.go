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

// BooleanSearcher composes must/should/mustNot clauses, giving spec
// §4.3's AndNot/AndMaybe/Require in one matcher: a candidate must
// satisfy must (or, with no must clause, should), must not be present
// in mustNot, and should contributes a score bonus without being
// required.
//
// Grounded on search/searcher/search_boolean.go.
type BooleanSearcher struct {
	mustSearcher    search.Searcher
	shouldSearcher  search.Searcher
	mustNotSearcher search.Searcher
	currMust        *search.DocumentMatch
	currShould      *search.DocumentMatch
	currMustNot     *search.DocumentMatch
	currentMatch    *search.DocumentMatch
	scorer          search.CompositeScorer
	matches         []*search.DocumentMatch
	initialized     bool
	done            bool
	options         search.SearcherOptions
}

// NewBooleanSearcher builds a BooleanSearcher. Any of the three clauses
// may be nil except mustSearcher and shouldSearcher cannot both be nil.
func NewBooleanSearcher(mustSearcher, shouldSearcher, mustNotSearcher search.Searcher,
	scorer search.CompositeScorer, options search.SearcherOptions) (*BooleanSearcher, error) {
	return &BooleanSearcher{
		mustSearcher:    mustSearcher,
		shouldSearcher:  shouldSearcher,
		mustNotSearcher: mustNotSearcher,
		scorer:          scorer,
		matches:         make([]*search.DocumentMatch, 2),
		options:         options,
	}, nil
}

func (s *BooleanSearcher) initSearchers(ctx *search.Context) error {
	var err error
	if s.mustSearcher != nil {
		if s.currMust != nil {
			ctx.DocumentMatchPool.Put(s.currMust)
		}
		s.currMust, err = s.mustSearcher.Next(ctx)
		if err != nil {
			return err
		}
	}
	if s.shouldSearcher != nil {
		if s.currShould != nil {
			ctx.DocumentMatchPool.Put(s.currShould)
		}
		s.currShould, err = s.shouldSearcher.Next(ctx)
		if err != nil {
			return err
		}
	}
	if s.mustNotSearcher != nil {
		if s.currMustNot != nil {
			ctx.DocumentMatchPool.Put(s.currMustNot)
		}
		s.currMustNot, err = s.mustNotSearcher.Next(ctx)
		if err != nil {
			return err
		}
	}

	s.syncCurrentMatch()
	s.initialized = true
	return nil
}

func (s *BooleanSearcher) syncCurrentMatch() {
	switch {
	case s.mustSearcher != nil && s.currMust != nil:
		s.currentMatch = s.currMust
	case s.mustSearcher == nil && s.currShould != nil:
		s.currentMatch = s.currShould
	default:
		s.currentMatch = nil
	}
}

func (s *BooleanSearcher) advanceNextMust(ctx *search.Context, skipReturn *search.DocumentMatch) error {
	var err error
	if s.mustSearcher != nil {
		if s.currMust != skipReturn {
			ctx.DocumentMatchPool.Put(s.currMust)
		}
		s.currMust, err = s.mustSearcher.Next(ctx)
	} else {
		if s.currShould != skipReturn {
			ctx.DocumentMatchPool.Put(s.currShould)
		}
		s.currShould, err = s.shouldSearcher.Next(ctx)
	}
	if err != nil {
		return err
	}
	s.syncCurrentMatch()
	return nil
}

func (s *BooleanSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	if s.done {
		return nil, nil
	}
	if !s.initialized {
		if err := s.initSearchers(ctx); err != nil {
			return nil, err
		}
	}

	rv, err := s.nextInternal(ctx)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		s.done = true
	}
	return rv, nil
}

func (s *BooleanSearcher) nextInternal(ctx *search.Context) (rv *search.DocumentMatch, err error) {
	for s.currentMatch != nil {
		if s.currMustNot != nil {
			excluded, err := s.doesMustNotExcludeCandidate(ctx)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}
		}

		shouldCmpOrNil := 1
		if s.currShould != nil {
			shouldCmpOrNil = docNumberCompare(s.currShould.Number, s.currentMatch.Number)
		}

		switch {
		case shouldCmpOrNil < 0:
			ctx.DocumentMatchPool.Put(s.currShould)
			s.currShould, err = s.shouldSearcher.Advance(ctx, s.currentMatch.Number)
			if err != nil {
				return nil, err
			}
			if s.currShould != nil && s.currShould.Number == s.currentMatch.Number {
				rv = s.buildDocumentMatch(s.buildConstituents())
				if err = s.advanceNextMust(ctx, rv); err != nil {
					return nil, err
				}
				return rv, nil
			} else if s.shouldSearcher.Min() == 0 {
				cons := s.matches[0:1]
				cons[0] = s.currMust
				rv = s.buildDocumentMatch(cons)
				if err = s.advanceNextMust(ctx, rv); err != nil {
					return nil, err
				}
				return rv, nil
			}
		case shouldCmpOrNil == 0:
			rv = s.buildDocumentMatch(s.buildConstituents())
			if err = s.advanceNextMust(ctx, rv); err != nil {
				return nil, err
			}
			return rv, nil
		case s.shouldSearcher == nil || s.shouldSearcher.Min() == 0:
			cons := s.matches[0:1]
			cons[0] = s.currMust
			rv = s.buildDocumentMatch(cons)
			if err = s.advanceNextMust(ctx, rv); err != nil {
				return nil, err
			}
			return rv, nil
		}

		if err = s.advanceNextMust(ctx, nil); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (s *BooleanSearcher) doesMustNotExcludeCandidate(ctx *search.Context) (excluded bool, err error) {
	cmp := docNumberCompare(s.currMustNot.Number, s.currentMatch.Number)
	switch {
	case cmp < 0:
		ctx.DocumentMatchPool.Put(s.currMustNot)
		s.currMustNot, err = s.mustNotSearcher.Advance(ctx, s.currentMatch.Number)
		if err != nil {
			return false, err
		}
		if s.currMustNot != nil && s.currMustNot.Number == s.currentMatch.Number {
			if err = s.advanceNextMust(ctx, nil); err != nil {
				return false, err
			}
			return true, nil
		}
	case cmp == 0:
		if err = s.advanceNextMust(ctx, nil); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *BooleanSearcher) buildConstituents() []*search.DocumentMatch {
	if s.currMust != nil {
		cons := s.matches
		cons[0] = s.currMust
		cons[1] = s.currShould
		return cons
	}
	cons := s.matches[0:1]
	cons[0] = s.currShould
	return cons
}

func (s *BooleanSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	if s.done {
		return nil, nil
	}
	if !s.initialized {
		if err := s.initSearchers(ctx); err != nil {
			return nil, err
		}
	}
	if s.currentMatch == nil || docNumberCompare(s.currentMatch.Number, number) < 0 {
		if err := s.advanceIfTrailing(ctx, number); err != nil {
			return nil, err
		}
	}
	return s.Next(ctx)
}

func (s *BooleanSearcher) advanceIfTrailing(ctx *search.Context, number uint64) error {
	var err error
	if s.mustSearcher != nil {
		if s.currMust != nil {
			ctx.DocumentMatchPool.Put(s.currMust)
		}
		s.currMust, err = s.mustSearcher.Advance(ctx, number)
		if err != nil {
			return err
		}
	}
	if s.shouldSearcher != nil {
		if s.currShould != nil {
			ctx.DocumentMatchPool.Put(s.currShould)
		}
		s.currShould, err = s.shouldSearcher.Advance(ctx, number)
		if err != nil {
			return err
		}
	}
	if s.mustNotSearcher != nil {
		if s.currMustNot == nil || s.currMustNot.Number < number {
			if s.currMustNot != nil {
				ctx.DocumentMatchPool.Put(s.currMustNot)
			}
			s.currMustNot, err = s.mustNotSearcher.Advance(ctx, number)
			if err != nil {
				return err
			}
		}
	}
	s.syncCurrentMatch()
	return nil
}

func (s *BooleanSearcher) Count() uint64 {
	var sum uint64
	if s.mustSearcher != nil {
		sum += s.mustSearcher.Count()
	}
	if s.shouldSearcher != nil {
		sum += s.shouldSearcher.Count()
	}
	return sum
}

func (s *BooleanSearcher) Close() error {
	return closeAll(s.mustSearcher, s.shouldSearcher, s.mustNotSearcher)
}

func (s *BooleanSearcher) Min() int { return 0 }

func (s *BooleanSearcher) DocumentMatchPoolSize() int {
	rv := 3
	if s.mustSearcher != nil {
		rv += s.mustSearcher.DocumentMatchPoolSize()
	}
	if s.shouldSearcher != nil {
		rv += s.shouldSearcher.DocumentMatchPoolSize()
	}
	if s.mustNotSearcher != nil {
		rv += s.mustNotSearcher.DocumentMatchPoolSize()
	}
	return rv
}

func (s *BooleanSearcher) buildDocumentMatch(constituents []*search.DocumentMatch) *search.DocumentMatch {
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

var _ search.Searcher = (*BooleanSearcher)(nil)
