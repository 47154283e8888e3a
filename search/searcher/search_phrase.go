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

// PhraseSearcher is spec §4.3's Phrase/Span matcher, restricted to
// position-adjacency phrase matching (no Span Or/Not/Contains/Before/
// Condition operators, see DESIGN.md): terms must occur in order, at
// most slop positions away from their expected offset in aggregate.
//
// Not ported from a retrieved file: the teacher carries no dedicated
// phrase searcher (confirmed by exhaustive grep across
// search/searcher), since bluge resolves phrase queries by composing a
// Conjunction with its own position filter inline rather than as a
// standalone searcher type. Grounded instead on
// search/searcher/search_conjunction.go's merge-join shape: a
// PhraseSearcher wraps a ConjunctionSearcher over one TermSearcher per
// phrase word and filters each candidate by the position test below,
// looping to the next candidate on a miss.
type PhraseSearcher struct {
	field string
	terms []string
	slop  int
	inner search.Searcher
}

// NewPhraseSearcher builds an exact-phrase (slop 0) matcher: terms must
// occur consecutively, in order, within field.
func NewPhraseSearcher(indexReader search.Reader, terms []string, field string, boost float64,
	compScorer search.CompositeScorer, options search.SearcherOptions) (search.Searcher, error) {
	return NewSloppyPhraseSearcher(indexReader, terms, field, 0, boost, compScorer, options)
}

// NewSloppyPhraseSearcher builds a phrase matcher tolerating up to slop
// total positional displacement across all terms (spec's Span Near
// with an ordered adjacency requirement).
func NewSloppyPhraseSearcher(indexReader search.Reader, terms []string, field string, slop int,
	boost float64, compScorer search.CompositeScorer, options search.SearcherOptions) (search.Searcher, error) {
	if len(terms) == 0 {
		return NewMatchNoneSearcher()
	}

	// Locations are required to test position adjacency, regardless of
	// what the caller's options asked for.
	termOptions := options
	termOptions.IncludeTermVectors = true

	qsearchers := make([]search.Searcher, 0, len(terms))
	for _, term := range terms {
		s, err := NewTermSearcher(indexReader, term, field, boost, nil, termOptions)
		if err != nil {
			for _, q := range qsearchers {
				_ = q.Close()
			}
			return nil, err
		}
		qsearchers = append(qsearchers, s)
	}

	if len(qsearchers) == 1 {
		return qsearchers[0], nil
	}

	inner, err := NewConjunctionSearcher(qsearchers, compScorer, termOptions)
	if err != nil {
		return nil, err
	}

	return &PhraseSearcher{field: field, terms: terms, slop: slop, inner: inner}, nil
}

func (s *PhraseSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	for {
		dm, err := s.inner.Next(ctx)
		if err != nil || dm == nil {
			return nil, err
		}
		if matchPhrase(dm.FieldTermLocations, s.field, s.terms, s.slop) {
			return dm, nil
		}
		ctx.DocumentMatchPool.Put(dm)
	}
}

func (s *PhraseSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	dm, err := s.inner.Advance(ctx, number)
	if err != nil || dm == nil {
		return nil, err
	}
	if matchPhrase(dm.FieldTermLocations, s.field, s.terms, s.slop) {
		return dm, nil
	}
	return s.Next(ctx)
}

func (s *PhraseSearcher) Count() uint64 { return s.inner.Count() }

func (s *PhraseSearcher) Min() int { return s.inner.Min() }

func (s *PhraseSearcher) DocumentMatchPoolSize() int { return s.inner.DocumentMatchPoolSize() }

func (s *PhraseSearcher) Close() error { return s.inner.Close() }

var _ search.Searcher = (*PhraseSearcher)(nil)

// matchPhrase tests whether locs contains, for every term in terms (in
// order), an occurrence in field whose position lines up with term 0's
// chosen start position plus its offset in the phrase, within a total
// slop budget summed across terms. When several valid start positions
// exist, the smallest total slop wins (ties broken by the smallest
// start position), per SPEC_FULL.md's sloppy-phrase tie-break rule.
func matchPhrase(locs []search.FieldTermLocation, field string, terms []string, slop int) bool {
	positions := make([][]int, len(terms))
	for i, term := range terms {
		for _, loc := range locs {
			if loc.Field == field && loc.Term == term {
				positions[i] = append(positions[i], loc.Location.Pos)
			}
		}
		if len(positions[i]) == 0 {
			return false
		}
		sort.Ints(positions[i])
	}

	bestFound := false
	bestSlop := slop + 1
	bestStart := 0
	for _, start := range positions[0] {
		total := 0
		ok := true
		for i := 1; i < len(terms); i++ {
			want := start + i
			pos, dist, found := closestWithinBudget(positions[i], want, slop-total)
			if !found {
				ok = false
				break
			}
			total += dist
			_ = pos
		}
		if ok && (total < bestSlop || (total == bestSlop && start < bestStart)) {
			bestFound = true
			bestSlop = total
			bestStart = start
		}
	}
	return bestFound
}

// closestWithinBudget finds the position in candidates (sorted
// ascending) closest to want, succeeding only if its distance from want
// fits within budget.
func closestWithinBudget(candidates []int, want, budget int) (pos, dist int, found bool) {
	if budget < 0 {
		return 0, 0, false
	}
	bestDist := -1
	var bestPos int
	for _, c := range candidates {
		d := c - want
		if d < 0 {
			d = -d
		}
		if bestDist == -1 || d < bestDist {
			bestDist = d
			bestPos = c
		}
	}
	if bestDist == -1 || bestDist > budget {
		return 0, 0, false
	}
	return bestPos, bestDist, true
}
