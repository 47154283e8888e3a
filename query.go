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

package kelp

import (
	"fmt"
	"strings"

	"github.com/kelpsearch/kelp/search"
	"github.com/kelpsearch/kelp/search/searcher"
	"github.com/kelpsearch/kelp/search/similarity"
)

// Query is spec §6's query tree node: given a Reader and the resolved
// SearcherOptions, it builds the Searcher implementing its semantics.
// Every variant named in spec §6 is represented by one of the structs
// in this file; startchar/endchar (spec's error-mapping hook) is left
// to a caller wrapping a Query in its own error type, since nothing in
// this package ever produces parse-position errors itself.
//
// Grounded on bluge/query.go's Query interface and its per-kind
// structs.
type Query interface {
	Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error)
}

type querySlice []Query

func (s querySlice) searchers(i search.Reader, options search.SearcherOptions) ([]search.Searcher, error) {
	rv := make([]search.Searcher, 0, len(s))
	for _, q := range s {
		sr, err := q.Searcher(i, options)
		if err != nil {
			for _, opened := range rv {
				_ = opened.Close()
			}
			return nil, err
		}
		rv = append(rv, sr)
	}
	return rv, nil
}

func (s querySlice) disjunction(i search.Reader, options search.SearcherOptions, min int) (search.Searcher, error) {
	constituents, err := s.searchers(i, options)
	if err != nil {
		return nil, err
	}
	return searcher.NewDisjunctionSearcher(constituents, min, similarity.NewCompositeSumScorer(), options)
}

func (s querySlice) conjunction(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	constituents, err := s.searchers(i, options)
	if err != nil {
		return nil, err
	}
	return searcher.NewConjunctionSearcher(constituents, similarity.NewCompositeSumScorer(), options)
}

func defaultField(field string, options search.SearcherOptions) string {
	if field == "" {
		return options.DefaultSearchField
	}
	return field
}

// TermQuery is spec §6's Term(field, text, boost): an exact single-term
// match.
type TermQuery struct {
	Field string
	Term  string
	Boost float64
}

func NewTermQuery(field, term string) *TermQuery { return &TermQuery{Field: field, Term: term, Boost: 1} }

func (q *TermQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	return searcher.NewTermSearcher(i, q.Term, defaultField(q.Field, options), q.Boost, nil, options)
}

// RangeQuery is spec §6's Range(field, low, high, low_inclusive,
// high_inclusive) over a text field.
type RangeQuery struct {
	Field                       string
	Low, High                   string
	InclusiveLow, InclusiveHigh bool
	Boost                       float64
}

func NewRangeQuery(field, low, high string, inclusiveLow, inclusiveHigh bool) *RangeQuery {
	return &RangeQuery{Field: field, Low: low, High: high, InclusiveLow: inclusiveLow, InclusiveHigh: inclusiveHigh, Boost: 1}
}

func (q *RangeQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	var low, high []byte
	if q.Low != "" {
		low = []byte(q.Low)
	}
	if q.High != "" {
		high = []byte(q.High)
	}
	return searcher.NewTermRangeSearcher(i, low, high, q.InclusiveLow, q.InclusiveHigh,
		defaultField(q.Field, options), q.Boost, nil, similarity.NewCompositeSumScorer(), options)
}

// NumericRangeQuery is spec §6's NumericRange(field, min, max,
// min_inclusive, max_inclusive).
type NumericRangeQuery struct {
	Field                      string
	Min, Max                   float64
	InclusiveMin, InclusiveMax bool
	Boost                      float64
}

func NewNumericRangeQuery(field string, min, max float64, inclusiveMin, inclusiveMax bool) *NumericRangeQuery {
	return &NumericRangeQuery{Field: field, Min: min, Max: max, InclusiveMin: inclusiveMin, InclusiveMax: inclusiveMax, Boost: 1}
}

func (q *NumericRangeQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	return searcher.NewNumericRangeSearcher(i, q.Min, q.Max, q.InclusiveMin, q.InclusiveMax,
		defaultField(q.Field, options), q.Boost, nil, similarity.NewCompositeSumScorer(), options)
}

// PrefixQuery is spec §6's Prefix(field, prefix).
type PrefixQuery struct {
	Field  string
	Prefix string
	Boost  float64
}

func NewPrefixQuery(field, prefix string) *PrefixQuery { return &PrefixQuery{Field: field, Prefix: prefix, Boost: 1} }

func (q *PrefixQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	return searcher.NewTermPrefixSearcher(i, q.Prefix, defaultField(q.Field, options), q.Boost,
		nil, similarity.NewCompositeSumScorer(), options)
}

// WildcardQuery is spec §6's Wildcard(field, pattern): '*' matches any
// run of characters, '?' matches exactly one, compiled down to a
// RegexQuery.
//
// Grounded on bluge/query.go's WildcardQuery/wildcardRegexpReplacer.
type WildcardQuery struct {
	Field   string
	Pattern string
	Boost   float64
}

func NewWildcardQuery(field, pattern string) *WildcardQuery { return &WildcardQuery{Field: field, Pattern: pattern, Boost: 1} }

var wildcardRegexpReplacer = strings.NewReplacer(
	"+", `\+`, "(", `\(`, ")", `\)`, "^", `\^`, "$", `\$`, ".", `\.`,
	"{", `\{`, "}", `\}`, "[", `\[`, "]", `\]`, `|`, `\|`, `\`, `\\`,
	"*", ".*", "?", ".")

func (q *WildcardQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	return (&RegexQuery{Field: q.Field, Pattern: wildcardRegexpReplacer.Replace(q.Pattern), Boost: q.Boost}).Searcher(i, options)
}

// RegexQuery is spec §6's Regex(field, pattern).
type RegexQuery struct {
	Field   string
	Pattern string
	Boost   float64
}

func NewRegexQuery(field, pattern string) *RegexQuery { return &RegexQuery{Field: field, Pattern: pattern, Boost: 1} }

func (q *RegexQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	pattern := strings.TrimPrefix(q.Pattern, "^")
	return searcher.NewRegexpSearcher(i, pattern, defaultField(q.Field, options), q.Boost,
		nil, similarity.NewCompositeSumScorer(), options)
}

// FuzzyTermQuery is spec §6's FuzzyTerm(field, text, maxdist, prefixlen).
type FuzzyTermQuery struct {
	Field     string
	Term      string
	Fuzziness int
	Prefix    int
	Boost     float64
}

func NewFuzzyTermQuery(field, term string, fuzziness, prefix int) *FuzzyTermQuery {
	return &FuzzyTermQuery{Field: field, Term: term, Fuzziness: fuzziness, Prefix: prefix, Boost: 1}
}

func (q *FuzzyTermQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	return searcher.NewFuzzySearcher(i, q.Term, q.Prefix, q.Fuzziness, defaultField(q.Field, options),
		q.Boost, nil, similarity.NewCompositeSumScorer(), options)
}

// VariationsQuery is spec §6's Variations(field, text): match any of a
// caller-supplied set of equivalent spellings for text (e.g. external
// stemming/synonym expansion), scored as a disjunction of exact terms.
//
// Not named precisely enough in spec §6 to know its intended matcher
// shape; resolved here as "OR of the caller's own candidate terms"
// rather than this package computing variations itself, since spec §1
// treats morphological/synonym analysis as an external collaborator
// the same way it treats tokenization (see DESIGN.md's Open Question
// entry).
type VariationsQuery struct {
	Field      string
	Variations []string
	Boost      float64
}

func NewVariationsQuery(field string, variations []string) *VariationsQuery {
	return &VariationsQuery{Field: field, Variations: variations, Boost: 1}
}

func (q *VariationsQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	if len(q.Variations) == 0 {
		return (&NullQuery{}).Searcher(i, options)
	}
	return searcher.NewMultiTermSearcherStringsIndividualBoost(i, q.Variations,
		uniformBoosts(len(q.Variations)), defaultField(q.Field, options), q.Boost,
		nil, similarity.NewCompositeSumScorer(), options)
}

func uniformBoosts(n int) []float64 {
	rv := make([]float64, n)
	for i := range rv {
		rv[i] = 1
	}
	return rv
}

// PhraseQuery is spec §6/§8 S2's Phrase(field, terms): terms must occur
// consecutively (slop 0) or within slop positions of each other, in
// order.
type PhraseQuery struct {
	Field string
	Terms []string
	Slop  int
	Boost float64
}

func NewPhraseQuery(field string, terms []string) *PhraseQuery {
	return &PhraseQuery{Field: field, Terms: terms, Boost: 1}
}

func (q *PhraseQuery) SetSlop(slop int) *PhraseQuery {
	q.Slop = slop
	return q
}

func (q *PhraseQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	field := defaultField(q.Field, options)
	if q.Slop == 0 {
		return searcher.NewPhraseSearcher(i, q.Terms, field, q.Boost, similarity.NewCompositeSumScorer(), options)
	}
	return searcher.NewSloppyPhraseSearcher(i, q.Terms, field, q.Slop, q.Boost, similarity.NewCompositeSumScorer(), options)
}

// EveryQuery is spec §6's Every(field?): matches every document, via
// field's postings when set or an unconstrained scan when "".
type EveryQuery struct {
	Field string
	Boost float64
}

func NewEveryQuery(field string) *EveryQuery { return &EveryQuery{Field: field, Boost: 1} }

func (q *EveryQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	return searcher.NewMatchAllSearcher(i, q.Field, q.Boost, similarity.ConstantScorer(q.Boost), options)
}

// NullQuery is spec §6's NullQuery: matches nothing.
type NullQuery struct{}

func (*NullQuery) Searcher(search.Reader, search.SearcherOptions) (search.Searcher, error) {
	return searcher.NewMatchNoneSearcher()
}

// IgnoreQuery is spec §6's IgnoreQuery: a placeholder a query builder
// can substitute for a clause it chose to drop (e.g. an empty optional
// filter) without changing a parent Boolean/Conjunction's arity; it
// behaves exactly like NullQuery when actually searched.
type IgnoreQuery struct{}

func (*IgnoreQuery) Searcher(search.Reader, search.SearcherOptions) (search.Searcher, error) {
	return searcher.NewMatchNoneSearcher()
}

// ErrorQuery is spec §6's ErrorQuery(msg): a query tree node standing
// in for a construction-time error, so a malformed query can still be
// reported through the normal Searcher-building path instead of a
// panic.
type ErrorQuery struct {
	Message string
}

func (q *ErrorQuery) Searcher(search.Reader, search.SearcherOptions) (search.Searcher, error) {
	return nil, fmt.Errorf("kelp: query error: %s", q.Message)
}

// ConjunctionQuery is spec §8 S5's And(...): every child must match.
type ConjunctionQuery struct {
	children querySlice
}

func NewConjunctionQuery(children ...Query) *ConjunctionQuery {
	return &ConjunctionQuery{children: children}
}

func (q *ConjunctionQuery) AddQuery(children ...Query) *ConjunctionQuery {
	q.children = append(q.children, children...)
	return q
}

func (q *ConjunctionQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	return q.children.conjunction(i, options)
}

// DisjunctionQuery is spec §8 S5's Or(...): at least min children must
// match (min 0 meaning any).
type DisjunctionQuery struct {
	children querySlice
	min      int
}

func NewDisjunctionQuery(children ...Query) *DisjunctionQuery {
	return &DisjunctionQuery{children: children}
}

func (q *DisjunctionQuery) AddQuery(children ...Query) *DisjunctionQuery {
	q.children = append(q.children, children...)
	return q
}

func (q *DisjunctionQuery) SetMin(min int) *DisjunctionQuery {
	q.min = min
	return q
}

func (q *DisjunctionQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	return q.children.disjunction(i, options, q.min)
}

// DisjunctionMaxQuery scores a document by its single best-matching
// child, plus tiebreak * the rest, spec §4.3's DisjunctionMax.
type DisjunctionMaxQuery struct {
	children querySlice
	tiebreak float64
	Boost    float64
}

func NewDisjunctionMaxQuery(tiebreak float64, children ...Query) *DisjunctionMaxQuery {
	return &DisjunctionMaxQuery{children: children, tiebreak: tiebreak, Boost: 1}
}

func (q *DisjunctionMaxQuery) AddQuery(children ...Query) *DisjunctionMaxQuery {
	q.children = append(q.children, children...)
	return q
}

func (q *DisjunctionMaxQuery) Searcher(i search.Reader, options search.SearcherOptions) (search.Searcher, error) {
	constituents, err := q.children.searchers(i, options)
	if err != nil {
		return nil, err
	}
	return searcher.NewDisjunctionMaxSearcher(constituents, q.tiebreak, q.Boost, options)
}

// BooleanQuery is spec §8 S5's AndNot/Boolean combinator: result
// documents must match every Must clause, none of the MustNot clauses,
// and at least MinShould of the Should clauses.
//
// Grounded on bluge/query.go's BooleanQuery.
type BooleanQuery struct {
	musts, shoulds, mustNots querySlice
	minShould                int
	boost                    float64
}

func NewBooleanQuery() *BooleanQuery { return &BooleanQuery{boost: 1} }

func (q *BooleanQuery) AddMust(m ...Query) *BooleanQuery { q.musts = append(q.musts, m...); return q }

func (q *BooleanQuery) AddShould(m ...Query) *BooleanQuery {
	q.shoulds = append(q.shoulds, m...)
	return q
}

func (q *BooleanQuery) AddMustNot(m ...Query) *BooleanQuery {
	q.mustNots = append(q.mustNots, m...)
	return q
}

func (q *BooleanQuery) SetMinShould(min int) *BooleanQuery { q.minShould = min; return q }

func (q *BooleanQuery) SetBoost(b float64) *BooleanQuery { q.boost = b; return q }

func (q *BooleanQuery) Searcher(i search.Reader, options search.SearcherOptions) (rv search.Searcher, err error) {
	var mustSearcher, shouldSearcher, mustNotSearcher search.Searcher

	if len(q.mustNots) > 0 {
		mustNotSearcher, err = q.mustNots.disjunction(i, options, 1)
		if err != nil {
			return nil, err
		}
	}
	if len(q.musts) > 0 {
		mustSearcher, err = q.musts.conjunction(i, options)
		if err != nil {
			return nil, err
		}
	}
	if len(q.shoulds) > 0 {
		shouldSearcher, err = q.shoulds.disjunction(i, options, q.minShould)
		if err != nil {
			return nil, err
		}
	}

	mustSearcher = replaceMatchNoneWithNil(mustSearcher)
	shouldSearcher = replaceMatchNoneWithNil(shouldSearcher)
	mustNotSearcher = replaceMatchNoneWithNil(mustNotSearcher)

	if mustSearcher == nil && shouldSearcher == nil && mustNotSearcher == nil {
		return searcher.NewMatchNoneSearcher()
	}
	if mustSearcher == nil && shouldSearcher == nil && mustNotSearcher != nil {
		mustSearcher, err = searcher.NewMatchAllSearcher(i, "", 1, similarity.ConstantScorer(1), options)
		if err != nil {
			return nil, err
		}
	}

	return searcher.NewBooleanSearcher(mustSearcher, shouldSearcher, mustNotSearcher,
		similarity.NewCompositeSumScorerWithBoost(q.boost), options)
}

func replaceMatchNoneWithNil(s search.Searcher) search.Searcher {
	if _, ok := s.(*searcher.MatchNoneSearcher); ok {
		return nil
	}
	return s
}
