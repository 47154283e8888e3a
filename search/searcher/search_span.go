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

// Span is one matched interval within a document's field, in token
// position units (spec §4.3: "Span(start, end, startchar?, endchar?,
// payload?)"). This module tracks start/end token positions only; char
// offsets are not carried through FieldTermLocation (see
// search.Location's Start/End fields, which TermSearcher leaves as the
// segment's byte offsets rather than a span's own char range) so
// StartChar/EndChar are not modeled.
type Span struct {
	Start int
	End   int
}

func (s Span) overlaps(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

// gap returns the number of token positions strictly between a and b
// (0 when adjacent, negative when overlapping).
func gap(a, b Span) int {
	if a.End < b.Start {
		return b.Start - a.End - 1
	}
	if b.End < a.Start {
		return a.Start - b.End - 1
	}
	return -1
}

// SpanExpr is a node in a span predicate tree (spec §4.3's Span
// operators). Leaves are built with SpanTerm; Spans evaluates the tree
// against one document's recorded term locations.
type SpanExpr interface {
	// Leaves returns every distinct (field, term) pair this expression
	// needs positions for, so a SpanSearcher can build one TermSearcher
	// per leaf.
	Leaves() [][2]string

	// Spans returns every span this expression matches within locs.
	Spans(locs []search.FieldTermLocation) []Span
}

type spanTerm struct {
	field string
	term  string
}

// SpanTerm is a leaf span: one span per occurrence of term in field.
func SpanTerm(field, term string) SpanExpr { return spanTerm{field: field, term: term} }

func (t spanTerm) Leaves() [][2]string { return [][2]string{{t.field, t.term}} }

func (t spanTerm) Spans(locs []search.FieldTermLocation) []Span {
	var out []Span
	for _, loc := range locs {
		if loc.Field == t.field && loc.Term == t.term {
			out = append(out, Span{Start: loc.Location.Pos, End: loc.Location.Pos})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

type spanNear struct {
	a, b    SpanExpr
	slop    int
	mindist int
	ordered bool
}

// SpanNear combines a and b into a span covering both when they occur
// within [mindist, slop] token positions of each other (spec §4.3's
// Near(slop, ordered?, mindist)). When ordered is true, a must occur
// before b.
func SpanNear(a, b SpanExpr, slop, mindist int, ordered bool) SpanExpr {
	return spanNear{a: a, b: b, slop: slop, mindist: mindist, ordered: ordered}
}

func (n spanNear) Leaves() [][2]string { return append(n.a.Leaves(), n.b.Leaves()...) }

func (n spanNear) Spans(locs []search.FieldTermLocation) []Span {
	as := n.a.Spans(locs)
	bs := n.b.Spans(locs)
	var out []Span
	for _, sa := range as {
		for _, sb := range bs {
			if n.ordered && sb.Start <= sa.End {
				continue
			}
			g := gap(sa, sb)
			if g < 0 {
				g = 0 // overlapping spans are distance 0 apart
			}
			if g < n.mindist || g > n.slop {
				continue
			}
			out = append(out, mergeSpan(sa, sb))
		}
	}
	return dedupSpans(out)
}

func mergeSpan(a, b Span) Span {
	s := Span{Start: a.Start, End: a.End}
	if b.Start < s.Start {
		s.Start = b.Start
	}
	if b.End > s.End {
		s.End = b.End
	}
	return s
}

func dedupSpans(spans []Span) []Span {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	out := spans[:0]
	for i, s := range spans {
		if i == 0 || s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

type spanOr struct {
	clauses []SpanExpr
}

// SpanOr merges the spans of every clause, per spec §4.3 (merge
// overlapping): overlapping or adjacent spans across clauses are
// coalesced into one.
func SpanOr(clauses ...SpanExpr) SpanExpr { return spanOr{clauses: clauses} }

func (o spanOr) Leaves() [][2]string {
	var out [][2]string
	for _, c := range o.clauses {
		out = append(out, c.Leaves()...)
	}
	return out
}

func (o spanOr) Spans(locs []search.FieldTermLocation) []Span {
	var all []Span
	for _, c := range o.clauses {
		all = append(all, c.Spans(locs)...)
	}
	if len(all) == 0 {
		return nil
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start < all[j].Start })
	merged := []Span{all[0]}
	for _, s := range all[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End+1 {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

type spanNot struct {
	include, exclude SpanExpr
}

// SpanNot keeps include's spans that don't overlap any exclude span,
// per spec §4.3's Not (A spans not overlapping B).
func SpanNot(include, exclude SpanExpr) SpanExpr {
	return spanNot{include: include, exclude: exclude}
}

func (n spanNot) Leaves() [][2]string { return append(n.include.Leaves(), n.exclude.Leaves()...) }

func (n spanNot) Spans(locs []search.FieldTermLocation) []Span {
	excl := n.exclude.Spans(locs)
	var out []Span
	for _, s := range n.include.Spans(locs) {
		blocked := false
		for _, e := range excl {
			if s.overlaps(e) {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, s)
		}
	}
	return out
}

type spanContains struct {
	big, small SpanExpr
}

// SpanContains keeps big's spans that fully contain at least one of
// small's spans, per spec §4.3's Contains.
func SpanContains(big, small SpanExpr) SpanExpr {
	return spanContains{big: big, small: small}
}

func (c spanContains) Leaves() [][2]string { return append(c.big.Leaves(), c.small.Leaves()...) }

func (c spanContains) Spans(locs []search.FieldTermLocation) []Span {
	smalls := c.small.Spans(locs)
	var out []Span
	for _, b := range c.big.Spans(locs) {
		for _, s := range smalls {
			if b.Start <= s.Start && s.End <= b.End {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

type spanBefore struct {
	a, b SpanExpr
}

// SpanBefore keeps a's spans that end strictly before at least one of
// b's spans starts, per spec §4.3's Before.
func SpanBefore(a, b SpanExpr) SpanExpr { return spanBefore{a: a, b: b} }

func (bf spanBefore) Leaves() [][2]string { return append(bf.a.Leaves(), bf.b.Leaves()...) }

func (bf spanBefore) Spans(locs []search.FieldTermLocation) []Span {
	bs := bf.b.Spans(locs)
	var out []Span
	for _, sa := range bf.a.Spans(locs) {
		for _, sb := range bs {
			if sa.End < sb.Start {
				out = append(out, sa)
				break
			}
		}
	}
	return out
}

type spanCondition struct {
	match, condition SpanExpr
}

// SpanCondition gates match's spans on condition having any span at
// all in the same document, per spec §4.3's Condition (A's spans gated
// by B's presence).
func SpanCondition(match, condition SpanExpr) SpanExpr {
	return spanCondition{match: match, condition: condition}
}

func (c spanCondition) Leaves() [][2]string {
	return append(c.match.Leaves(), c.condition.Leaves()...)
}

func (c spanCondition) Spans(locs []search.FieldTermLocation) []Span {
	if len(c.condition.Spans(locs)) == 0 {
		return nil
	}
	return c.match.Spans(locs)
}

// SpanSearcher matches documents where root produces at least one
// span, built the same way PhraseSearcher is: wrap one TermSearcher per
// distinct leaf (field, term) in a ConjunctionSearcher so every leaf
// must be present, then filter each candidate by evaluating root
// against its FieldTermLocations.
//
// Not ported from any retrieved file (bluge resolves span queries
// inline in its query-builder layer and keeps no standalone span
// searcher); grounded on search_phrase.go's wrapping shape and spec
// §4.3's span operator list.
type SpanSearcher struct {
	root  SpanExpr
	inner search.Searcher
}

// NewSpanSearcher builds a SpanSearcher matching documents where root
// produces at least one span.
func NewSpanSearcher(indexReader search.Reader, root SpanExpr, boost float64,
	compScorer search.CompositeScorer, options search.SearcherOptions) (search.Searcher, error) {
	leaves := dedupLeaves(root.Leaves())
	if len(leaves) == 0 {
		return NewMatchNoneSearcher()
	}

	termOptions := options
	termOptions.IncludeTermVectors = true

	qsearchers := make([]search.Searcher, 0, len(leaves))
	for _, l := range leaves {
		s, err := NewTermSearcher(indexReader, l[1], l[0], boost, nil, termOptions)
		if err != nil {
			for _, q := range qsearchers {
				_ = q.Close()
			}
			return nil, err
		}
		qsearchers = append(qsearchers, s)
	}

	var inner search.Searcher
	if len(qsearchers) == 1 {
		inner = qsearchers[0]
	} else {
		var err error
		inner, err = NewConjunctionSearcher(qsearchers, compScorer, termOptions)
		if err != nil {
			return nil, err
		}
	}

	return &SpanSearcher{root: root, inner: inner}, nil
}

func dedupLeaves(leaves [][2]string) [][2]string {
	seen := make(map[[2]string]bool, len(leaves))
	var out [][2]string
	for _, l := range leaves {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func (s *SpanSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	for {
		dm, err := s.inner.Next(ctx)
		if err != nil || dm == nil {
			return nil, err
		}
		if len(s.root.Spans(dm.FieldTermLocations)) > 0 {
			return dm, nil
		}
		ctx.DocumentMatchPool.Put(dm)
	}
}

func (s *SpanSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	dm, err := s.inner.Advance(ctx, number)
	if err != nil || dm == nil {
		return nil, err
	}
	if len(s.root.Spans(dm.FieldTermLocations)) > 0 {
		return dm, nil
	}
	return s.Next(ctx)
}

func (s *SpanSearcher) Count() uint64              { return s.inner.Count() }
func (s *SpanSearcher) Min() int                   { return s.inner.Min() }
func (s *SpanSearcher) DocumentMatchPoolSize() int { return s.inner.DocumentMatchPoolSize() }
func (s *SpanSearcher) Close() error               { return s.inner.Close() }

var _ search.Searcher = (*SpanSearcher)(nil)
