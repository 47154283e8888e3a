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

// Package search holds the matcher-engine contracts shared by every
// searcher, collector and similarity implementation: the Searcher and
// Reader interfaces, the recyclable DocumentMatch, and scoring.
//
// Grounded on blugelabs/bluge/search/search.go, adapted to this module's
// segment package instead of bluge_segment_api.
package search

import (
	"github.com/kelpsearch/kelp/segment"
)

// Location is one term occurrence within a matched document.
type Location struct {
	Pos     int
	Start   int
	End     int
	Field   string
	Payload []byte
}

// Locations is every occurrence of one term within one field of one doc.
type Locations []*Location

// TermLocationMap maps a term to its occurrences.
type TermLocationMap map[string]Locations

// FieldTermLocationMap maps a field to its per-term occurrences.
type FieldTermLocationMap map[string]TermLocationMap

// FieldTermLocation names a single (field, term, location) triple, used
// when a collector is asked to record matching terms/spans per hit.
type FieldTermLocation struct {
	Field    string
	Term     string
	Location Location
}

// Span is a matched interval within one field of one document, recorded
// on a hit when a with_spans collector wrapper (spec §4.5) is attached.
type Span struct {
	Field string
	Start int
	End   int
}

// Reader is the composite, segment-spanning view a Searcher runs
// against. index.Snapshot implements this directly; no adapter needed.
type Reader interface {
	DictionaryLookup(field string) (segment.DictionaryLookup, error)
	DictionaryIterator(field string, automaton segment.Automaton, start, end []byte) (segment.DictionaryIterator, error)
	PostingsIterator(term []byte, field string, includeFreq, includeNorm, includeLocations bool) (segment.PostingsIterator, error)
	CollectionStats(field string) (segment.CollectionStats, error)
	Count() (uint64, error)
	VisitStoredFields(number uint64, visitor segment.StoredFieldVisitor) error
	ColumnReader(fields []string) (segment.ColumnReader, error)
}

// DocumentMatch is one hit flowing through the matcher/collector
// pipeline. Searchers obtain one from the Context's pool via Next, fill
// in Number/Score/Explanation, and the collector eventually either keeps
// it (Complete) or returns it to the pool (Reset).
type DocumentMatch struct {
	Number      uint64
	Score       float64
	Explanation *Explanation

	Locations          FieldTermLocationMap
	FieldTermLocations []FieldTermLocation
	Spans              []Span

	SortValue [][]byte
	HitNumber int

	Fields map[string][]byte

	reader Reader
}

// SetReader attaches the Reader a later LoadDocumentValues/
// VisitStoredFields call should read from.
func (dm *DocumentMatch) SetReader(r Reader) { dm.reader = r }

// LoadDocumentValues populates dm.Fields for the requested column fields
// by reading this hit's per-doc columnar values.
func (dm *DocumentMatch) LoadDocumentValues(ctx *Context, fields []string) error {
	if dm.reader == nil || len(fields) == 0 {
		return nil
	}
	cr, err := dm.reader.ColumnReader(fields)
	if err != nil {
		return err
	}
	if dm.Fields == nil {
		dm.Fields = make(map[string][]byte, len(fields))
	}
	return cr.VisitColumnValues(dm.Number, func(field string, value []byte) {
		dm.Fields[field] = value
	})
}

// VisitStoredFields walks every stored field of this hit's document.
func (dm *DocumentMatch) VisitStoredFields(visitor segment.StoredFieldVisitor) error {
	if dm.reader == nil {
		return nil
	}
	return dm.reader.VisitStoredFields(dm.Number, visitor)
}

// Reset clears dm so it may be reused for an unrelated hit; called when
// a collector decides not to keep a candidate.
func (dm *DocumentMatch) Reset() {
	reader := dm.reader
	fields := dm.Fields
	*dm = DocumentMatch{}
	dm.reader = reader
	if fields != nil {
		for k := range fields {
			delete(fields, k)
		}
		dm.Fields = fields
	}
}

// Complete finalizes dm for return to the caller, appending any
// constituent matches' field-term locations if requested.
func (dm *DocumentMatch) Complete(prealloc []FieldTermLocation) {
	if prealloc != nil {
		dm.FieldTermLocations = append(prealloc, dm.FieldTermLocations...)
	}
}

// DocumentMatchCollection is a sortable slice of hits.
type DocumentMatchCollection []*DocumentMatch

// DocumentMatchPool recycles DocumentMatch instances across a single
// search's lifetime, grounded on bluge/search.DocumentMatchPool: the
// matcher tree allocates a pool-sized backing array up front instead of
// one DocumentMatch per Next call.
type DocumentMatchPool struct {
	avail []*DocumentMatch
	items []DocumentMatch
}

// NewDocumentMatchPool preallocates size matches, each carrying a
// SortValue slice with capacity for numSorts sort keys when numSorts > 0.
func NewDocumentMatchPool(size, numSorts int) *DocumentMatchPool {
	if size <= 0 {
		size = 1
	}
	p := &DocumentMatchPool{
		items: make([]DocumentMatch, size),
		avail: make([]*DocumentMatch, size),
	}
	for i := range p.items {
		if numSorts > 0 {
			p.items[i].SortValue = make([][]byte, 0, numSorts)
		}
		p.avail[i] = &p.items[i]
	}
	return p
}

// Get returns a zeroed DocumentMatch, from the pool when available or
// freshly allocated otherwise.
func (p *DocumentMatchPool) Get() *DocumentMatch {
	if n := len(p.avail); n > 0 {
		dm := p.avail[n-1]
		p.avail = p.avail[:n-1]
		return dm
	}
	return &DocumentMatch{}
}

// Put returns dm to the pool for reuse. dm must not be referenced again
// by the caller after this call.
func (p *DocumentMatchPool) Put(dm *DocumentMatch) {
	if dm == nil {
		return
	}
	dm.Reset()
	p.avail = append(p.avail, dm)
}

// Context threads per-search mutable state (the match pool) through a
// tree of Searcher.Next/Advance calls.
type Context struct {
	DocumentMatchPool *DocumentMatchPool
}

// NewSearchContext builds a Context whose pool is sized for poolSize
// concurrently-live matches, each able to carry numSorts sort keys.
func NewSearchContext(poolSize, numSorts int) *Context {
	return &Context{DocumentMatchPool: NewDocumentMatchPool(poolSize, numSorts)}
}

// SearcherOptions configures how a Searcher tree scores and explains.
type SearcherOptions struct {
	SimilarityForField func(field string) Similarity
	DefaultSearchField string
	Explain             bool
	IncludeTermVectors   bool
	Score                string
}

// SimilarityOrDefault resolves field's Similarity through
// SimilarityForField, falling back to def if unset or it returns nil.
func (o SearcherOptions) SimilarityOrDefault(field string, def Similarity) Similarity {
	if o.SimilarityForField != nil {
		if s := o.SimilarityForField(field); s != nil {
			return s
		}
	}
	return def
}

// Searcher is the matcher-engine leaf/composite contract of spec §4.3,
// restricted to what this module implements (no save/restore bookmarks,
// no block-quality skip-to; see searcher package's DESIGN.md entry for
// the simplifications against bluge/search.Searcher).
type Searcher interface {
	// Next returns the next matching document in ascending Number order,
	// or (nil, nil) once exhausted.
	Next(ctx *Context) (*DocumentMatch, error)

	// Advance returns the first matching document with Number >= number.
	Advance(ctx *Context, number uint64) (*DocumentMatch, error)

	// Count is a (possibly loose) upper bound on matches remaining.
	Count() uint64

	// Min is the minimum number of child matches required for this
	// searcher to emit a hit (used by disjunctions with a threshold).
	Min() int

	// DocumentMatchPoolSize is how many DocumentMatch instances this
	// searcher (and its children) may hold live at once.
	DocumentMatchPoolSize() int

	Close() error
}

// Collectible is the subset of Searcher a collector run loop drives.
type Collectible interface {
	Searcher
}

// Scorer computes a leaf document's score from its term statistics.
type Scorer interface {
	Score(frequency int, norm float64) float64
	Explain(frequency int, norm float64) *Explanation
}

// CompositeScorer combines the scores of several constituent matches
// (e.g. must+should in a boolean query) into one.
type CompositeScorer interface {
	ScoreComposite(constituents []*DocumentMatch) float64
	ExplainComposite(constituents []*DocumentMatch) *Explanation
}

// Similarity builds the Scorer for one term given the collection and
// term statistics; see search/similarity for the BM25 implementation.
type Similarity interface {
	Scorer(boost float64, collStats segment.CollectionStats, termStats segment.TermStats) Scorer
	ComputeNorm(length int) float64
}

// MergeFieldTermLocations concatenates dst with every constituent's
// recorded FieldTermLocations, used by composite searchers assembling a
// hit out of must+should sub-matches.
func MergeFieldTermLocations(dst []FieldTermLocation, constituents []*DocumentMatch) []FieldTermLocation {
	for _, c := range constituents {
		if c == nil {
			continue
		}
		dst = append(dst, c.FieldTermLocations...)
	}
	return dst
}
