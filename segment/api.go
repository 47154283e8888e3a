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

// Package segment defines the contract between the segment codec (the
// on-disk writer/reader pair) and everything above it: the multi-segment
// reader, the matcher engine and the writer/merger. A concrete codec
// (see segment/kelpfmt) implements Segment; the rest of the engine only
// ever depends on these interfaces.
package segment

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring"
)

// ErrClosed is returned by operations attempted on a closed segment or index.
var ErrClosed = fmt.Errorf("segment: closed")

// StoredFieldVisitor is invoked for each stored field value of a document.
// Returning false stops the visit early.
type StoredFieldVisitor func(field string, value []byte) bool

// ColumnValueVisitor is invoked by a ColumnReader for each doc's column value.
type ColumnValueVisitor func(field string, value []byte)

// Term identifies a (field, term bytes) pair, the atomic unit of retrieval.
type Term interface {
	Field() string
	Term() []byte
}

// Segment is an immutable, self-contained mini-index over a fixed set of
// local document numbers [0, Count()). Segments are produced by a writer's
// flush or by merging other segments; once written they never change
// except for their deletion bitmap, which lives alongside but outside
// this interface (see index.DeletionSet).
type Segment interface {
	// Dictionary returns the term dictionary for field, or an empty
	// dictionary if the field was never indexed in this segment.
	Dictionary(field string) (Dictionary, error)

	// VisitStoredFields invokes visitor for every stored field of local
	// document num, in field order.
	VisitStoredFields(num uint64, visitor StoredFieldVisitor) error

	// Count returns the number of documents physically present in this
	// segment (deleted or not).
	Count() uint64

	// DocsMatchingTerms returns the union of postings for terms, used by
	// delete-by-term and filter-query evaluation.
	DocsMatchingTerms(terms []Term) (*roaring.Bitmap, error)

	// Fields lists indexed field names known to this segment.
	Fields() []string

	// CollectionStats returns term-independent statistics (doc count,
	// total field length) needed by scorers for IDF/length normalization.
	CollectionStats(field string) (CollectionStats, error)

	// ColumnReader returns the per-doc columnar (sortable/vector) value
	// reader for field, or nil if field carries no column.
	ColumnReader(fields []string) (ColumnReader, error)

	// Size estimates the segment's resident memory footprint in bytes.
	Size() int

	// WriteTo serializes the segment to w; closeCh, if non-nil, aborts
	// the write early when closed.
	WriteTo(w io.Writer, closeCh chan struct{}) (int64, error)

	Type() string
	Version() uint32
}

// CollectionStats carries the aggregate statistics a Scorer needs.
// Trimmed from bluge_segment_api.CollectionStats: drops
// TotalDocumentCount (this module never distinguishes "has the field"
// from "exists" at the collection-stats level) and Merge (index.Snapshot
// already aggregates across segments itself, see index/snapshot.go).
type CollectionStats interface {
	DocumentCount() uint64

	// SumTotalTermFrequency is the total number of term occurrences
	// across every document, used by BM25's average field length.
	SumTotalTermFrequency() uint64
}

// TermStats carries the per-term statistics a Scorer needs, alongside
// CollectionStats, to compute IDF.
type TermStats interface {
	DocumentFrequency() uint64
}

// DictionaryLookup is the minimal membership-test surface of a Dictionary.
type DictionaryLookup interface {
	Contains(key []byte) (bool, error)
	Close() error
}

// Dictionary is a sorted, seekable view over a field's term space: the
// "FST-like, sorted" term dictionary of spec §4.2.
type Dictionary interface {
	DictionaryLookup

	// TermInfo returns the aggregate per-term statistics and the
	// decoded posting list for term, or an empty list if absent.
	TermInfo(term []byte, except *roaring.Bitmap, prealloc PostingList) (PostingList, error)

	// Iterator walks the dictionary's sorted keys in [startKeyInclusive,
	// endKeyExclusive), additionally constrained by automaton a (pass
	// MatchAllAutomaton{} for an unconstrained scan). This is the term
	// cursor of spec §4.2/§4.7: Seek is Iterator with a start key,
	// NextTermsGE is repeated Next().
	Iterator(a Automaton, startKeyInclusive, endKeyExclusive []byte) DictionaryIterator
}

// DictionaryEntry is one (term, doc frequency) pair yielded by a cursor.
type DictionaryEntry interface {
	Term() string
	Count() uint64
}

// DictionaryIterator is the term cursor contract of spec §4.2.
type DictionaryIterator interface {
	Next() (DictionaryEntry, error)
	Close() error
}

// PostingList is the decoded TermInfo plus a factory for posting iterators;
// spec §3's TermInfo (df, total weight, min/max length, min/max docid) lives
// behind this interface so different codecs can encode it differently.
type PostingList interface {
	Iterator(includeWeight, includeNorm, includeLocations bool, prealloc PostingsIterator) (PostingsIterator, error)

	Size() int
	Count() uint64

	// DocFreq, MaxWeight and MaxLength back block-max skipping (spec §4.1/4.3).
	DocFreq() uint64
	MaxWeight() float64
	MaxLength() int
}

// PostingsIterator is the leaf matcher of spec §4.3: the per-term posting
// cursor. Implementations may return a shared Posting instance from Next
// to avoid allocation; callers must copy out whatever they need before
// calling Next or Advance again.
type PostingsIterator interface {
	Next() (Posting, error)

	// Advance moves to the first posting with docNum >= the requested
	// number. Callers must not pass a docNum <= the currently visited one.
	Advance(docNum uint64) (Posting, error)

	Size() int
	Empty() bool
	Count() uint64

	// BlockMaxWeight returns the maximum weight achievable in the
	// iterator's *current* block (for the skip_to_quality optimization
	// of spec §4.3), or false if the underlying posting list carries no
	// block-max header.
	BlockMaxWeight() (float64, bool)

	Close() error
}

// OptimizablePostingsIterator exposes the raw bitmap backing an iterator
// so boolean composition (AND/OR/AND-NOT) can fold multiple term leaves
// into one bitmap operation instead of a tree of iterator advances.
type OptimizablePostingsIterator interface {
	ActualBitmap() *roaring.Bitmap
	DocNum1Hit() (uint64, bool)
	ReplaceActual(*roaring.Bitmap)
}

// Posting is one occurrence tuple: (docid, length, weight, positions,
// chars, payloads) per spec §3, decoded on demand.
type Posting interface {
	Number() uint64
	SetNumber(uint64)

	// Weight is the per-doc weight (defaults to Frequency when the
	// format stores no explicit weight).
	Weight() float64
	Frequency() int
	Norm() float64
	Length() int

	Locations() []Location
	Size() int
}

// Location is one (position, char range, payload) occurrence within a
// posting; spec §3's position/char/payload optional sub-tuple.
type Location interface {
	Field() string
	Pos() int
	Start() int
	End() int
	Payload() []byte
	Size() int
}

// ColumnReader reads per-doc columnar values (spec §3 Column) for a set
// of fields, used by sort-by/group-by collectors and by stored term
// vectors.
type ColumnReader interface {
	VisitColumnValues(number uint64, visitor ColumnValueVisitor) error
}

// Merger combines N segments' matching document numbers into one WriteTo
// stream without fully decoding intermediate representations.
type Merger interface {
	WriteTo(w io.Writer, closeCh chan struct{}) (n int64, err error)
	DocumentNumbers() [][]uint64
}

// Automaton is satisfied by any finite-state acceptor usable to constrain
// a Dictionary.Iterator — in particular the Levenshtein DFA of spec §4.7.
type Automaton interface {
	Start() int
	IsMatch(state int) bool
	CanMatch(state int) bool
	WillAlwaysMatch(state int) bool
	Accept(state int, b byte) int
}

// MatchAllAutomaton accepts every string; used for unconstrained scans.
type MatchAllAutomaton struct{}

func (MatchAllAutomaton) Start() int                { return 0 }
func (MatchAllAutomaton) IsMatch(int) bool          { return true }
func (MatchAllAutomaton) CanMatch(int) bool         { return true }
func (MatchAllAutomaton) WillAlwaysMatch(int) bool  { return true }
func (MatchAllAutomaton) Accept(int, byte) int      { return 0 }

// Optimizable lets a matcher opt into a collector-driven optimization
// pass (spec §4.3's "replace"): e.g. folding a disjunction of term leaves
// into a single bitmap-backed iterator.
type Optimizable interface {
	Optimize(kind string, octx OptimizableContext) (OptimizableContext, error)
}

// OptimizableContext accumulates state across a tree of Optimizable
// matchers; Finish is called once every participant has contributed.
type OptimizableContext interface {
	Finish() (PostingsIterator, error)
}
