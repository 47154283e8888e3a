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

package kelpfmt

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring"

	"github.com/kelpsearch/kelp/segment"
	"github.com/kelpsearch/kelp/segment/postings"
)

// Type identifies this codec in a segment's footer/manifest.
const Type = "kelpfmt"

// Version is bumped whenever the on-disk layout changes incompatibly.
const Version = 1

// fieldData holds one field's term dictionary (either still in-memory, or
// FST-backed after a round trip through WriteTo/Load) plus its
// collection-level stats.
type fieldData struct {
	name     string
	docCount uint64
	totalLen uint64

	// terms and postingsByTerm back the pre-serialization in-memory path.
	terms          []string
	postingsByTerm map[string]*postings.List

	// fst and blob back the post-Load path: fst maps a term to its byte
	// offset within blob, where a self-delimiting postings.List begins.
	fst  *fstLookup
	blob []byte
}

// Segment implements segment.Segment. A freshly Built segment answers
// dictionary lookups from in-memory maps; a Loaded segment answers them
// from an FST plus a byte blob, exactly as ice's Dictionary does after
// mmap'ing a file (see dict.go's fst/fstReader pair) — this package just
// keeps the blob as a plain []byte instead of an mmap region.
type Segment struct {
	numDocs      uint64
	fieldOrder   []string
	fields       map[string]*fieldData
	storedFields [][]storedField
	columns      map[string]map[uint64][]byte
}

func (s *Segment) Type() string    { return Type }
func (s *Segment) Version() uint32 { return Version }
func (s *Segment) Count() uint64   { return s.numDocs }

func (s *Segment) Fields() []string {
	rv := make([]string, len(s.fieldOrder))
	copy(rv, s.fieldOrder)
	return rv
}

func (s *Segment) Size() int {
	size := 64
	for _, fd := range s.fields {
		size += len(fd.blob)
		for _, pl := range fd.postingsByTerm {
			size += pl.Size()
		}
	}
	return size
}

func (s *Segment) Dictionary(field string) (segment.Dictionary, error) {
	fd, ok := s.fields[field]
	if !ok {
		return emptyDictionary{}, nil
	}
	return &Dictionary{field: fd}, nil
}

func (s *Segment) CollectionStats(field string) (segment.CollectionStats, error) {
	fd, ok := s.fields[field]
	if !ok {
		return collectionStats{}, nil
	}
	return collectionStats{docCount: fd.docCount, totalLen: fd.totalLen}, nil
}

func (s *Segment) VisitStoredFields(num uint64, visitor segment.StoredFieldVisitor) error {
	if num >= uint64(len(s.storedFields)) {
		return fmt.Errorf("kelpfmt: doc %d out of range (count %d)", num, len(s.storedFields))
	}
	for _, f := range s.storedFields[num] {
		if !visitor(f.name, f.value) {
			return nil
		}
	}
	return nil
}

func (s *Segment) ColumnReader(fields []string) (segment.ColumnReader, error) {
	return &columnReader{segment: s, fields: fields}, nil
}

func (s *Segment) DocsMatchingTerms(terms []segment.Term) (*roaring.Bitmap, error) {
	rv := roaring.New()
	for _, t := range terms {
		fd, ok := s.fields[t.Field()]
		if !ok {
			continue
		}
		list, err := fd.postingsList(string(t.Term()))
		if err != nil {
			return nil, err
		}
		if list == nil {
			continue
		}
		it, err := list.Iterator(false, false, false, nil)
		if err != nil {
			return nil, err
		}
		for {
			p, err := it.Next()
			if err != nil {
				return nil, err
			}
			if p == nil {
				break
			}
			rv.Add(uint32(p.Number()))
		}
	}
	return rv, nil
}

// postingsList resolves a term's postings.List from whichever
// representation (pre-write map or post-load FST+blob) this field holds.
func (fd *fieldData) postingsList(term string) (*postings.List, error) {
	if fd.postingsByTerm != nil {
		return fd.postingsByTerm[term], nil
	}
	if fd.fst == nil {
		return nil, nil
	}
	offset, found, err := fd.fst.Get([]byte(term))
	if err != nil {
		return nil, fmt.Errorf("kelpfmt: fst lookup %q: %w", term, err)
	}
	if !found {
		return nil, nil
	}
	return decodeListAt(fd.blob, offset)
}

type collectionStats struct {
	docCount uint64
	totalLen uint64
}

func (c collectionStats) DocumentCount() uint64         { return c.docCount }
func (c collectionStats) SumTotalTermFrequency() uint64 { return c.totalLen }

type emptyDictionary struct{}

func (emptyDictionary) Contains([]byte) (bool, error) { return false, nil }
func (emptyDictionary) Close() error                  { return nil }
func (emptyDictionary) TermInfo(_ []byte, _ *roaring.Bitmap, prealloc segment.PostingList) (segment.PostingList, error) {
	return postings.Empty(), nil
}
func (emptyDictionary) Iterator(segment.Automaton, []byte, []byte) segment.DictionaryIterator {
	return emptyIterator{}
}

type emptyIterator struct{}

func (emptyIterator) Next() (segment.DictionaryEntry, error) { return nil, nil }
func (emptyIterator) Close() error                            { return nil }

type columnReader struct {
	segment *Segment
	fields  []string
}

func (c *columnReader) VisitColumnValues(number uint64, visitor segment.ColumnValueVisitor) error {
	for _, f := range c.fields {
		byDoc, ok := c.segment.columns[f]
		if !ok {
			continue
		}
		if v, ok := byDoc[number]; ok {
			visitor(f, v)
		}
	}
	return nil
}

var _ segment.Segment = (*Segment)(nil)

// WriteTo serializes the segment to w. See layout.go for the on-disk
// format; this method exists on Segment purely to satisfy segment.Segment.
func (s *Segment) WriteTo(w io.Writer, closeCh chan struct{}) (int64, error) {
	return writeSegment(s, w, closeCh)
}
