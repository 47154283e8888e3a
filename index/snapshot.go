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

package index

import (
	"bufio"
	"bytes"
	"container/heap"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/kelpsearch/kelp/segment"
)

// snapshotFormatVersion identifies the TOC binary format WriteTo/ReadFrom
// use; bump it if the layout changes incompatibly.
const snapshotFormatVersion = 1

const checksumWidth = 8 // xxhash64

// Snapshot is a read-only, point-in-time view of an index: an ordered
// list of segments plus the global doc-number offset at which each one
// begins. Every Writer.Batch produces a fresh Snapshot; searches run
// against one Snapshot for their whole lifetime so results stay
// consistent even as the Writer keeps mutating the root. Ported from
// bluge/index/snapshot.go, with two deliberate simplifications: no
// reference counting (segments here hold no file handles to release,
// see segment/kelpfmt's DESIGN.md entry on eager decode) and no
// per-field async fan-out across segments when building a cross-segment
// dictionary or postings iterator (a plain sequential loop; this index
// layer is synchronous, see index/writer.go's DESIGN.md entry).
type Snapshot struct {
	parent  *Writer
	segment []*segmentSnapshot
	offsets []uint64
	epoch   uint64
	size    uint64
}

func (s *Snapshot) Segments() []SegmentSnapshot {
	rv := make([]SegmentSnapshot, len(s.segment))
	for j := range s.segment {
		rv[j] = s.segment[j]
	}
	return rv
}

func (s *Snapshot) Size() int { return int(s.size) }

func (s *Snapshot) updateSize() {
	s.size = 128
	for _, seg := range s.segment {
		s.size += uint64(seg.Size())
	}
}

// newDictionary merges field's Dictionary across every live segment.
// When makeItr is nil it returns a plain membership cursor (used by
// DictionaryLookup); otherwise it drives makeItr's iterator across every
// segment and heap-merges them (used by DictionaryIterator).
func (s *Snapshot) newDictionary(field string,
	makeItr func(d segment.Dictionary) segment.DictionaryIterator) (*dictionary, error) {
	rv := &dictionary{snapshot: s, cursors: make([]*segmentDictCursor, 0, len(s.segment))}

	for _, seg := range s.segment {
		dict, err := seg.segment.Dictionary(field)
		if err != nil {
			return nil, err
		}
		if makeItr == nil {
			rv.cursors = append(rv.cursors, &segmentDictCursor{dict: dict})
			continue
		}
		itr := makeItr(dict)
		next, err := itr.Next()
		if err != nil {
			return nil, err
		}
		if next != nil {
			rv.cursors = append(rv.cursors, &segmentDictCursor{itr: itr, curr: next})
		}
	}

	if makeItr != nil {
		heap.Init(rv)
	}
	return rv, nil
}

func (s *Snapshot) DictionaryLookup(field string) (segment.DictionaryLookup, error) {
	return s.newDictionary(field, nil)
}

func (s *Snapshot) DictionaryIterator(field string, automaton segment.Automaton, start, end []byte) (
	segment.DictionaryIterator, error) {
	return s.newDictionary(field, func(d segment.Dictionary) segment.DictionaryIterator {
		return d.Iterator(automaton, start, end)
	})
}

func (s *Snapshot) Fields() ([]string, error) {
	seen := map[string]struct{}{}
	var rv []string
	for _, seg := range s.segment {
		for _, f := range seg.Fields() {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				rv = append(rv, f)
			}
		}
	}
	sort.Strings(rv)
	return rv, nil
}

type collectionStats struct {
	docCount uint64
	totalLen uint64
}

func (c *collectionStats) DocumentCount() uint64         { return c.docCount }
func (c *collectionStats) SumTotalTermFrequency() uint64 { return c.totalLen }

func (s *Snapshot) CollectionStats(field string) (segment.CollectionStats, error) {
	rv := &collectionStats{}
	for _, seg := range s.segment {
		segStats, err := seg.segment.CollectionStats(field)
		if err != nil {
			return nil, err
		}
		rv.docCount += segStats.DocumentCount()
		rv.totalLen += segStats.SumTotalTermFrequency()
	}
	return rv, nil
}

func (s *Snapshot) Count() (uint64, error) {
	var rv uint64
	for _, seg := range s.segment {
		rv += seg.Count()
	}
	return rv, nil
}

func (s *Snapshot) VisitStoredFields(number uint64, visitor segment.StoredFieldVisitor) error {
	segIndex, localDocNum := s.segmentIndexAndLocalDocNumFromGlobal(number)
	return s.segment[segIndex].VisitDocument(localDocNum, visitor)
}

func (s *Snapshot) ColumnReader(fields []string) (segment.ColumnReader, error) {
	return &snapshotColumnReader{snapshot: s, fields: fields}, nil
}

type snapshotColumnReader struct {
	snapshot *Snapshot
	fields   []string
}

func (r *snapshotColumnReader) VisitColumnValues(number uint64, visitor segment.ColumnValueVisitor) error {
	segIndex, localDocNum := r.snapshot.segmentIndexAndLocalDocNumFromGlobal(number)
	cr, err := r.snapshot.segment[segIndex].segment.ColumnReader(r.fields)
	if err != nil {
		return err
	}
	return cr.VisitColumnValues(localDocNum, visitor)
}

func (s *Snapshot) segmentIndexAndLocalDocNumFromGlobal(docNum uint64) (segmentIndex int, localDocNum uint64) {
	segmentIndex = sort.Search(len(s.offsets), func(x int) bool {
		return s.offsets[x] > docNum
	}) - 1
	localDocNum = docNum - s.offsets[segmentIndex]
	return segmentIndex, localDocNum
}

// PostingsIterator returns a posting cursor for term in field, merged
// across every live segment in global doc-number order. Each segment's
// list already has that segment's deletion bitmap applied (see
// segment.Dictionary.TermInfo's except parameter).
func (s *Snapshot) PostingsIterator(term []byte, field string, includeFreq,
	includeNorm, includeLocations bool) (segment.PostingsIterator, error) {
	rv := &postingsIterator{
		term:             term,
		field:            field,
		snapshot:         s,
		postings:         make([]segment.PostingList, len(s.segment)),
		iterators:        make([]segment.PostingsIterator, len(s.segment)),
		includeFreq:      includeFreq,
		includeNorm:      includeNorm,
		includeLocations: includeLocations,
	}

	for i, seg := range s.segment {
		dict, err := seg.segment.Dictionary(field)
		if err != nil {
			return nil, err
		}
		pl, err := dict.TermInfo(term, seg.deleted, nil)
		if err != nil {
			return nil, err
		}
		rv.postings[i] = pl
		it, err := pl.Iterator(includeFreq, includeNorm, includeLocations, nil)
		if err != nil {
			return nil, err
		}
		rv.iterators[i] = it
	}
	if s.parent != nil {
		s.parent.stats.TotTermSearchersStarted.Inc()
	}
	return rv, nil
}

// WriteTo serializes the snapshot's TOC: format version, segment count,
// then per-segment (type, codec version, id, deleted-bitmap bytes),
// followed by a trailing checksum. Ported from bluge/index/snapshot.go's
// WriteTo/recordSegment, swapping its crc32 countHashWriter for this
// module's xxhash64 one (see count.go).
func (s *Snapshot) WriteTo(w io.Writer, _ chan struct{}) (int64, error) {
	bw := bufio.NewWriter(w)
	chw := newCountHashWriter(bw)

	var bytesWritten int64
	intBuf := make([]byte, binary.MaxVarintLen64)

	n := binary.PutUvarint(intBuf, uint64(snapshotFormatVersion))
	sz, err := chw.Write(intBuf[:n])
	if err != nil {
		return bytesWritten, fmt.Errorf("index: writing snapshot %d: %w", s.epoch, err)
	}
	bytesWritten += int64(sz)

	n = binary.PutUvarint(intBuf, uint64(len(s.segment)))
	sz, err = chw.Write(intBuf[:n])
	if err != nil {
		return bytesWritten, fmt.Errorf("index: writing snapshot %d: %w", s.epoch, err)
	}
	bytesWritten += int64(sz)

	for _, ss := range s.segment {
		sz, err := recordSegment(chw, ss)
		if err != nil {
			return bytesWritten, fmt.Errorf("index: writing snapshot %d: %w", s.epoch, err)
		}
		bytesWritten += int64(sz)
	}

	sum := chw.Sum64()
	sumBuf := make([]byte, checksumWidth)
	binary.BigEndian.PutUint64(sumBuf, sum)
	sz, err = chw.Write(sumBuf)
	if err != nil {
		return bytesWritten, fmt.Errorf("index: writing snapshot %d checksum: %w", s.epoch, err)
	}
	bytesWritten += int64(sz)

	if err := bw.Flush(); err != nil {
		return bytesWritten, err
	}
	return bytesWritten, nil
}

func recordSegment(w io.Writer, ss *segmentSnapshot) (int, error) {
	var bytesWritten int
	intBuf := make([]byte, binary.MaxVarintLen64)

	sz, err := writeVarLenString(w, intBuf, ss.segmentType)
	if err != nil {
		return bytesWritten, err
	}
	bytesWritten += sz

	binary.BigEndian.PutUint32(intBuf, ss.segmentVersion)
	sz, err = w.Write(intBuf[:4])
	if err != nil {
		return bytesWritten, err
	}
	bytesWritten += sz

	n := binary.PutUvarint(intBuf, ss.id)
	sz, err = w.Write(intBuf[:n])
	if err != nil {
		return bytesWritten, err
	}
	bytesWritten += sz

	var deletedBytes []byte
	if ss.deleted != nil && !ss.deleted.IsEmpty() {
		deletedBytes, err = ss.deleted.ToBytes()
		if err != nil {
			return bytesWritten, err
		}
	}
	n = binary.PutUvarint(intBuf, uint64(len(deletedBytes)))
	sz, err = w.Write(intBuf[:n])
	if err != nil {
		return bytesWritten, err
	}
	bytesWritten += sz

	if len(deletedBytes) > 0 {
		sz, err = w.Write(deletedBytes)
		if err != nil {
			return bytesWritten, err
		}
		bytesWritten += sz
	}

	return bytesWritten, nil
}

func writeVarLenString(w io.Writer, intBuf []byte, str string) (int, error) {
	var bytesWritten int
	n := binary.PutUvarint(intBuf, uint64(len(str)))
	sz, err := w.Write(intBuf[:n])
	if err != nil {
		return bytesWritten, err
	}
	bytesWritten += sz
	sz, err = w.Write([]byte(str))
	if err != nil {
		return bytesWritten, err
	}
	bytesWritten += sz
	return bytesWritten, nil
}

// ReadFrom parses a TOC written by WriteTo. It does not resolve segment
// ids into loaded segments; the Writer does that afterward by consulting
// its SegmentPlugin^Wcodec and Directory.
func (s *Snapshot) ReadFrom(r io.Reader) (int64, error) {
	br := bufio.NewReader(r)

	peek, err := br.Peek(binary.MaxVarintLen64)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("index: reading snapshot %d version: %w", s.epoch, err)
	}
	version, n := binary.Uvarint(peek)
	sz, err := br.Discard(n)
	if err != nil {
		return 0, fmt.Errorf("index: reading snapshot %d version: %w", s.epoch, err)
	}
	bytesRead := int64(sz)

	if version != snapshotFormatVersion {
		return bytesRead, fmt.Errorf("index: unsupported snapshot format version %d", version)
	}

	n2, err := s.readSegments(br)
	bytesRead += n2
	return bytesRead, err
}

func (s *Snapshot) readSegments(br *bufio.Reader) (int64, error) {
	var bytesRead int64
	peek, err := br.Peek(binary.MaxVarintLen64)
	if err != nil && err != io.EOF {
		return bytesRead, fmt.Errorf("index: reading snapshot %d segment count: %w", s.epoch, err)
	}
	numSegments, n := binary.Uvarint(peek)
	sz, err := br.Discard(n)
	if err != nil {
		return bytesRead, fmt.Errorf("index: reading snapshot %d segment count: %w", s.epoch, err)
	}
	bytesRead += int64(sz)

	for j := 0; j < int(numSegments); j++ {
		n, ss, err := s.readSegmentSnapshot(br)
		if err != nil {
			return bytesRead, err
		}
		bytesRead += n
		s.segment = append(s.segment, ss)
	}
	return bytesRead, nil
}

func (s *Snapshot) readSegmentSnapshot(br *bufio.Reader) (bytesRead int64, ss *segmentSnapshot, err error) {
	sz, segType, err := readVarLenString(br)
	if err != nil {
		return bytesRead, nil, fmt.Errorf("index: reading snapshot %d: %w", s.epoch, err)
	}
	bytesRead += int64(sz)

	verBuf := make([]byte, 4)
	n, err := io.ReadFull(br, verBuf)
	if err != nil {
		return bytesRead, nil, fmt.Errorf("index: reading snapshot %d: %w", s.epoch, err)
	}
	segVersion := binary.BigEndian.Uint32(verBuf)
	bytesRead += int64(n)

	peek, err := br.Peek(binary.MaxVarintLen64)
	if err != nil && err != io.EOF {
		return bytesRead, nil, fmt.Errorf("index: reading snapshot %d: %w", s.epoch, err)
	}
	segID, uv := binary.Uvarint(peek)
	sz, err = br.Discard(uv)
	if err != nil {
		return bytesRead, nil, fmt.Errorf("index: reading snapshot %d: %w", s.epoch, err)
	}
	bytesRead += int64(sz)

	ss = &segmentSnapshot{id: segID, segmentType: segType, segmentVersion: segVersion}

	peek, err = br.Peek(binary.MaxVarintLen64)
	if err != nil && err != io.EOF {
		return bytesRead, nil, fmt.Errorf("index: reading snapshot %d: %w", s.epoch, err)
	}
	delLen, uv := binary.Uvarint(peek)
	sz, err = br.Discard(uv)
	if err != nil {
		return bytesRead, nil, fmt.Errorf("index: reading snapshot %d: %w", s.epoch, err)
	}
	bytesRead += int64(sz)

	if delLen > 0 {
		deletedBytes := make([]byte, int(delLen))
		n, err := io.ReadFull(br, deletedBytes)
		if err != nil {
			return bytesRead, nil, fmt.Errorf("index: reading snapshot %d: %w", s.epoch, err)
		}
		bytesRead += int64(n)

		deleted := roaring.NewBitmap()
		if _, err := deleted.ReadFrom(bytes.NewReader(deletedBytes)); err != nil {
			return bytesRead, nil, fmt.Errorf("index: reading snapshot %d deletion bitmap: %w", s.epoch, err)
		}
		if !deleted.IsEmpty() {
			ss.deleted = deleted
		}
	}
	return bytesRead, ss, nil
}

func readVarLenString(r *bufio.Reader) (n int, str string, err error) {
	peek, err := r.Peek(binary.MaxVarintLen64)
	if err != nil {
		return n, "", err
	}
	strLen, uv := binary.Uvarint(peek)
	sz, err := r.Discard(uv)
	if err != nil {
		return n, "", err
	}
	n += sz

	strBytes := make([]byte, strLen)
	sz, err = io.ReadFull(r, strBytes)
	if err != nil {
		return n, "", err
	}
	n += sz
	return n, string(strBytes), nil
}

var _ segment.ColumnReader = (*snapshotColumnReader)(nil)
