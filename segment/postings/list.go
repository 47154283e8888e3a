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

package postings

import (
	"fmt"
	"math"

	"github.com/kelpsearch/kelp/segment"
)

// List implements segment.PostingList over a byte slice produced by Writer.
// Decoding a term's posting list never happens until something asks for an
// Iterator; List itself only remembers the block byte ranges.
type List struct {
	docFreq   uint64
	maxWeight float64
	maxLength int

	blocks []byte
	ranges [][2]int // [start,end) into blocks, one per encoded block
}

// NewList decodes the block index (not the postings themselves) from data,
// as produced by Writer.Bytes.
func NewList(data []byte, docFreq uint64, maxWeight float64, maxLength int) (*List, error) {
	r := newByteReader(data)
	numBlocks, err := r.uvarint()
	if err != nil {
		return nil, fmt.Errorf("postings: list header: %w", err)
	}

	l := &List{
		docFreq:   docFreq,
		maxWeight: maxWeight,
		maxLength: maxLength,
		blocks:    data,
		ranges:    make([][2]int, 0, numBlocks),
	}
	for i := uint64(0); i < numBlocks; i++ {
		blockLen, err := r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("postings: block %d length: %w", i, err)
		}
		start := r.pos
		end := start + int(blockLen)
		if end > len(data) {
			return nil, fmt.Errorf("postings: block %d overruns list (want %d have %d)", i, end, len(data))
		}
		l.ranges = append(l.ranges, [2]int{start, end})
		r.pos = end
	}
	return l, nil
}

// Empty returns an empty posting list, used for terms absent from a
// dictionary.
func Empty() *List {
	return &List{}
}

// Decode reads one Writer.Encode-produced list starting at data[0] and
// returns the decoded List plus the number of bytes consumed, so callers
// laying many lists back to back (segment/kelpfmt's per-field blob) can
// decode sequentially or seek directly to a remembered offset.
func Decode(data []byte) (*List, int, error) {
	r := newByteReader(data)
	docFreq, err := r.uvarint()
	if err != nil {
		return nil, 0, fmt.Errorf("postings: decode docFreq: %w", err)
	}
	maxWeightBits, err := r.uvarint()
	if err != nil {
		return nil, 0, fmt.Errorf("postings: decode maxWeight: %w", err)
	}
	maxLength, err := r.uvarint()
	if err != nil {
		return nil, 0, fmt.Errorf("postings: decode maxLength: %w", err)
	}
	bodyLen, err := r.uvarint()
	if err != nil {
		return nil, 0, fmt.Errorf("postings: decode body length: %w", err)
	}
	body, err := r.bytes(int(bodyLen))
	if err != nil {
		return nil, 0, fmt.Errorf("postings: decode body: %w", err)
	}
	l, err := NewList(body, docFreq, math.Float64frombits(maxWeightBits), int(maxLength))
	if err != nil {
		return nil, 0, err
	}
	return l, r.pos, nil
}

func (l *List) Size() int {
	return 48 + len(l.blocks)
}

func (l *List) Count() uint64        { return l.docFreq }
func (l *List) DocFreq() uint64      { return l.docFreq }
func (l *List) MaxWeight() float64   { return l.maxWeight }
func (l *List) MaxLength() int       { return l.maxLength }

func (l *List) Iterator(includeWeight, includeNorm, includeLocations bool, prealloc segment.PostingsIterator) (
	segment.PostingsIterator, error) {
	it, ok := prealloc.(*Iterator)
	if !ok || it == nil {
		it = &Iterator{}
	}
	it.reset(l, includeWeight, includeNorm, includeLocations)
	return it, nil
}

var _ segment.PostingList = (*List)(nil)
