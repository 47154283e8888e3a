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

// Iterator implements segment.PostingsIterator, decoding one block at a
// time from a List. It is reusable: Iterator.reset rebinds it to a new List
// without reallocating, matching the prealloc pattern of
// segment.PostingList.Iterator.
type Iterator struct {
	list *List

	includeWeight    bool
	includeNorm      bool
	includeLocations bool

	blockIdx   int
	haveBlock  bool
	header     blockHeader
	r          *byteReader
	decodedCur int
	lastDocNum uint64

	cur posting
}

func (it *Iterator) reset(l *List, includeWeight, includeNorm, includeLocations bool) {
	it.list = l
	it.includeWeight = includeWeight
	it.includeNorm = includeNorm
	it.includeLocations = includeLocations
	it.blockIdx = 0
	it.haveBlock = false
	it.decodedCur = 0
	it.lastDocNum = 0
	it.cur = posting{}
}

func (it *Iterator) Empty() bool {
	return it.list == nil || len(it.list.ranges) == 0
}

func (it *Iterator) Count() uint64 {
	if it.list == nil {
		return 0
	}
	return it.list.docFreq
}

func (it *Iterator) Size() int {
	return 96
}

func (it *Iterator) Close() error {
	return nil
}

// BlockMaxWeight reports the current block's maximum weight for the
// skip_to_quality optimization of spec §4.3; it only reflects a block once
// Next/Advance has loaded one.
func (it *Iterator) BlockMaxWeight() (float64, bool) {
	if !it.haveBlock {
		return 0, false
	}
	return it.header.maxWeight, true
}

func (it *Iterator) loadBlock(idx int) error {
	rng := it.list.ranges[idx]
	r := newByteReader(it.list.blocks[rng[0]:rng[1]])
	header, err := decodeBlockHeader(r)
	if err != nil {
		return fmt.Errorf("postings: load block %d: %w", idx, err)
	}
	it.header = header
	it.r = r
	it.decodedCur = 0
	it.lastDocNum = 0
	it.haveBlock = true
	it.blockIdx = idx
	return nil
}

// Next decodes and returns the next posting in docid order, or (nil, nil)
// once the list is exhausted.
func (it *Iterator) Next() (segment.Posting, error) {
	for {
		if it.list == nil || it.blockIdx >= len(it.list.ranges) {
			return nil, nil
		}
		if !it.haveBlock {
			if err := it.loadBlock(it.blockIdx); err != nil {
				return nil, err
			}
		}
		if it.decodedCur >= int(it.header.count) {
			it.blockIdx++
			it.haveBlock = false
			continue
		}
		return it.decodeOne()
	}
}

// Advance moves to the first posting with docNum >= target, skipping whole
// blocks via their header's lastDoc before decoding sequentially within the
// block that can contain target.
func (it *Iterator) Advance(target uint64) (segment.Posting, error) {
	if it.list == nil {
		return nil, nil
	}

	for it.blockIdx < len(it.list.ranges) {
		if !it.haveBlock {
			if err := it.loadBlock(it.blockIdx); err != nil {
				return nil, err
			}
		}
		if it.header.lastDoc < target {
			it.blockIdx++
			it.haveBlock = false
			continue
		}
		break
	}

	for {
		p, err := it.Next()
		if err != nil || p == nil {
			return p, err
		}
		if p.Number() >= target {
			return p, nil
		}
	}
}

func (it *Iterator) decodeOne() (segment.Posting, error) {
	delta, err := it.r.uvarint()
	if err != nil {
		return nil, fmt.Errorf("postings: decode docnum delta: %w", err)
	}
	docNum := delta
	if it.decodedCur > 0 {
		docNum = it.lastDocNum + delta
	}

	freq, err := it.r.uvarint()
	if err != nil {
		return nil, fmt.Errorf("postings: decode freq: %w", err)
	}
	weightBits, err := it.r.uvarint()
	if err != nil {
		return nil, fmt.Errorf("postings: decode weight: %w", err)
	}
	normBits, err := it.r.uvarint()
	if err != nil {
		return nil, fmt.Errorf("postings: decode norm: %w", err)
	}
	length, err := it.r.uvarint()
	if err != nil {
		return nil, fmt.Errorf("postings: decode length: %w", err)
	}
	numLocs, err := it.r.uvarint()
	if err != nil {
		return nil, fmt.Errorf("postings: decode numLocations: %w", err)
	}

	it.cur.num = docNum
	it.cur.freq = int(freq)
	it.cur.weight = math.Float64frombits(weightBits)
	it.cur.norm = math.Float64frombits(normBits)
	it.cur.length = int(length)

	if cap(it.cur.locs) < int(numLocs) {
		it.cur.locs = make([]location, numLocs)
	} else {
		it.cur.locs = it.cur.locs[:numLocs]
	}
	for i := uint64(0); i < numLocs; i++ {
		pos, err := it.r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("postings: decode location pos: %w", err)
		}
		start, err := it.r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("postings: decode location start: %w", err)
		}
		locLen, err := it.r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("postings: decode location length: %w", err)
		}
		payloadLen, err := it.r.uvarint()
		if err != nil {
			return nil, fmt.Errorf("postings: decode payload length: %w", err)
		}
		payload, err := it.r.bytes(int(payloadLen))
		if err != nil {
			return nil, fmt.Errorf("postings: decode payload: %w", err)
		}
		it.cur.locs[i] = location{
			pos:     int(pos),
			start:   int(start),
			end:     int(start + locLen),
			payload: payload,
		}
	}

	it.lastDocNum = docNum
	it.decodedCur++

	return &it.cur, nil
}

var _ segment.PostingsIterator = (*Iterator)(nil)
