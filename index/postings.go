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
	"fmt"

	"github.com/kelpsearch/kelp/segment"
)

// postingsIterator walks one term's postings across every live segment of
// a Snapshot in order, translating each segment's local doc numbers into
// global ones via snapshot.offsets. Ported from bluge/index/postings.go;
// dropped the teacher's iterator-pooling/recycle machinery (allocate a
// fresh postingsIterator per PostingsIterator call instead) since this
// index layer is synchronous and single-writer, so the allocation
// pressure pooling exists to amortize never materializes here.
type postingsIterator struct {
	term          []byte
	field         string
	snapshot      *Snapshot
	postings      []segment.PostingList
	iterators     []segment.PostingsIterator
	segmentOffset int

	includeFreq      bool
	includeNorm      bool
	includeLocations bool

	currPosting segment.Posting
	currID      uint64
}

func (p *postingsIterator) Size() int {
	sz := 64 + len(p.term) + len(p.field)
	for _, pl := range p.postings {
		sz += pl.Size()
	}
	return sz
}

func (p *postingsIterator) Next() (segment.Posting, error) {
	for p.segmentOffset < len(p.iterators) {
		next, err := p.iterators[p.segmentOffset].Next()
		if err != nil {
			return nil, err
		}
		if next != nil {
			rvNumber := next.Number() + p.snapshot.offsets[p.segmentOffset]
			next.SetNumber(rvNumber)
			p.currID = rvNumber
			p.currPosting = next
			return next, nil
		}
		p.segmentOffset++
	}
	return nil, nil
}

func (p *postingsIterator) Advance(number uint64) (segment.Posting, error) {
	if p.currPosting != nil && p.currID >= number {
		fresh, err := p.snapshot.PostingsIterator(p.term, p.field,
			p.includeFreq, p.includeNorm, p.includeLocations)
		if err != nil {
			return nil, err
		}
		*p = *(fresh.(*postingsIterator))
	}

	segIndex, localDocNum := p.snapshot.segmentIndexAndLocalDocNumFromGlobal(number)
	if segIndex >= len(p.snapshot.segment) {
		return nil, fmt.Errorf("index: computed segment index %d out of bounds %d",
			segIndex, len(p.snapshot.segment))
	}
	p.segmentOffset = segIndex
	next, err := p.iterators[p.segmentOffset].Advance(localDocNum)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return p.Next()
	}

	rvNumber := next.Number() + p.snapshot.offsets[p.segmentOffset]
	next.SetNumber(rvNumber)
	p.currID = rvNumber
	p.currPosting = next
	return next, nil
}

func (p *postingsIterator) Count() uint64 {
	var rv uint64
	for _, pl := range p.postings {
		rv += pl.DocFreq()
	}
	return rv
}

func (p *postingsIterator) Empty() bool { return p.Count() == 0 }

func (p *postingsIterator) BlockMaxWeight() (float64, bool) {
	if p.segmentOffset >= len(p.iterators) {
		return 0, false
	}
	return p.iterators[p.segmentOffset].BlockMaxWeight()
}

func (p *postingsIterator) Close() error { return nil }

var _ segment.PostingsIterator = (*postingsIterator)(nil)
