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
	"math"

	"github.com/kelpsearch/kelp/segment"
)

// RawPosting is the writer-side shape of one posting: the per-doc
// occurrence data the segment codec has already accumulated for a term,
// ready to be block-encoded. DocNum must be presented to Writer.Add in
// strictly increasing order, matching how kelpfmt walks documents when
// flushing a term's postings.
type RawPosting struct {
	DocNum uint64
	Weight float64
	Freq   int
	Norm   float64
	Length int
	Locs   []segment.Location
}

// Writer accumulates a term's postings into length-bounded blocks (spec
// §4.1) and serializes them to a byte slice that List can later decode
// without loading the whole term's postings into memory at once.
type Writer struct {
	blocks [][]byte

	cur        []byte
	curHeader  blockHeader
	curCount   int
	lastDocNum uint64

	docFreq   uint64
	maxWeight float64
	maxLength int
}

func NewWriter() *Writer {
	return &Writer{}
}

// Add appends one posting. Blocks are cut every MaxPostingsPerBlock entries
// so BlockMaxWeight can skip a whole block's worth of low-scoring postings
// without decoding it.
func (w *Writer) Add(p RawPosting) {
	delta := p.DocNum
	if w.curCount > 0 {
		delta = p.DocNum - w.lastDocNum
	} else {
		w.curHeader.firstDoc = p.DocNum
	}

	w.cur = appendUvarint(w.cur, delta)
	w.cur = appendUvarint(w.cur, uint64(p.Freq))
	w.cur = appendUvarint(w.cur, math.Float64bits(p.Weight))
	w.cur = appendUvarint(w.cur, math.Float64bits(p.Norm))
	w.cur = appendUvarint(w.cur, uint64(p.Length))
	w.cur = appendUvarint(w.cur, uint64(len(p.Locs)))
	for _, l := range p.Locs {
		w.cur = appendUvarint(w.cur, uint64(l.Pos()))
		w.cur = appendUvarint(w.cur, uint64(l.Start()))
		length := l.End() - l.Start()
		if length < 0 {
			length = 0
		}
		w.cur = appendUvarint(w.cur, uint64(length))
		payload := l.Payload()
		w.cur = appendUvarint(w.cur, uint64(len(payload)))
		w.cur = append(w.cur, payload...)
	}

	w.curHeader.count++
	w.curHeader.lastDoc = p.DocNum
	if p.Weight > w.curHeader.maxWeight {
		w.curHeader.maxWeight = p.Weight
	}
	if uint64(p.Length) > w.curHeader.maxLength {
		w.curHeader.maxLength = uint64(p.Length)
	}
	w.curCount++
	w.lastDocNum = p.DocNum

	w.docFreq++
	if p.Weight > w.maxWeight {
		w.maxWeight = p.Weight
	}
	if p.Length > w.maxLength {
		w.maxLength = p.Length
	}

	if w.curCount >= MaxPostingsPerBlock {
		w.flushBlock()
	}
}

func (w *Writer) flushBlock() {
	if w.curCount == 0 {
		return
	}
	block := w.curHeader.encode(nil)
	block = append(block, w.cur...)
	w.blocks = append(w.blocks, block)

	w.cur = nil
	w.curHeader = blockHeader{}
	w.curCount = 0
	w.lastDocNum = 0
}

// Bytes finalizes and returns the encoded posting list for this term. The
// Writer must not be reused after calling Bytes.
func (w *Writer) Bytes() []byte {
	w.flushBlock()

	out := appendUvarint(nil, uint64(len(w.blocks)))
	for _, b := range w.blocks {
		out = appendUvarint(out, uint64(len(b)))
		out = append(out, b...)
	}
	return out
}

func (w *Writer) DocFreq() uint64    { return w.docFreq }
func (w *Writer) MaxWeight() float64 { return w.maxWeight }
func (w *Writer) MaxLength() int     { return w.maxLength }

// Encode returns a self-delimiting encoding of this term's posting list:
// docFreq, maxWeight and maxLength (otherwise carried out-of-band by
// NewList's caller) followed by the block-encoded postings from Bytes.
// Codecs that lay many terms' posting lists back to back in one blob (see
// segment/kelpfmt) use this instead of NewList+Bytes so a list can be
// decoded without consulting anything but its own byte range.
func (w *Writer) Encode() []byte {
	body := w.Bytes()
	out := appendUvarint(nil, w.docFreq)
	out = appendUvarint(out, math.Float64bits(w.maxWeight))
	out = appendUvarint(out, uint64(w.maxLength))
	out = appendUvarint(out, uint64(len(body)))
	out = append(out, body...)
	return out
}
