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

// Package postings implements spec §4.1's posting I/O: the block encoding
// of a term's (docid, length, weight, positions, chars, payloads) runs, and
// the decoder that walks those blocks without materializing the whole
// posting list in memory.
//
// The block layout is grounded in the chunking scheme of
// blugelabs/ice/chunk.go (cap the number of postings a sequential scan must
// walk before it can skip) and the varint int-coding of
// blugelabs/ice/v2/intdecoder.go, simplified to a single in-memory byte
// buffer per term rather than ice's multi-chunk mmap Data source — this
// package owns the byte format, kelpfmt owns laying many terms' worth of it
// out in one segment file.
package postings

import (
	"encoding/binary"
	"fmt"
	"math"
)

// MaxPostingsPerBlock bounds how many postings a block-max skip must scan
// sequentially before it can advance to the next block's header, mirroring
// ice's maxDocsToScanSequentially tuning.
const MaxPostingsPerBlock = 1024

// blockHeader precedes every block's posting runs and backs the
// BlockMaxWeight skip optimization of spec §4.3.
type blockHeader struct {
	count     uint64
	maxWeight float64
	maxLength uint64
	firstDoc  uint64
	lastDoc   uint64
}

func (h *blockHeader) encode(buf []byte) []byte {
	buf = appendUvarint(buf, h.count)
	buf = appendUvarint(buf, math.Float64bits(h.maxWeight))
	buf = appendUvarint(buf, h.maxLength)
	buf = appendUvarint(buf, h.firstDoc)
	buf = appendUvarint(buf, h.lastDoc)
	return buf
}

func decodeBlockHeader(r *byteReader) (blockHeader, error) {
	var h blockHeader
	var err error
	if h.count, err = r.uvarint(); err != nil {
		return h, fmt.Errorf("postings: block header count: %w", err)
	}
	bits, err := r.uvarint()
	if err != nil {
		return h, fmt.Errorf("postings: block header maxWeight: %w", err)
	}
	h.maxWeight = math.Float64frombits(bits)
	if h.maxLength, err = r.uvarint(); err != nil {
		return h, fmt.Errorf("postings: block header maxLength: %w", err)
	}
	if h.firstDoc, err = r.uvarint(); err != nil {
		return h, fmt.Errorf("postings: block header firstDoc: %w", err)
	}
	if h.lastDoc, err = r.uvarint(); err != nil {
		return h, fmt.Errorf("postings: block header lastDoc: %w", err)
	}
	return h, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// byteReader is a minimal cursor over an in-memory posting block, playing
// the role of ice's memUvarintReader without the mmap backing.
type byteReader struct {
	buf []byte
	pos int
}

func newByteReader(buf []byte) *byteReader {
	return &byteReader{buf: buf}
}

func (r *byteReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("postings: corrupt varint at offset %d", r.pos)
	}
	r.pos += n
	return v, nil
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("postings: short read wanted %d bytes at offset %d", n, r.pos)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) eof() bool {
	return r.pos >= len(r.buf)
}
