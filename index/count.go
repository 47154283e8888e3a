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
	"hash"
	"io"

	"github.com/cespare/xxhash/v2"
)

// countHashWriter wraps a Writer, counting bytes written and maintaining
// a running checksum, so a snapshot TOC can record a trailing checksum
// over everything written before it. Ported from bluge/index/count.go,
// swapping hash/crc32 for xxhash/v2 to match the checksum already used
// by segment/kelpfmt's footer (see its DESIGN.md entry).
type countHashWriter struct {
	w io.Writer
	h hash.Hash64
	n int
}

func newCountHashWriter(w io.Writer) *countHashWriter {
	return &countHashWriter{w: w, h: xxhash.New()}
}

func (c *countHashWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.h.Write(b[:n])
	c.n += n
	return n, err
}

func (c *countHashWriter) Count() int { return c.n }

func (c *countHashWriter) Sum64() uint64 { return c.h.Sum64() }
