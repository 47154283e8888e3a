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

import "github.com/kelpsearch/kelp/segment"

// posting implements segment.Posting. Readers reuse one instance across
// Next/Advance calls (as the interface documents), so fields are
// overwritten in place rather than reallocated per posting.
type posting struct {
	num    uint64
	weight float64
	freq   int
	norm   float64
	length int
	locs   []location
	locPtr []segment.Location
}

func (p *posting) Number() uint64       { return p.num }
func (p *posting) SetNumber(n uint64)   { p.num = n }
func (p *posting) Weight() float64      { return p.weight }
func (p *posting) Frequency() int       { return p.freq }
func (p *posting) Norm() float64        { return p.norm }
func (p *posting) Length() int          { return p.length }
func (p *posting) Size() int {
	rv := 64
	for i := range p.locs {
		rv += p.locs[i].Size()
	}
	return rv
}

func (p *posting) Locations() []segment.Location {
	if cap(p.locPtr) < len(p.locs) {
		p.locPtr = make([]segment.Location, len(p.locs))
	}
	p.locPtr = p.locPtr[:len(p.locs)]
	for i := range p.locs {
		p.locPtr[i] = &p.locs[i]
	}
	return p.locPtr
}

var _ segment.Posting = (*posting)(nil)
