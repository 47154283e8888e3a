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
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/kelpsearch/kelp/segment"
	"github.com/kelpsearch/kelp/segment/postings"
)

// Input names one segment plus the local doc numbers of it still live
// (not superseded or deleted); index.mergeSegments builds this from a
// segmentSnapshot's deletion bitmap before calling Merge.
type Input struct {
	Segment *Segment
	Live    *roaring.Bitmap
}

// Merge combines several segments' live documents into one new Segment,
// renumbering documents 0..N-1 in (segment order, then local docnum
// order) exactly as index.Writer's offsets table expects. Grounded on
// ice's segment-level merge (referenced from bluge/index/merge.go's call
// sites; ice's own merge.go source was not retrieved into the pack, only
// its signature shape was inferable from the Merger interface in
// segment/api.go) — merges at the posting-list level rather than fully
// decoding each document back into a segment.Document and calling Build,
// since this format has no forward index to reconstruct one from.
func Merge(inputs []Input) (*Segment, error) {
	out := &Segment{
		fields:  make(map[string]*fieldData),
		columns: make(map[string]map[uint64][]byte),
	}

	// docNumBase[i] is the first new doc number input i's live docs map to.
	docNumBase := make([]uint64, len(inputs))
	var newNumDocs uint64
	for i, in := range inputs {
		docNumBase[i] = newNumDocs
		newNumDocs += in.Live.GetCardinality()
	}
	out.numDocs = newNumDocs

	// remap[i][localDocNum] = newDocNum, only for live docs.
	remaps := make([]map[uint64]uint64, len(inputs))
	for i, in := range inputs {
		remap := make(map[uint64]uint64, in.Live.GetCardinality())
		next := docNumBase[i]
		it := in.Live.Iterator()
		for it.HasNext() {
			remap[uint64(it.Next())] = next
			next++
		}
		remaps[i] = remap
	}

	out.storedFields = make([][]storedField, newNumDocs)
	for i, in := range inputs {
		seg := in.Segment
		for localNum, newNum := range remaps[i] {
			if int(localNum) < len(seg.storedFields) {
				out.storedFields[newNum] = seg.storedFields[localNum]
			}
		}
	}

	fieldSet := map[string]struct{}{}
	for _, in := range inputs {
		for _, name := range in.Segment.fieldOrder {
			fieldSet[name] = struct{}{}
		}
		for name := range in.Segment.columns {
			fieldSet[name] = struct{}{}
		}
	}
	for name := range fieldSet {
		out.fieldOrder = append(out.fieldOrder, name)
	}
	sort.Strings(out.fieldOrder)

	for _, name := range out.fieldOrder {
		fd, cols, err := mergeField(name, inputs, remaps)
		if err != nil {
			return nil, err
		}
		if fd != nil {
			out.fields[name] = fd
		}
		if cols != nil {
			out.columns[name] = cols
		}
	}

	return out, nil
}

func mergeField(name string, inputs []Input, remaps []map[uint64]uint64) (*fieldData, map[uint64][]byte, error) {
	termPostings := map[string][]postings.RawPosting{}
	var docCount, totalLen uint64
	var cols map[uint64][]byte

	for i, in := range inputs {
		seg := in.Segment
		sfd, hasField := seg.fields[name]
		if hasField {
			for _, term := range sfd.terms {
				list, err := sfd.postingsList(term)
				if err != nil {
					return nil, nil, err
				}
				if list == nil {
					continue
				}
				it, err := list.Iterator(true, true, true, nil)
				if err != nil {
					return nil, nil, err
				}
				for {
					p, err := it.Next()
					if err != nil {
						return nil, nil, err
					}
					if p == nil {
						break
					}
					newNum, live := remaps[i][p.Number()]
					if !live {
						continue
					}
					termPostings[term] = append(termPostings[term], postings.RawPosting{
						DocNum: newNum,
						Weight: p.Weight(),
						Freq:   p.Frequency(),
						Norm:   p.Norm(),
						Length: p.Length(),
						Locs:   p.Locations(),
					})
				}
			}
			docCount += uint64(sfd.docCount)
			totalLen += sfd.totalLen
		}

		if byDoc, ok := seg.columns[name]; ok {
			for localNum, val := range byDoc {
				newNum, live := remaps[i][localNum]
				if !live {
					continue
				}
				if cols == nil {
					cols = make(map[uint64][]byte)
				}
				cols[newNum] = val
			}
		}
	}

	if len(termPostings) == 0 {
		return nil, cols, nil
	}

	terms := make([]string, 0, len(termPostings))
	for t := range termPostings {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	fd := &fieldData{
		name:           name,
		docCount:       docCount,
		totalLen:       totalLen,
		terms:          terms,
		postingsByTerm: make(map[string]*postings.List, len(terms)),
	}
	for _, t := range terms {
		ps := termPostings[t]
		sort.Slice(ps, func(a, b int) bool { return ps[a].DocNum < ps[b].DocNum })

		w := postings.NewWriter()
		for _, p := range ps {
			w.Add(p)
		}
		list, err := postings.NewList(w.Bytes(), w.DocFreq(), w.MaxWeight(), w.MaxLength())
		if err != nil {
			return nil, nil, err
		}
		fd.postingsByTerm[t] = list
	}
	return fd, cols, nil
}
