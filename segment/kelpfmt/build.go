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
	"math"
	"sort"

	"github.com/kelpsearch/kelp/segment"
	"github.com/kelpsearch/kelp/segment/postings"
)

// interim is the in-memory staging area a Build pass accumulates before
// laying anything out to bytes, mirroring ice/v2/new.go's interim type.
type interim struct {
	fieldOrder []string
	fields     map[string]*interimField

	numDocs      uint64
	storedFields [][]storedField // per doc, in field order
	docLengths   []map[string]int
	columns      map[string]map[uint64][]byte // field -> docNum -> column value
}

type interimField struct {
	name  string
	terms map[string]*interimTerm

	docCount uint64
	totalLen uint64
}

type interimTerm struct {
	postings []postings.RawPosting
}

type storedField struct {
	name  string
	value []byte
}

// Build converts a batch of segment.Document into an in-memory Segment
// ready for WriteTo or direct querying. docNums are assigned 0..N-1 in the
// order docs are visited, matching the per-flush numbering every segment
// writer in spec §4.8 performs.
func Build(docs []segment.Document) (*Segment, error) {
	in := &interim{
		fields:  make(map[string]*interimField),
		columns: make(map[string]map[uint64][]byte),
	}

	for docNum, doc := range docs {
		in.numDocs++
		var stored []storedField
		lengths := make(map[string]int)

		doc.EachField(func(f segment.Field) {
			name := f.Name()
			fld := in.fields[name]
			if fld == nil {
				fld = &interimField{name: name, terms: make(map[string]*interimTerm)}
				in.fields[name] = fld
				in.fieldOrder = append(in.fieldOrder, name)
			}
			fld.docCount++
			fld.totalLen += uint64(f.Length())
			lengths[name] = f.Length()

			if f.Store() {
				stored = append(stored, storedField{name: name, value: f.Value()})
			}

			if f.IndexDocValues() {
				if in.columns[name] == nil {
					in.columns[name] = make(map[uint64][]byte)
				}
				in.columns[name][uint64(docNum)] = f.DocValue()
			}

			f.EachTerm(func(ft segment.FieldTerm) {
				term := fld.terms[string(ft.Term())]
				if term == nil {
					term = &interimTerm{}
					fld.terms[string(ft.Term())] = term
				}

				var locs []segment.Location
				ft.EachLocation(func(loc segment.Location) {
					locs = append(locs, loc)
				})

				term.postings = append(term.postings, postings.RawPosting{
					DocNum: uint64(docNum),
					Weight: ft.Weight(),
					Freq:   ft.Frequency(),
					Norm:   normFor(f.Length()),
					Length: f.Length(),
					Locs:   locs,
				})
			})
		})

		in.storedFields = append(in.storedFields, stored)
		in.docLengths = append(in.docLengths, lengths)
	}

	sort.Strings(in.fieldOrder)

	return in.toSegment(), nil
}

// normFor packs a field's length into a float32 bit pattern, the same
// encoding search/similarity's ComputeNorm produces and its scorers
// decode back into a length.
func normFor(length int) float64 {
	if length <= 0 {
		return 0
	}
	return float64(math.Float32frombits(uint32(length)))
}

func (in *interim) toSegment() *Segment {
	s := &Segment{
		numDocs:      in.numDocs,
		fieldOrder:   in.fieldOrder,
		fields:       make(map[string]*fieldData, len(in.fields)),
		storedFields: in.storedFields,
		columns:      in.columns,
	}

	for _, name := range in.fieldOrder {
		fld := in.fields[name]
		terms := make([]string, 0, len(fld.terms))
		for t := range fld.terms {
			terms = append(terms, t)
		}
		sort.Strings(terms)

		fd := &fieldData{
			name:     name,
			docCount: fld.docCount,
			totalLen: fld.totalLen,
			terms:    terms,
			postingsByTerm: make(map[string]*postings.List, len(terms)),
		}
		for _, t := range terms {
			it := fld.terms[t]
			w := postings.NewWriter()
			for _, p := range it.postings {
				w.Add(p)
			}
			data := w.Bytes()
			list, err := postings.NewList(data, w.DocFreq(), w.MaxWeight(), w.MaxLength())
			if err != nil {
				// interim data is always self-consistent; a failure here
				// indicates a bug in the writer, not bad input.
				panic(err)
			}
			fd.postingsByTerm[t] = list
		}
		s.fields[name] = fd
	}

	return s
}
