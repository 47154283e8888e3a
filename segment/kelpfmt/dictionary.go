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
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/blevesearch/vellum"

	"github.com/kelpsearch/kelp/segment"
	"github.com/kelpsearch/kelp/segment/postings"
)

// Dictionary is the term dictionary for one field, grounded on ice's
// Dictionary: before WriteTo it answers from the in-memory sorted terms
// slice, after Load it answers from an FST (fd.fst) over a byte blob.
type Dictionary struct {
	field *fieldData
}

var _ segment.Dictionary = (*Dictionary)(nil)

func (d *Dictionary) Contains(key []byte) (bool, error) {
	if d.field.fst != nil {
		return d.field.fst.fst.Contains(key)
	}
	_, ok := d.field.postingsByTerm[string(key)]
	return ok, nil
}

func (d *Dictionary) Close() error { return nil }

func (d *Dictionary) TermInfo(term []byte, except *roaring.Bitmap, prealloc segment.PostingList) (segment.PostingList, error) {
	list, err := d.field.postingsList(string(term))
	if err != nil {
		return nil, err
	}
	if list == nil {
		return postings.Empty(), nil
	}
	if except == nil {
		return list, nil
	}
	return list.Except(except), nil
}

func (d *Dictionary) Iterator(a segment.Automaton, startKeyInclusive, endKeyExclusive []byte) segment.DictionaryIterator {
	if d.field.fst != nil {
		itr, err := d.field.fst.fst.Search(a, startKeyInclusive, endKeyExclusive)
		if err != nil && err != vellum.ErrIteratorDone {
			return &dictionaryIterator{err: err}
		}
		return &dictionaryIterator{field: d.field, itr: itr}
	}
	return &memDictionaryIterator{
		field: d.field,
		terms: inRange(d.field.terms, startKeyInclusive, endKeyExclusive, a),
	}
}

// inRange filters a sorted term list to [start, end) further constrained
// by automaton a, for the pre-Load in-memory dictionary path.
func inRange(terms []string, start, end []byte, a segment.Automaton) []string {
	var rv []string
	for _, t := range terms {
		tb := []byte(t)
		if start != nil && string(tb) < string(start) {
			continue
		}
		if end != nil && string(tb) >= string(end) {
			continue
		}
		if !automatonAccepts(a, tb) {
			continue
		}
		rv = append(rv, t)
	}
	return rv
}

func automatonAccepts(a segment.Automaton, term []byte) bool {
	if a == nil {
		return true
	}
	state := a.Start()
	for _, b := range term {
		if !a.CanMatch(state) {
			return false
		}
		state = a.Accept(state, b)
	}
	return a.IsMatch(state)
}

type dictEntry struct {
	term  string
	count uint64
}

func (e *dictEntry) Term() string  { return e.term }
func (e *dictEntry) Count() uint64 { return e.count }

// dictionaryIterator walks an FST-backed dictionary (post-Load path).
type dictionaryIterator struct {
	field *fieldData
	itr   vellum.Iterator
	err   error
	entry dictEntry
}

func (i *dictionaryIterator) Next() (segment.DictionaryEntry, error) {
	if i.err != nil && i.err != vellum.ErrIteratorDone {
		return nil, i.err
	}
	if i.itr == nil || i.err == vellum.ErrIteratorDone {
		return nil, nil
	}
	term, offset := i.itr.Current()
	i.entry.term = string(term)
	list, err := decodeListAt(i.field.blob, offset)
	if err != nil {
		return nil, fmt.Errorf("kelpfmt: decode posting list at %d: %w", offset, err)
	}
	i.entry.count = list.Count()
	i.err = i.itr.Next()
	return &i.entry, nil
}

func (i *dictionaryIterator) Close() error { return nil }

// memDictionaryIterator walks an in-memory dictionary (pre-Load path).
type memDictionaryIterator struct {
	field *fieldData
	terms []string
	pos   int
	entry dictEntry
}

func (i *memDictionaryIterator) Next() (segment.DictionaryEntry, error) {
	if i.pos >= len(i.terms) {
		return nil, nil
	}
	t := i.terms[i.pos]
	i.pos++
	list := i.field.postingsByTerm[t]
	i.entry.term = t
	if list != nil {
		i.entry.count = list.Count()
	} else {
		i.entry.count = 0
	}
	return &i.entry, nil
}

func (i *memDictionaryIterator) Close() error { return nil }
