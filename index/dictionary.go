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
	"container/heap"

	"github.com/kelpsearch/kelp/segment"
)

// segmentDictCursor is one segment's position within a cross-segment
// dictionary merge: either a live DictionaryIterator cursor (term walks)
// or, for a plain membership Contains, the bare Dictionary.
type segmentDictCursor struct {
	dict segment.Dictionary
	itr  segment.DictionaryIterator
	curr segment.DictionaryEntry
}

type dictionaryEntry struct {
	term  string
	count uint64
}

func (d *dictionaryEntry) Term() string  { return d.term }
func (d *dictionaryEntry) Count() uint64 { return d.count }

// dictionary merges every live segment's Dictionary.Iterator into one
// sorted, deduplicated term cursor via a min-heap over each segment's
// current term, combining doc frequencies for terms shared across
// segments. Ported from bluge/index/dictionary.go near verbatim.
type dictionary struct {
	snapshot *Snapshot
	cursors  []*segmentDictCursor
	entry    dictionaryEntry
}

func (d *dictionary) Len() int { return len(d.cursors) }
func (d *dictionary) Less(a, b int) bool {
	return d.cursors[a].curr.Term() < d.cursors[b].curr.Term()
}
func (d *dictionary) Swap(a, b int) { d.cursors[a], d.cursors[b] = d.cursors[b], d.cursors[a] }

func (d *dictionary) Push(x interface{}) {
	d.cursors = append(d.cursors, x.(*segmentDictCursor))
}

func (d *dictionary) Pop() interface{} {
	n := len(d.cursors)
	x := d.cursors[n-1]
	d.cursors = d.cursors[0 : n-1]
	return x
}

func (d *dictionary) Next() (segment.DictionaryEntry, error) {
	if len(d.cursors) == 0 {
		return nil, nil
	}
	d.entry.term = d.cursors[0].curr.Term()
	d.entry.count = d.cursors[0].curr.Count()
	if err := d.advanceTop(); err != nil {
		return nil, err
	}
	for len(d.cursors) > 0 && d.cursors[0].curr.Term() == d.entry.Term() {
		d.entry.count += d.cursors[0].curr.Count()
		if err := d.advanceTop(); err != nil {
			return nil, err
		}
	}
	return &d.entry, nil
}

func (d *dictionary) advanceTop() error {
	next, err := d.cursors[0].itr.Next()
	if err != nil {
		return err
	}
	if next == nil {
		heap.Pop(d)
	} else {
		d.cursors[0].curr = next
		heap.Fix(d, 0)
	}
	return nil
}

func (d *dictionary) Close() error { return nil }

func (d *dictionary) Contains(key []byte) (bool, error) {
	for _, cursor := range d.cursors {
		if found, _ := cursor.dict.Contains(key); found {
			return true, nil
		}
	}
	return false, nil
}

var _ segment.DictionaryIterator = (*dictionary)(nil)
var _ segment.DictionaryLookup = (*dictionary)(nil)
