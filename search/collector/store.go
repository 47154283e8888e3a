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

package collector

import (
	"sort"

	"github.com/kelpsearch/kelp/search"
)

// collectorStore holds the best-so-far hits for a TopNCollector run.
//
// Not ported from a retrieved file: topn.go's own heap- and
// slice-backed store implementations (store_heap.go/store_slice.go in
// the teacher) were never retrieved into the pack, only their usage
// through this interface shape. Implemented here with a single
// sorted-slice store rather than porting the teacher's size-dependent
// heap/slice split: a top-K-of-N selection is the textbook use of
// Go's stdlib sort/container patterns, and nothing in the retrieved
// corpus offers a dedicated bounded-priority-queue library, so this is
// the documented stdlib-only exception for this component.
type collectorStore interface {
	// AddNotExceedingSize adds doc, and if the store now holds more than
	// size entries, evicts and returns the single worst one.
	AddNotExceedingSize(doc *search.DocumentMatch, size int) *search.DocumentMatch

	// Final drains the store in best-first order, dropping the first
	// skip entries and running fixup over the remainder.
	Final(skip int, fixup collectorFixup) (search.DocumentMatchCollection, error)
}

type collectorFixup func(d *search.DocumentMatch) error

type sortedSliceStore struct {
	compare func(i, j *search.DocumentMatch) int
	items   search.DocumentMatchCollection
}

func newSortedSliceStore(backingSize int, compare func(i, j *search.DocumentMatch) int) *sortedSliceStore {
	return &sortedSliceStore{
		compare: compare,
		items:   make(search.DocumentMatchCollection, 0, backingSize),
	}
}

func (s *sortedSliceStore) AddNotExceedingSize(doc *search.DocumentMatch, size int) *search.DocumentMatch {
	idx := sort.Search(len(s.items), func(i int) bool {
		return s.compare(s.items[i], doc) > 0
	})
	s.items = append(s.items, nil)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = doc

	if len(s.items) > size {
		removed := s.items[len(s.items)-1]
		s.items = s.items[:len(s.items)-1]
		return removed
	}
	return nil
}

func (s *sortedSliceStore) Final(skip int, fixup collectorFixup) (search.DocumentMatchCollection, error) {
	if skip > len(s.items) {
		skip = len(s.items)
	}
	rv := s.items[skip:]
	for _, d := range rv {
		if err := fixup(d); err != nil {
			return nil, err
		}
	}
	return rv, nil
}
