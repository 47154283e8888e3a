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
	"github.com/RoaringBitmap/roaring"

	"github.com/kelpsearch/kelp/segment"
)

// exceptList wraps a List, hiding docs present in except. It is what ice's
// Dictionary.PostingsList returns when called with a non-nil except bitmap
// (used for delete-by-term, filtering the currently-open writer batch's own
// updates out of a term's existing postings).
type exceptList struct {
	*List
	except *roaring.Bitmap
}

// Except returns a view of l that skips any docnum present in except. A nil
// or empty except returns l unchanged.
func (l *List) Except(except *roaring.Bitmap) segment.PostingList {
	if except == nil || except.IsEmpty() {
		return l
	}
	return &exceptList{List: l, except: except}
}

func (l *exceptList) Iterator(includeWeight, includeNorm, includeLocations bool, prealloc segment.PostingsIterator) (
	segment.PostingsIterator, error) {
	var innerPrealloc segment.PostingsIterator
	if ei, ok := prealloc.(*exceptIterator); ok && ei != nil {
		innerPrealloc = ei.inner
	}
	inner, err := l.List.Iterator(includeWeight, includeNorm, includeLocations, innerPrealloc)
	if err != nil {
		return nil, err
	}
	ei, ok := prealloc.(*exceptIterator)
	if !ok || ei == nil {
		ei = &exceptIterator{}
	}
	ei.inner = inner
	ei.except = l.except
	return ei, nil
}

type exceptIterator struct {
	inner  segment.PostingsIterator
	except *roaring.Bitmap
}

func (it *exceptIterator) Next() (segment.Posting, error) {
	for {
		p, err := it.inner.Next()
		if err != nil || p == nil {
			return p, err
		}
		if !it.except.Contains(uint32(p.Number())) {
			return p, nil
		}
	}
}

func (it *exceptIterator) Advance(docNum uint64) (segment.Posting, error) {
	p, err := it.inner.Advance(docNum)
	if err != nil || p == nil {
		return p, err
	}
	if !it.except.Contains(uint32(p.Number())) {
		return p, nil
	}
	return it.Next()
}

func (it *exceptIterator) Size() int               { return it.inner.Size() + 16 }
func (it *exceptIterator) Empty() bool              { return it.inner.Empty() }
func (it *exceptIterator) Count() uint64            { return it.inner.Count() }
func (it *exceptIterator) BlockMaxWeight() (float64, bool) { return it.inner.BlockMaxWeight() }
func (it *exceptIterator) Close() error             { return it.inner.Close() }

var _ segment.PostingList = (*exceptList)(nil)
var _ segment.PostingsIterator = (*exceptIterator)(nil)
