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
	"context"

	"github.com/RoaringBitmap/roaring"

	"github.com/kelpsearch/kelp/search"
)

// filterSearcher wraps a Searcher, skipping any hit whose document
// number fails included. Used by FilterCollector so every downstream
// wrapper (top_K's min-score pruning, aggregations, with_terms) only
// ever sees docs that passed the filter, rather than filtering the
// already-collected result set after the fact.
type filterSearcher struct {
	inner    search.Searcher
	included func(number uint64) bool
}

func newFilterSearcher(inner search.Searcher, included func(uint64) bool) search.Searcher {
	return &filterSearcher{inner: inner, included: included}
}

func (f *filterSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	for {
		dm, err := f.inner.Next(ctx)
		if err != nil || dm == nil {
			return dm, err
		}
		if f.included(dm.Number) {
			return dm, nil
		}
		ctx.DocumentMatchPool.Put(dm)
	}
}

func (f *filterSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	dm, err := f.inner.Advance(ctx, number)
	if err != nil || dm == nil {
		return dm, err
	}
	if f.included(dm.Number) {
		return dm, nil
	}
	return f.Next(ctx)
}

func (f *filterSearcher) Count() uint64              { return f.inner.Count() }
func (f *filterSearcher) Min() int                   { return f.inner.Min() }
func (f *filterSearcher) DocumentMatchPoolSize() int { return f.inner.DocumentMatchPoolSize() }
func (f *filterSearcher) Close() error               { return f.inner.Close() }

var _ search.Searcher = (*filterSearcher)(nil)

// FilterCollector restricts the hits an inner collector ever sees to a
// docid set, per spec §4.5's filter(include?, exclude?). include/exclude
// follow the rest of this module's docid-set plumbing
// (index/segment_snapshot.go, segment/postings) in using
// *roaring.Bitmap; either may be nil to skip that half of the check.
//
// Per the collector priority decision (SPEC_FULL.md §5, open question
// 3), filter sits innermost: FilterCollector should wrap the base
// collector before collapse/group_by/sort_by/top_K wrap it in turn.
type FilterCollector struct {
	inner   search.Collector
	include *roaring.Bitmap
	exclude *roaring.Bitmap
}

// NewFilterCollector builds a FilterCollector delegating to inner for
// every doc that passes the include/exclude check.
func NewFilterCollector(inner search.Collector, include, exclude *roaring.Bitmap) *FilterCollector {
	return &FilterCollector{inner: inner, include: include, exclude: exclude}
}

func (f *FilterCollector) Collect(ctx context.Context, aggs search.Aggregations,
	searcher search.Collectible) (search.DocumentMatchIterator, error) {
	included := func(number uint64) bool {
		if f.include != nil && !f.include.Contains(uint32(number)) {
			return false
		}
		if f.exclude != nil && f.exclude.Contains(uint32(number)) {
			return false
		}
		return true
	}
	return f.inner.Collect(ctx, aggs, newFilterSearcher(searcher, included))
}

func (f *FilterCollector) Size() int        { return f.inner.Size() }
func (f *FilterCollector) BackingSize() int { return f.inner.BackingSize() }

var _ search.Collector = (*FilterCollector)(nil)
