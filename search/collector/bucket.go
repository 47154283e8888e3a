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

// bucketCappedSearcher partitions every hit by keyOf into a bucket, and
// keeps at most limit of them per bucket, ranked by order when a bucket
// overflows. limit < 0 means unbounded (every hit kept); limit == 0
// means every hit is dropped (only bucket membership, not identity,
// would matter to a caller in that mode). Shared by CollapseCollector
// (spec's collapse(facet, limit, order)) and GroupByCollector's top-K
// map_type (spec's group_by(facet, map_type)): both need the same
// "drain everything, bucket, cap, re-sort by doc number" shape, differing
// only in what limit/order they pass and in whether dropped hits are
// reported back through the facet count at all.
//
// Draining eagerly (rather than streaming) is unavoidable here: deciding
// whether a hit displaces another in its bucket requires comparing it
// against every other member already seen, so the wrapper cannot know a
// hit survives until the inner searcher is exhausted. Re-sorting the
// survivors by Number afterward preserves the ascending-order contract
// Searcher.Next documents for any searcher layered on top.
type bucketCappedSearcher struct {
	inner search.Searcher
	keyOf func(*search.DocumentMatch) string
	limit int
	order search.SortOrder

	loadFields []string

	drained bool
	queue   []*search.DocumentMatch
	pos     int
}

func newBucketCappedSearcher(inner search.Searcher, keyOf func(*search.DocumentMatch) string,
	limit int, order search.SortOrder, loadFields []string) *bucketCappedSearcher {
	return &bucketCappedSearcher{inner: inner, keyOf: keyOf, limit: limit, order: order, loadFields: loadFields}
}

func (b *bucketCappedSearcher) drain(ctx *search.Context) error {
	if b.drained {
		return nil
	}
	b.drained = true

	buckets := make(map[string][]*search.DocumentMatch)
	for {
		dm, err := b.inner.Next(ctx)
		if err != nil {
			return err
		}
		if dm == nil {
			break
		}
		if len(b.loadFields) > 0 {
			if err := dm.LoadDocumentValues(ctx, b.loadFields); err != nil {
				return err
			}
		}
		b.order.Compute(dm)

		switch {
		case b.limit < 0:
			key := b.keyOf(dm)
			buckets[key] = append(buckets[key], dm)
		case b.limit == 0:
			ctx.DocumentMatchPool.Put(dm)
		default:
			b.admit(ctx, buckets, dm)
		}
	}

	var kept []*search.DocumentMatch
	for _, bucket := range buckets {
		kept = append(kept, bucket...)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Number < kept[j].Number })
	b.queue = kept
	return nil
}

// admit keeps dm in its bucket if the bucket has room, or if dm outranks
// the bucket's current worst member by order; the displaced match (dm
// itself, when it loses) is returned to the pool.
func (b *bucketCappedSearcher) admit(ctx *search.Context, buckets map[string][]*search.DocumentMatch, dm *search.DocumentMatch) {
	key := b.keyOf(dm)
	bucket := buckets[key]
	if len(bucket) < b.limit {
		buckets[key] = append(bucket, dm)
		return
	}

	worst := 0
	for i := 1; i < len(bucket); i++ {
		if b.order.Compare(bucket[i], bucket[worst]) > 0 {
			worst = i
		}
	}
	if b.order.Compare(dm, bucket[worst]) < 0 {
		ctx.DocumentMatchPool.Put(bucket[worst])
		bucket[worst] = dm
	} else {
		ctx.DocumentMatchPool.Put(dm)
	}
}

func (b *bucketCappedSearcher) Next(ctx *search.Context) (*search.DocumentMatch, error) {
	if err := b.drain(ctx); err != nil {
		return nil, err
	}
	if b.pos >= len(b.queue) {
		return nil, nil
	}
	dm := b.queue[b.pos]
	b.pos++
	return dm, nil
}

func (b *bucketCappedSearcher) Advance(ctx *search.Context, number uint64) (*search.DocumentMatch, error) {
	if err := b.drain(ctx); err != nil {
		return nil, err
	}
	for b.pos < len(b.queue) && b.queue[b.pos].Number < number {
		b.pos++
	}
	return b.Next(ctx)
}

func (b *bucketCappedSearcher) Count() uint64              { return b.inner.Count() }
func (b *bucketCappedSearcher) Min() int                   { return b.inner.Min() }
func (b *bucketCappedSearcher) DocumentMatchPoolSize() int { return b.inner.DocumentMatchPoolSize() }
func (b *bucketCappedSearcher) Close() error               { return b.inner.Close() }

var _ search.Searcher = (*bucketCappedSearcher)(nil)
